// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// Category is one of the twelve fuzzy-mode semantic labels an opcode
// normalizes to. The mapping is defined for every opcode 0-255; opcodes
// the class-file format leaves reserved or unused fall into OTHER.
type Category string

const (
	CatLoad    Category = "LOAD"
	CatStore   Category = "STORE"
	CatInvoke  Category = "INVOKE"
	CatArith   Category = "ARITH"
	CatCompare Category = "COMPARE"
	CatReturn  Category = "RETURN"
	CatField   Category = "FIELD"
	CatArray   Category = "ARRAY"
	CatControl Category = "CONTROL"
	CatNew     Category = "NEW"
	CatCast    Category = "CAST"
	CatOther   Category = "OTHER"
)

type opKind int

const (
	kindPlain       opKind = iota // no operand bytes beyond the opcode
	kindU1                        // one unsigned byte operand (ldc, newarray)
	kindU1Local                   // one unsigned byte local-variable index (iload, istore, ret, ...)
	kindS1                        // bipush: signed byte, still 1 operand byte
	kindU2                        // two-byte CP index
	kindS2                        // two-byte signed branch offset
	kindS4                        // four-byte signed branch offset (goto_w, jsr_w)
	kindIinc                      // iinc: u1 local index, s1 const
	kindInvokeInterface           // invokeinterface: u2 CP index, u1 count, u1 zero
	kindInvokeDynamic           // invokedynamic: u2 CP index, u1 zero, u1 zero
	kindMultiANewArray          // u2 CP class index, u1 dimensions
	kindTableSwitch
	kindLookupSwitch
	kindWide
)

type opcodeInfo struct {
	mnemonic string
	category Category
	kind     opKind
}

// opcodeTable is indexed by opcode value (0-255). Every slot is
// pre-filled as a one-byte CatOther instruction before the real
// mnemonics below override their opcodes, so the format's
// reserved/unassigned bytes (0xcb-0xfd) stay well-defined instead of
// falling through to a zero-value Category.
var opcodeTable = buildOpcodeTable()

func buildOpcodeTable() [256]opcodeInfo {
	var t [256]opcodeInfo
	for i := range t {
		t[i] = opcodeInfo{mnemonic: "reserved", category: CatOther, kind: kindPlain}
	}

	set := func(op int, mnemonic string, cat Category, kind opKind) {
		t[op] = opcodeInfo{mnemonic: mnemonic, category: cat, kind: kind}
	}

	set(0x00, "nop", CatOther, kindPlain)
	set(0x01, "aconst_null", CatOther, kindPlain)
	for i, name := range []string{"iconst_m1", "iconst_0", "iconst_1", "iconst_2", "iconst_3", "iconst_4", "iconst_5"} {
		set(0x02+i, name, CatOther, kindPlain)
	}
	set(0x09, "lconst_0", CatOther, kindPlain)
	set(0x0a, "lconst_1", CatOther, kindPlain)
	set(0x0b, "fconst_0", CatOther, kindPlain)
	set(0x0c, "fconst_1", CatOther, kindPlain)
	set(0x0d, "fconst_2", CatOther, kindPlain)
	set(0x0e, "dconst_0", CatOther, kindPlain)
	set(0x0f, "dconst_1", CatOther, kindPlain)
	set(0x10, "bipush", CatOther, kindS1)
	set(0x11, "sipush", CatOther, kindS2)
	set(0x12, "ldc", CatOther, kindU1)
	set(0x13, "ldc_w", CatOther, kindU2)
	set(0x14, "ldc2_w", CatOther, kindU2)

	for i, name := range []string{"iload", "lload", "fload", "dload", "aload"} {
		set(0x15+i, name, CatLoad, kindU1Local)
	}
	for i, name := range []string{"iload_0", "iload_1", "iload_2", "iload_3"} {
		set(0x1a+i, name, CatLoad, kindPlain)
	}
	for i, name := range []string{"lload_0", "lload_1", "lload_2", "lload_3"} {
		set(0x1e+i, name, CatLoad, kindPlain)
	}
	for i, name := range []string{"fload_0", "fload_1", "fload_2", "fload_3"} {
		set(0x22+i, name, CatLoad, kindPlain)
	}
	for i, name := range []string{"dload_0", "dload_1", "dload_2", "dload_3"} {
		set(0x26+i, name, CatLoad, kindPlain)
	}
	for i, name := range []string{"aload_0", "aload_1", "aload_2", "aload_3"} {
		set(0x2a+i, name, CatLoad, kindPlain)
	}
	for i, name := range []string{"iaload", "laload", "faload", "daload", "aaload", "baload", "caload", "saload"} {
		set(0x2e+i, name, CatArray, kindPlain)
	}

	for i, name := range []string{"istore", "lstore", "fstore", "dstore", "astore"} {
		set(0x36+i, name, CatStore, kindU1Local)
	}
	for i, name := range []string{"istore_0", "istore_1", "istore_2", "istore_3"} {
		set(0x3b+i, name, CatStore, kindPlain)
	}
	for i, name := range []string{"lstore_0", "lstore_1", "lstore_2", "lstore_3"} {
		set(0x3f+i, name, CatStore, kindPlain)
	}
	for i, name := range []string{"fstore_0", "fstore_1", "fstore_2", "fstore_3"} {
		set(0x43+i, name, CatStore, kindPlain)
	}
	for i, name := range []string{"dstore_0", "dstore_1", "dstore_2", "dstore_3"} {
		set(0x47+i, name, CatStore, kindPlain)
	}
	for i, name := range []string{"astore_0", "astore_1", "astore_2", "astore_3"} {
		set(0x4b+i, name, CatStore, kindPlain)
	}
	for i, name := range []string{"iastore", "lastore", "fastore", "dastore", "aastore", "bastore", "castore", "sastore"} {
		set(0x4f+i, name, CatArray, kindPlain)
	}

	for i, name := range []string{"pop", "pop2", "dup", "dup_x1", "dup_x2", "dup2", "dup2_x1", "dup2_x2", "swap"} {
		set(0x57+i, name, CatOther, kindPlain)
	}

	arith := []string{"iadd", "ladd", "fadd", "dadd", "isub", "lsub", "fsub", "dsub",
		"imul", "lmul", "fmul", "dmul", "idiv", "ldiv", "fdiv", "ddiv",
		"irem", "lrem", "frem", "drem", "ineg", "lneg", "fneg", "dneg",
		"ishl", "lshl", "ishr", "lshr", "iushr", "lushr", "iand", "land",
		"ior", "lor", "ixor", "lxor"}
	for i, name := range arith {
		set(0x60+i, name, CatArith, kindPlain)
	}
	set(0x84, "iinc", CatArith, kindIinc)

	cast := []string{"i2l", "i2f", "i2d", "l2i", "l2f", "l2d", "f2i", "f2l", "f2d", "d2i", "d2l", "d2f", "i2b", "i2c", "i2s"}
	for i, name := range cast {
		set(0x85+i, name, CatCast, kindPlain)
	}

	for i, name := range []string{"lcmp", "fcmpl", "fcmpg", "dcmpl", "dcmpg"} {
		set(0x94+i, name, CatCompare, kindPlain)
	}

	ifs := []string{"ifeq", "ifne", "iflt", "ifge", "ifgt", "ifle",
		"if_icmpeq", "if_icmpne", "if_icmplt", "if_icmpge", "if_icmpgt", "if_icmple",
		"if_acmpeq", "if_acmpne"}
	for i, name := range ifs {
		set(0x99+i, name, CatControl, kindS2)
	}
	set(0xa7, "goto", CatControl, kindS2)
	set(0xa8, "jsr", CatControl, kindS2)
	set(0xa9, "ret", CatControl, kindU1Local)
	set(0xaa, "tableswitch", CatControl, kindTableSwitch)
	set(0xab, "lookupswitch", CatControl, kindLookupSwitch)

	for i, name := range []string{"ireturn", "lreturn", "freturn", "dreturn", "areturn"} {
		set(0xac+i, name, CatReturn, kindPlain)
	}
	set(0xb1, "return", CatReturn, kindPlain)

	set(0xb2, "getstatic", CatField, kindU2)
	set(0xb3, "putstatic", CatField, kindU2)
	set(0xb4, "getfield", CatField, kindU2)
	set(0xb5, "putfield", CatField, kindU2)
	set(0xb6, "invokevirtual", CatInvoke, kindU2)
	set(0xb7, "invokespecial", CatInvoke, kindU2)
	set(0xb8, "invokestatic", CatInvoke, kindU2)
	set(0xb9, "invokeinterface", CatInvoke, kindInvokeInterface)
	set(0xba, "invokedynamic", CatInvoke, kindInvokeDynamic)
	set(0xbb, "new", CatNew, kindU2)
	set(0xbc, "newarray", CatArray, kindU1)
	set(0xbd, "anewarray", CatArray, kindU2)
	set(0xbe, "arraylength", CatArray, kindPlain)
	set(0xbf, "athrow", CatControl, kindPlain)
	set(0xc0, "checkcast", CatCast, kindU2)
	set(0xc1, "instanceof", CatCast, kindU2)
	set(0xc2, "monitorenter", CatOther, kindPlain)
	set(0xc3, "monitorexit", CatOther, kindPlain)
	set(0xc4, "wide", CatOther, kindWide)
	set(0xc5, "multianewarray", CatArray, kindMultiANewArray)
	set(0xc6, "ifnull", CatControl, kindS2)
	set(0xc7, "ifnonnull", CatControl, kindS2)
	set(0xc8, "goto_w", CatControl, kindS4)
	set(0xc9, "jsr_w", CatControl, kindS4)
	set(0xca, "breakpoint", CatOther, kindPlain)
	set(0xfe, "impdep1", CatOther, kindPlain)
	set(0xff, "impdep2", CatOther, kindPlain)

	return t
}
