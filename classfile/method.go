// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"fmt"
	"strconv"
	"strings"

	"codedna/hashfn"
)

// Mode selects how opcodes are tokenized for instruction_pattern /
// instruction_histogram. The two modes must never be mixed in a single
// comparison: their token alphabets are disjoint by construction
// (decimal opcodes vs. category labels), so their pattern hashes never
// match. The hashes themselves do not reveal the mode; a persisted
// envelope records it in its fuzzy_mode field, and comparisons of two
// envelopes reject a mix with a SchemaError.
type Mode int

const (
	// ModeExact tokenizes each instruction as the decimal opcode value.
	ModeExact Mode = iota
	// ModeFuzzy tokenizes each instruction as one of twelve semantic
	// category labels (LOAD, STORE, INVOKE, ...).
	ModeFuzzy
)

// String satisfies fmt.Stringer so a Mode prints as "exact"/"fuzzy"
// rather than its underlying int in error messages and logs.
func (m Mode) String() string {
	if m == ModeFuzzy {
		return "fuzzy"
	}
	return "exact"
}

func (m Mode) token(op int) string {
	info := opcodeTable[op]
	if m == ModeFuzzy {
		return string(info.category)
	}
	return strconv.Itoa(op)
}

// instructionShape classifies an opcode by which operand-extraction
// rule applies to it, independent of its fuzzy-mode Category (e.g.
// anewarray is shape-wise a type instruction but category-wise ARRAY).
type instructionShape int

const (
	shapeOther instructionShape = iota
	shapeInvoke
	shapeField
	shapeType
)

func shapeOf(op int) instructionShape {
	switch op {
	case 0xb6, 0xb7, 0xb8, 0xb9: // invokevirtual, invokespecial, invokestatic, invokeinterface
		return shapeInvoke
	case 0xb2, 0xb3, 0xb4, 0xb5: // getstatic, putstatic, getfield, putfield
		return shapeField
	case 0xbb, 0xbd, 0xc0, 0xc1: // new, anewarray, checkcast, instanceof
		return shapeType
	default:
		return shapeOther
	}
}

// methodBuilder is the scoped, per-method accumulator: a mutable token
// vector plus a pointer into the parent class's external-references
// set, a per-class-scope builder instead of a polymorphic visitor
// hierarchy.
type methodBuilder struct {
	mode         Mode
	hash         hashfn.Func
	cp           *constantPool
	classExtRefs *stringSet
	tokens       []string
}

func newMethodBuilder(mode Mode, hash hashfn.Func, cp *constantPool, classExtRefs *stringSet) *methodBuilder {
	return &methodBuilder{mode: mode, hash: hash, cp: cp, classExtRefs: classExtRefs}
}

// walkCode decodes every instruction in a method's Code attribute body in
// order, emitting one token per instruction and feeding the external-
// reference rule for method-call, field-access and type-instruction
// shapes. Operand values and branch targets are never interpreted beyond
// what's needed to advance the cursor the correct number of bytes.
func (b *methodBuilder) walkCode(code []byte) error {
	c := newCursor(code)
	for c.remaining() > 0 {
		instrStart := c.pos
		op, err := c.u1()
		if err != nil {
			return err
		}
		info := opcodeTable[op]

		var cpIndex uint16
		hasCPIndex := false

		switch info.kind {
		case kindPlain:
			// no operand bytes
		case kindU1, kindU1Local, kindS1:
			if err := c.skip(1); err != nil {
				return err
			}
		case kindU2:
			idx, err := c.u2()
			if err != nil {
				return err
			}
			cpIndex, hasCPIndex = idx, true
		case kindS2:
			if err := c.skip(2); err != nil {
				return err
			}
		case kindS4:
			if err := c.skip(4); err != nil {
				return err
			}
		case kindIinc:
			if err := c.skip(2); err != nil {
				return err
			}
		case kindInvokeInterface:
			idx, err := c.u2()
			if err != nil {
				return err
			}
			if err := c.skip(2); err != nil { // count(u1) + zero(u1)
				return err
			}
			cpIndex, hasCPIndex = idx, true
		case kindInvokeDynamic:
			idx, err := c.u2()
			if err != nil {
				return err
			}
			if err := c.skip(2); err != nil { // zero(u1) + zero(u1)
				return err
			}
			cpIndex, hasCPIndex = idx, true
		case kindMultiANewArray:
			if err := c.skip(3); err != nil {
				return err
			}
		case kindTableSwitch:
			if err := b.skipTableSwitch(c, instrStart); err != nil {
				return err
			}
		case kindLookupSwitch:
			if err := b.skipLookupSwitch(c, instrStart); err != nil {
				return err
			}
		case kindWide:
			if err := b.walkWide(c); err != nil {
				return err
			}
		}

		b.emit(int(op), cpIndex, hasCPIndex)
	}
	return nil
}

// emit records one opcode token and, for the three referencing
// instruction shapes, applies the external-reference rule using the
// constant-pool index captured while decoding the instruction's operand.
func (b *methodBuilder) emit(op int, cpIndex uint16, hasCPIndex bool) {
	b.tokens = append(b.tokens, b.mode.token(op))

	if !hasCPIndex {
		return
	}

	switch shapeOf(op) {
	case shapeInvoke:
		owner, name, descriptor, err := b.cp.ref(cpIndex)
		if err != nil {
			// A malformed operand here is a local anomaly, not fatal to
			// the whole method: skip reference extraction for this
			// instruction and keep walking.
			return
		}
		if isExternal(owner) {
			b.classExtRefs.add(owner + "." + name + descriptor)
		}
		for _, t := range scanDescriptorTypes(descriptor) {
			if isExternal(t) {
				b.classExtRefs.add(t)
			}
		}
	case shapeField:
		owner, name, _, err := b.cp.ref(cpIndex)
		if err != nil {
			return
		}
		if isExternal(owner) {
			b.classExtRefs.add(owner + "." + name)
		}
	case shapeType:
		typ, err := b.cp.className(cpIndex)
		if err != nil {
			return
		}
		if isExternal(typ) {
			b.classExtRefs.add(typ)
		}
	}
}

func (b *methodBuilder) skipTableSwitch(c *cursor, instrStart int) error {
	pad := (4 - c.pos%4) % 4 // operands start at a multiple of 4 from the code start
	if err := c.skip(pad); err != nil {
		return err
	}
	if _, err := c.s4(); err != nil { // default
		return err
	}
	low, err := c.s4()
	if err != nil {
		return err
	}
	high, err := c.s4()
	if err != nil {
		return err
	}
	n := int(high-low) + 1
	if n < 0 {
		return fmt.Errorf("tableswitch: invalid range [%d,%d]", low, high)
	}
	return c.skip(n * 4)
}

func (b *methodBuilder) skipLookupSwitch(c *cursor, instrStart int) error {
	pad := (4 - c.pos%4) % 4 // operands start at a multiple of 4 from the code start
	if err := c.skip(pad); err != nil {
		return err
	}
	if _, err := c.s4(); err != nil { // default
		return err
	}
	npairs, err := c.s4()
	if err != nil {
		return err
	}
	if npairs < 0 {
		return fmt.Errorf("lookupswitch: negative npairs %d", npairs)
	}
	return c.skip(int(npairs) * 8)
}

func (b *methodBuilder) walkWide(c *cursor) error {
	innerOp, err := c.u1()
	if err != nil {
		return err
	}
	if innerOp == 0x84 { // iinc
		return c.skip(4) // index(u2) + const(s2)
	}
	return c.skip(2) // index(u2)
}

// boilerplate shapes: a getter is load-this / read-field / typed-return;
// a setter is load-this / write-field / void-return. Both collapse to
// the same fuzzy-mode label multiset.
var fuzzyBoilerplateShape = []string{string(CatLoad), string(CatField), string(CatReturn)}

const (
	opALOAD0    = 0x2a
	opGETFIELD  = 0xb4
	opPUTFIELD  = 0xb5
	opRETURNVoid = 0xb1
)

var exactReturnOpcodes = []int{0xac, 0xad, 0xae, 0xaf, 0xb0} // ireturn..areturn

func containsAll(tokens []string, required []string) bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	for _, r := range required {
		if !set[r] {
			return false
		}
	}
	return true
}

func containsAny(tokens []string, candidates []int) bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	for _, op := range candidates {
		if set[strconv.Itoa(op)] {
			return true
		}
	}
	return false
}

// isBoilerplate reports whether tokens (the method's full, unfiltered
// token sequence) matches the getter or setter shape under mode.
func isBoilerplate(tokens []string, mode Mode) bool {
	if len(tokens) > 5 {
		return false
	}
	if mode == ModeFuzzy {
		return containsAll(tokens, fuzzyBoilerplateShape)
	}

	has := func(op int) bool {
		s := strconv.Itoa(op)
		for _, t := range tokens {
			if t == s {
				return true
			}
		}
		return false
	}
	isGetter := has(opALOAD0) && has(opGETFIELD) && containsAny(tokens, exactReturnOpcodes)
	isSetter := has(opALOAD0) && has(opPUTFIELD) && has(opRETURNVoid)
	return isGetter || isSetter
}

// finalize computes the method's instruction_pattern and
// instruction_histogram, applying the boilerplate filter and 3-gram
// pattern hash.
func (b *methodBuilder) finalize() (pattern string, histogram map[string]int) {
	histogram = computeHistogram(b.tokens, b.hash)
	pattern = computePattern(b.tokens, b.mode, b.hash)
	return pattern, histogram
}

func computeHistogram(tokens []string, hash hashfn.Func) map[string]int {
	if len(tokens) == 0 {
		return map[string]int{hash("<empty>"): 1}
	}
	h := make(map[string]int, len(tokens))
	for _, t := range tokens {
		h[hash(t)]++
	}
	return h
}

func computePattern(tokens []string, mode Mode, hash hashfn.Func) string {
	n := len(tokens)
	if n == 0 {
		return hash("EMPTY_METHOD")
	}
	if n < 3 {
		return hash("TRIVIAL_METHOD:" + strings.Join(tokens, "-"))
	}

	filtered := tokens
	if isBoilerplate(tokens, mode) {
		filtered = nil
	}
	if len(filtered) < 3 {
		return hash(fmt.Sprintf("BOILERPLATE_ONLY:%d", n))
	}

	grams := make([]string, 0, len(filtered)-2)
	for i := 0; i+3 <= len(filtered); i++ {
		grams = append(grams, strings.Join(filtered[i:i+3], ","))
	}
	return hash(strings.Join(grams, ","))
}
