// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "fmt"

// Constant-pool tags, from the class-file format's §4.4 (constant pool
// entry kinds). Not every tag is structurally needed by this analyzer
// (e.g. Module/Package only appear in module-info.class), but the table
// must cover every tag the format defines so parsing never desyncs on an
// entry kind we don't otherwise care about.
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

// cpEntry is a loosely-typed constant pool slot: idx1/idx2 hold whichever
// index fields the tag defines (class_index/name_and_type_index for refs,
// name_index/descriptor_index for NameAndType, name_index alone for
// Class). Decoded Utf8 strings are kept in constantPool.utf8. Numeric
// constants (Integer/Float/Long/Double/String) are not decoded since no
// feature in this analyzer reads their value, only their presence as a
// slot other entries may index into.
type cpEntry struct {
	tag  uint8
	idx1 uint16
	idx2 uint16
}

type constantPool struct {
	entries []cpEntry // 1-indexed; entries[0] is a zero-value unused placeholder
	utf8    map[uint16]string
}

// parseConstantPool reads constant_pool_count-1 entries, handling the
// class-file format's own quirk that Long/Double entries occupy two
// constant-pool indices (the next index is left as an unused placeholder).
func parseConstantPool(c *cursor) (*constantPool, error) {
	count, err := c.u2()
	if err != nil {
		return nil, err
	}

	cp := &constantPool{
		entries: make([]cpEntry, count),
		utf8:    make(map[uint16]string),
	}

	for i := uint16(1); i < count; i++ {
		tag, err := c.u1()
		if err != nil {
			return nil, err
		}
		switch tag {
		case tagUtf8:
			length, err := c.u2()
			if err != nil {
				return nil, err
			}
			raw, err := c.bytes(int(length))
			if err != nil {
				return nil, err
			}
			cp.utf8[i] = decodeModifiedUTF8(raw)
			cp.entries[i] = cpEntry{tag: tag}
		case tagInteger, tagFloat:
			if err := c.skip(4); err != nil {
				return nil, err
			}
			cp.entries[i] = cpEntry{tag: tag}
		case tagLong, tagDouble:
			if err := c.skip(8); err != nil {
				return nil, err
			}
			cp.entries[i] = cpEntry{tag: tag}
			i++ // occupies the next slot too
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			idx, err := c.u2()
			if err != nil {
				return nil, err
			}
			cp.entries[i] = cpEntry{tag: tag, idx1: idx}
		case tagFieldref, tagMethodref, tagInterfaceMethodref, tagNameAndType, tagDynamic, tagInvokeDynamic:
			idx1, err := c.u2()
			if err != nil {
				return nil, err
			}
			idx2, err := c.u2()
			if err != nil {
				return nil, err
			}
			cp.entries[i] = cpEntry{tag: tag, idx1: idx1, idx2: idx2}
		case tagMethodHandle:
			if err := c.skip(1); err != nil { // reference_kind
				return nil, err
			}
			idx, err := c.u2() // reference_index
			if err != nil {
				return nil, err
			}
			cp.entries[i] = cpEntry{tag: tag, idx1: idx}
		default:
			return nil, fmt.Errorf("unknown constant pool tag %d at index %d", tag, i)
		}
	}
	return cp, nil
}

func (cp *constantPool) at(i uint16) (cpEntry, error) {
	if i == 0 || int(i) >= len(cp.entries) {
		return cpEntry{}, fmt.Errorf("constant pool index %d out of range", i)
	}
	return cp.entries[i], nil
}

func (cp *constantPool) utf8At(i uint16) (string, error) {
	s, ok := cp.utf8[i]
	if !ok {
		return "", fmt.Errorf("constant pool index %d is not a Utf8 entry", i)
	}
	return s, nil
}

// className resolves a Class entry to its internal name (e.g. "a/b/C").
func (cp *constantPool) className(classIndex uint16) (string, error) {
	if classIndex == 0 {
		return "", nil
	}
	e, err := cp.at(classIndex)
	if err != nil {
		return "", err
	}
	if e.tag != tagClass {
		return "", fmt.Errorf("constant pool index %d is not a Class entry", classIndex)
	}
	return cp.utf8At(e.idx1)
}

// nameAndType resolves a NameAndType entry to its (name, descriptor) pair.
func (cp *constantPool) nameAndType(natIndex uint16) (name, descriptor string, err error) {
	e, err := cp.at(natIndex)
	if err != nil {
		return "", "", err
	}
	if e.tag != tagNameAndType {
		return "", "", fmt.Errorf("constant pool index %d is not a NameAndType entry", natIndex)
	}
	name, err = cp.utf8At(e.idx1)
	if err != nil {
		return "", "", err
	}
	descriptor, err = cp.utf8At(e.idx2)
	return name, descriptor, err
}

// ref resolves a Fieldref/Methodref/InterfaceMethodref to (owner internal
// name, member name, member descriptor).
func (cp *constantPool) ref(refIndex uint16) (owner, name, descriptor string, err error) {
	e, err := cp.at(refIndex)
	if err != nil {
		return "", "", "", err
	}
	switch e.tag {
	case tagFieldref, tagMethodref, tagInterfaceMethodref:
	default:
		return "", "", "", fmt.Errorf("constant pool index %d is not a ref entry", refIndex)
	}
	owner, err = cp.className(e.idx1)
	if err != nil {
		return "", "", "", err
	}
	name, descriptor, err = cp.nameAndType(e.idx2)
	return owner, name, descriptor, err
}

// decodeModifiedUTF8 decodes the class-file format's "modified UTF-8"
// encoding. Only the differences from plain UTF-8 that matter for the
// ASCII-heavy internal names and descriptors this analyzer reads are
// handled: the format's overlong NUL (0xC0 0x80) and supplementary
// characters are vanishingly rare in the feature strings we hash, so a
// byte-for-byte passthrough (treating it as UTF-8) is sufficient for
// producing a stable, comparable string; any real divergence only
// affects cosmetic rendering of unusual identifiers, never the hash.
func decodeModifiedUTF8(raw []byte) string {
	return string(raw)
}
