// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"codedna/cerrors"
	"codedna/hashfn"
)

const classMagic = 0xCAFEBABE

// FieldInfo is the subset of a class file's field_info a fingerprint
// needs: its name, descriptor and access flags. Constant values and
// other field attributes play no role in any similarity dimension.
type FieldInfo struct {
	Name        string
	Descriptor  string
	AccessFlags uint16
}

// MethodInfo is a single method's identity plus its behavioral digest.
// InstructionPattern and InstructionHistogram are already hashed per the
// analyzer's configured mode; callers never see raw opcode tokens.
type MethodInfo struct {
	Name                 string
	Descriptor           string
	AccessFlags          uint16
	InstructionPattern   string
	InstructionHistogram map[string]int
}

// ClassInfo is the full parse of one .class file: enough structure to
// compute every structural, API and behavioral feature a fingerprint
// needs, and nothing this analyzer has no use for (no constant-value
// bodies, no debug tables, no line numbers).
type ClassInfo struct {
	MinorVersion uint16
	MajorVersion uint16
	AccessFlags  uint16
	ThisClass    string
	SuperClass   string
	Interfaces   []string
	Fields       []FieldInfo
	Methods      []MethodInfo
	Annotations  []string

	// ExternalReferences is the union, across the superclass, every
	// interface, field descriptor, method descriptor, method body
	// reference and annotation type, of every non-platform type this
	// class touches.
	ExternalReferences []string
}

// AnalyzerOptions configures how a class file is turned into a
// ClassInfo: Mode picks the opcode tokenization granularity and Hash is
// injected so every digest in the resulting ClassInfo uses the same
// hash function the rest of a fingerprint run uses.
type AnalyzerOptions struct {
	Mode Mode
	Hash hashfn.Func
}

// Analyzer parses class files under a fixed set of options. It holds no
// per-call state, so a single Analyzer is safe to reuse (and share)
// across concurrent Analyze calls.
type Analyzer struct {
	opts AnalyzerOptions
}

func NewAnalyzer(opts AnalyzerOptions) *Analyzer {
	if opts.Hash == nil {
		opts.Hash = hashfn.SHA256Hex
	}
	return &Analyzer{opts: opts}
}

// Analyze parses data as a single .class file using the default exact
// mode and SHA-256 hashing. Use NewAnalyzer directly for fuzzy mode or a
// custom hash function.
func Analyze(data []byte) (*ClassInfo, error) {
	return NewAnalyzer(AnalyzerOptions{Mode: ModeExact}).Analyze(data)
}

func (a *Analyzer) Analyze(data []byte) (*ClassInfo, error) {
	c := newCursor(data)

	magic, err := c.u4()
	if err != nil || magic != classMagic {
		return nil, cerrors.NewParseError("", "not a class file: bad magic")
	}

	minor, err := c.u2()
	if err != nil {
		return nil, cerrors.NewParseError("", "truncated before minor_version")
	}
	major, err := c.u2()
	if err != nil {
		return nil, cerrors.NewParseError("", "truncated before major_version")
	}

	cp, err := parseConstantPool(c)
	if err != nil {
		return nil, cerrors.NewParseError("", "constant pool: "+err.Error())
	}

	accessFlags, err := c.u2()
	if err != nil {
		return nil, cerrors.NewParseError("", "truncated before access_flags")
	}
	thisClassIdx, err := c.u2()
	if err != nil {
		return nil, cerrors.NewParseError("", "truncated before this_class")
	}
	superClassIdx, err := c.u2()
	if err != nil {
		return nil, cerrors.NewParseError("", "truncated before super_class")
	}

	thisClass, err := cp.className(thisClassIdx)
	if err != nil {
		return nil, cerrors.NewParseError("", "this_class: "+err.Error())
	}
	superClass, err := cp.className(superClassIdx)
	if err != nil {
		return nil, cerrors.NewParseError(thisClass, "super_class: "+err.Error())
	}

	info := &ClassInfo{
		MinorVersion: minor,
		MajorVersion: major,
		AccessFlags:  accessFlags,
		ThisClass:    thisClass,
		SuperClass:   superClass,
	}
	extRefs := newStringSet()
	if isExternal(superClass) {
		extRefs.add(superClass)
	}

	interfaceCount, err := c.u2()
	if err != nil {
		return nil, cerrors.NewParseError(thisClass, "truncated before interfaces_count")
	}
	for i := 0; i < int(interfaceCount); i++ {
		idx, err := c.u2()
		if err != nil {
			return nil, cerrors.NewParseError(thisClass, "truncated interfaces table")
		}
		name, err := cp.className(idx)
		if err != nil {
			return nil, cerrors.NewParseError(thisClass, "interfaces: "+err.Error())
		}
		info.Interfaces = append(info.Interfaces, name)
		if isExternal(name) {
			extRefs.add(name)
		}
	}

	fieldsCount, err := c.u2()
	if err != nil {
		return nil, cerrors.NewParseError(thisClass, "truncated before fields_count")
	}
	for i := 0; i < int(fieldsCount); i++ {
		fi, err := a.parseField(c, cp, extRefs)
		if err != nil {
			return nil, cerrors.NewParseError(thisClass, "field: "+err.Error())
		}
		info.Fields = append(info.Fields, fi)
	}

	methodsCount, err := c.u2()
	if err != nil {
		return nil, cerrors.NewParseError(thisClass, "truncated before methods_count")
	}
	for i := 0; i < int(methodsCount); i++ {
		mi, err := a.parseMethod(c, cp, extRefs)
		if err != nil {
			return nil, cerrors.NewParseError(thisClass, "method: "+err.Error())
		}
		info.Methods = append(info.Methods, mi)
	}

	classAttrCount, err := c.u2()
	if err != nil {
		return nil, cerrors.NewParseError(thisClass, "truncated before class attributes_count")
	}
	for i := 0; i < int(classAttrCount); i++ {
		name, body, err := readAttribute(c, cp)
		if err != nil {
			return nil, cerrors.NewParseError(thisClass, "class attribute: "+err.Error())
		}
		if name == "RuntimeVisibleAnnotations" || name == "RuntimeInvisibleAnnotations" {
			annos, err := parseAnnotations(body, cp)
			if err != nil {
				return nil, cerrors.NewParseError(thisClass, "annotations: "+err.Error())
			}
			info.Annotations = append(info.Annotations, annos...)
			for _, an := range annos {
				if isExternal(an) {
					extRefs.add(an)
				}
			}
		}
	}

	info.ExternalReferences = extRefs.slice()
	return info, nil
}

func (a *Analyzer) parseField(c *cursor, cp *constantPool, extRefs *stringSet) (FieldInfo, error) {
	accessFlags, err := c.u2()
	if err != nil {
		return FieldInfo{}, err
	}
	nameIdx, err := c.u2()
	if err != nil {
		return FieldInfo{}, err
	}
	descIdx, err := c.u2()
	if err != nil {
		return FieldInfo{}, err
	}
	name, err := cp.utf8At(nameIdx)
	if err != nil {
		return FieldInfo{}, err
	}
	descriptor, err := cp.utf8At(descIdx)
	if err != nil {
		return FieldInfo{}, err
	}

	attrCount, err := c.u2()
	if err != nil {
		return FieldInfo{}, err
	}
	for i := 0; i < int(attrCount); i++ {
		if _, _, err := readAttribute(c, cp); err != nil {
			return FieldInfo{}, err
		}
	}

	for _, t := range scanDescriptorTypes(descriptor) {
		if isExternal(t) {
			extRefs.add(t)
		}
	}

	return FieldInfo{Name: name, Descriptor: descriptor, AccessFlags: accessFlags}, nil
}

func (a *Analyzer) parseMethod(c *cursor, cp *constantPool, extRefs *stringSet) (MethodInfo, error) {
	accessFlags, err := c.u2()
	if err != nil {
		return MethodInfo{}, err
	}
	nameIdx, err := c.u2()
	if err != nil {
		return MethodInfo{}, err
	}
	descIdx, err := c.u2()
	if err != nil {
		return MethodInfo{}, err
	}
	name, err := cp.utf8At(nameIdx)
	if err != nil {
		return MethodInfo{}, err
	}
	descriptor, err := cp.utf8At(descIdx)
	if err != nil {
		return MethodInfo{}, err
	}
	for _, t := range scanDescriptorTypes(descriptor) {
		if isExternal(t) {
			extRefs.add(t)
		}
	}

	mi := MethodInfo{Name: name, Descriptor: descriptor, AccessFlags: accessFlags}

	attrCount, err := c.u2()
	if err != nil {
		return MethodInfo{}, err
	}
	for i := 0; i < int(attrCount); i++ {
		attrName, body, err := readAttribute(c, cp)
		if err != nil {
			return MethodInfo{}, err
		}
		if attrName != "Code" {
			continue
		}
		code, err := parseCodeAttribute(body)
		if err != nil {
			return MethodInfo{}, err
		}
		b := newMethodBuilder(a.opts.Mode, a.opts.Hash, cp, extRefs)
		if err := b.walkCode(code); err != nil {
			return MethodInfo{}, err
		}
		mi.InstructionPattern, mi.InstructionHistogram = b.finalize()
	}
	// Abstract/native methods carry no Code attribute and so have no
	// instruction pattern or histogram at all (not even the empty-method
	// marker), per the "methods with no histogram are omitted" rule.

	return mi, nil
}

// readAttribute reads one generic attribute_info (name + raw body) and
// advances the cursor past it in full, regardless of whether the caller
// recognizes the attribute.
func readAttribute(c *cursor, cp *constantPool) (name string, body []byte, err error) {
	nameIdx, err := c.u2()
	if err != nil {
		return "", nil, err
	}
	name, err = cp.utf8At(nameIdx)
	if err != nil {
		return "", nil, err
	}
	length, err := c.u4()
	if err != nil {
		return "", nil, err
	}
	body, err = c.bytes(int(length))
	if err != nil {
		return "", nil, err
	}
	return name, body, nil
}

// parseCodeAttribute strips a Code attribute's body down to just the
// instruction bytes, skipping max_stack/max_locals, the exception table
// and any nested attributes (LineNumberTable, LocalVariableTable, ...).
func parseCodeAttribute(body []byte) ([]byte, error) {
	c := newCursor(body)
	if err := c.skip(4); err != nil { // max_stack(u2) + max_locals(u2)
		return nil, err
	}
	codeLength, err := c.u4()
	if err != nil {
		return nil, err
	}
	code, err := c.bytes(int(codeLength))
	if err != nil {
		return nil, err
	}

	excTableLength, err := c.u2()
	if err != nil {
		return nil, err
	}
	if err := c.skip(int(excTableLength) * 8); err != nil {
		return nil, err
	}

	return code, nil
}
