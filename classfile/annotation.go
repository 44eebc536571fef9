// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "fmt"

// parseAnnotations decodes a RuntimeVisible/InvisibleAnnotations
// attribute body into the list of annotation type descriptors present
// at class scope. Only the top-level annotations' own types are
// collected; element values are walked only far enough to advance past
// them correctly, never interpreted.
func parseAnnotations(body []byte, cp *constantPool) ([]string, error) {
	c := newCursor(body)
	count, err := c.u2()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, count)
	for i := 0; i < int(count); i++ {
		name, err := parseAnnotation(c, cp)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// parseAnnotation reads one annotation structure and returns its
// resolved type descriptor (e.g. "Lorg/acme/Deprecated;" -> "org/acme/Deprecated").
func parseAnnotation(c *cursor, cp *constantPool) (string, error) {
	typeIdx, err := c.u2()
	if err != nil {
		return "", err
	}
	typeDescriptor, err := cp.utf8At(typeIdx)
	if err != nil {
		return "", err
	}

	pairCount, err := c.u2()
	if err != nil {
		return "", err
	}
	for i := 0; i < int(pairCount); i++ {
		if err := c.skip(2); err != nil { // element_name_index
			return "", err
		}
		if err := skipElementValue(c); err != nil {
			return "", err
		}
	}

	// Stored as the bare internal class name rather than the raw "L...;"
	// descriptor: isExternal matches on a "java/"-style package prefix,
	// which the descriptor's leading L and trailing ; would break.
	types := scanDescriptorTypes(typeDescriptor)
	if len(types) == 1 {
		return types[0], nil
	}
	return typeDescriptor, nil
}

// skipElementValue advances c past a single element_value structure,
// recursing into nested/array/enum/class variants as needed.
func skipElementValue(c *cursor) error {
	tag, err := c.u1()
	if err != nil {
		return err
	}
	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's', 'c':
		return c.skip(2)
	case 'e':
		return c.skip(4) // type_name_index + const_name_index
	case '@':
		if err := c.skip(2); err != nil { // nested annotation's type_index
			return err
		}
		pairCount, err := c.u2()
		if err != nil {
			return err
		}
		for i := 0; i < int(pairCount); i++ {
			if err := c.skip(2); err != nil {
				return err
			}
			if err := skipElementValue(c); err != nil {
				return err
			}
		}
		return nil
	case '[':
		n, err := c.u2()
		if err != nil {
			return err
		}
		for i := 0; i < int(n); i++ {
			if err := skipElementValue(c); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown element_value tag %q", tag)
	}
}
