// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "strings"

// scanDescriptorTypes extracts every embedded object-type internal name
// (the "L...;" form, array element types included) from a field or
// method descriptor, e.g. "(Ljava/util/List;I[Lfoo/Bar;)Ljava/lang/String;"
// yields ["java/util/List", "foo/Bar", "java/lang/String"]. Primitive and
// array-of-primitive components contribute nothing.
func scanDescriptorTypes(descriptor string) []string {
	var out []string
	for i := 0; i < len(descriptor); i++ {
		if descriptor[i] != 'L' {
			continue
		}
		end := strings.IndexByte(descriptor[i:], ';')
		if end < 0 {
			break
		}
		out = append(out, descriptor[i+1:i+end])
		i += end
	}
	return out
}
