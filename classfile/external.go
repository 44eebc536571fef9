// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "strings"

// defaultAllowlist holds the internal-name prefixes treated as part of
// the platform, never as an external reference: the JDK's own packages
// and Kotlin's runtime support library.
var defaultAllowlist = []string{"java/", "javax/", "kotlin/"}

// isExternal reports whether internalName (slash-separated, e.g.
// "org/acme/Widget") refers to a type outside the platform allowlist.
// Array and primitive descriptor prefixes are never passed in here:
// callers resolve to the bare internal class name before calling this.
func isExternal(internalName string) bool {
	if internalName == "" {
		return false
	}
	for _, prefix := range defaultAllowlist {
		if strings.HasPrefix(internalName, prefix) {
			return false
		}
	}
	return true
}
