// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "testing"

// FuzzParseClass feeds arbitrary byte strings into Analyze. The analyzer
// must never panic on malformed input: every failure mode is expected to
// surface as a returned error.
func FuzzParseClass(f *testing.F) {
	f.Add(buildGetterClass())
	f.Add([]byte{0xCA, 0xFE, 0xBA, 0xBE})
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("Analyze panicked on input of length %d: %v", len(data), r)
			}
		}()
		_, _ = Analyze(data)
	})
}
