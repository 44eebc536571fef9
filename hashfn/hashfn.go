// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package hashfn provides the single injected hash function CodeDNA hashes
// every canonical feature string through. The default is SHA-256, emitted
// as lowercase hex; any other algorithm (xxHash, BLAKE2, ...) is a
// configuration choice, not core logic, per the one-hash-function design.
package hashfn

import (
	"crypto/sha256"
	"encoding/hex"
)

// Func hashes a canonical feature string into a lowercase hex digest.
// All CodeDNA hash sets are built by applying the same Func to every
// input string, so two implementations constructed with different Funcs
// are never comparable.
type Func func(s string) string

// SHA256Hex is the default hash function: SHA-256 over the UTF-8 bytes
// of s, emitted as lowercase hex.
func SHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
