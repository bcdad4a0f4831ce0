// Copyright 2016 - 2023 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ooxmlcrypt

// zipLocalFileHeaderSignature is the 4-byte magic every well-formed ZIP
// (and therefore every OOXML package) begins with.
var zipLocalFileHeaderSignature = []byte{0x50, 0x4B, 0x03, 0x04}

// LooksLikeZIP reports whether plaintext begins with the ZIP local file
// header signature. This is a cheap cross-check a caller can run after
// DecryptXLSX — it is not a ZIP parse and does not belong to the
// downstream consumer's responsibilities.
func LooksLikeZIP(plaintext []byte) bool {
	if len(plaintext) < len(zipLocalFileHeaderSignature) {
		return false
	}
	for i, b := range zipLocalFileHeaderSignature {
		if plaintext[i] != b {
			return false
		}
	}
	return true
}
