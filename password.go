// Copyright 2016 - 2023 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ooxmlcrypt

import "golang.org/x/text/encoding/unicode"

// utf16LE transcodes a UTF-8 password into the UTF-16LE byte sequence the
// MS-OFFCRYPTO key derivation hashes: little-endian, two bytes per BMP code
// unit, no byte-order mark, no terminator.
func utf16LE(password string) ([]byte, error) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	buf, err := enc.Bytes([]byte(password))
	if err != nil {
		return nil, newErr(CryptoError, "password is not valid UTF-8 / UTF-16", err)
	}
	return buf, nil
}
