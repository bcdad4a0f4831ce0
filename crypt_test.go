// Copyright 2016 - 2023 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ooxmlcrypt

import (
	"testing"
)

func TestDecryptXLSXRejectsEmptyInput(t *testing.T) {
	_, err := DecryptXLSX(nil, "password")
	assertKind(t, err, EmptyInput)
}

func TestDecryptXLSXRejectsNonCompoundFile(t *testing.T) {
	_, err := DecryptXLSX([]byte("plain garbage, not an OLE2 container"), "password")
	assertKind(t, err, NotCompoundFile)
}
