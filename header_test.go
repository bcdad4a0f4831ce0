// Copyright 2016 - 2023 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ooxmlcrypt

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func encodeHeader(major, minor uint16, flags uint32) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint16(buf[0:2], major)
	binary.LittleEndian.PutUint16(buf[2:4], minor)
	binary.LittleEndian.PutUint32(buf[4:8], flags)
	return buf
}

func TestDispatchRejectionTable(t *testing.T) {
	t.Run("unsupported version 5.0", func(t *testing.T) {
		_, _, err := dispatch(encodeHeader(5, 0, 0))
		assertKind(t, err, UnsupportedVersion)
	})

	t.Run("agile bad flags", func(t *testing.T) {
		_, _, err := dispatch(encodeHeader(4, 4, 0x41))
		assertKind(t, err, BadHeader)
	})

	t.Run("standard reserved bit 0 set", func(t *testing.T) {
		flags := uint32(flagCryptoAPI | flagAES | flagReserved1)
		_, _, err := dispatch(encodeHeader(4, 2, flags))
		assertKind(t, err, BadHeader)
	})

	t.Run("standard fExternal set", func(t *testing.T) {
		flags := uint32(flagCryptoAPI | flagAES | flagExternal)
		_, _, err := dispatch(encodeHeader(4, 2, flags))
		assertKind(t, err, UnsupportedExtensibleEncryption)
	})

	t.Run("standard missing fAES", func(t *testing.T) {
		flags := uint32(flagCryptoAPI)
		_, _, err := dispatch(encodeHeader(4, 2, flags))
		assertKind(t, err, NotOoxml)
	})

	t.Run("valid agile dispatch", func(t *testing.T) {
		scheme, body, err := dispatch(append(encodeHeader(4, 4, 0x40), []byte("<xml/>")...))
		assert.NoError(t, err)
		assert.Equal(t, SchemeAgile, scheme)
		assert.Equal(t, []byte("<xml/>"), body)
	})

	t.Run("valid standard dispatch for each major version", func(t *testing.T) {
		flags := uint32(flagCryptoAPI | flagAES)
		for _, major := range []uint16{2, 3, 4} {
			scheme, _, err := dispatch(encodeHeader(major, 2, flags))
			assert.NoError(t, err)
			assert.Equal(t, SchemeStandard, scheme)
		}
	})
}

func assertKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error of kind %s, got nil", kind)
	}
	if !errors.Is(err, kind) {
		t.Fatalf("expected error of kind %s, got %v", kind, err)
	}
}
