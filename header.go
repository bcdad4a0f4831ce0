// Copyright 2016 - 2023 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ooxmlcrypt

import (
	"encoding/binary"
	"strconv"
)

// Scheme identifies which of the two MS-OFFCRYPTO password schemes an
// EncryptionInfo stream declares.
type Scheme int

const (
	// SchemeStandard is the binary-header, AES-ECB, SHA-1 scheme.
	SchemeStandard Scheme = iota
	// SchemeAgile is the XML-header, AES-CBC, configurable-hash scheme.
	SchemeAgile
)

func (s Scheme) String() string {
	if s == SchemeAgile {
		return "agile"
	}
	return "standard"
}

// Standard encryption header flag bits, [MS-OFFCRYPTO] 2.3.2.
const (
	flagReserved1      = 1 << 0
	flagReserved2      = 1 << 1
	flagCryptoAPI      = 1 << 2
	flagDocProps       = 1 << 3
	flagExternal       = 1 << 4
	flagAES            = 1 << 5
	agileExpectedFlags = 0x40
)

// header is the 8-byte version+flags prefix shared by both schemes.
type header struct {
	VersionMajor uint16
	VersionMinor uint16
	Flags        uint32
}

func parseHeader(buf []byte) (header, error) {
	if len(buf) < 8 {
		return header{}, newErr(BadHeader, "EncryptionInfo shorter than 8 bytes", nil)
	}
	return header{
		VersionMajor: binary.LittleEndian.Uint16(buf[0:2]),
		VersionMinor: binary.LittleEndian.Uint16(buf[2:4]),
		Flags:        binary.LittleEndian.Uint32(buf[4:8]),
	}, nil
}

// dispatch reads the 8-byte header, validates the per-scheme flags, and
// returns the detected scheme along with the body bytes following the
// prefix (component C of the decryption pipeline).
func dispatch(encryptionInfoBuf []byte) (Scheme, []byte, error) {
	h, err := parseHeader(encryptionInfoBuf)
	if err != nil {
		return 0, nil, err
	}
	body := encryptionInfoBuf[8:]

	switch {
	case h.VersionMajor == 4 && h.VersionMinor == 4:
		if h.Flags != agileExpectedFlags {
			return 0, nil, newErr(BadHeader, "agile header flags must equal 0x40", nil)
		}
		return SchemeAgile, body, nil

	case h.VersionMinor == 2 && (h.VersionMajor == 2 || h.VersionMajor == 3 || h.VersionMajor == 4):
		if err := validateStandardFlags(h.Flags); err != nil {
			return 0, nil, err
		}
		return SchemeStandard, body, nil

	default:
		return 0, nil, newErr(UnsupportedVersion, versionString(h), nil)
	}
}

func validateStandardFlags(flags uint32) error {
	if flags&(flagReserved1|flagReserved2) != 0 {
		return newErr(BadHeader, "reserved flag bits 0-1 must be zero", nil)
	}
	if flags&flagCryptoAPI == 0 || flags&flagExternal != 0 {
		return newErr(UnsupportedExtensibleEncryption, "fCryptoAPI must be set and fExternal must be clear", nil)
	}
	if flags&flagAES == 0 {
		return newErr(NotOoxml, "fAES must be set", nil)
	}
	return nil
}

func versionString(h header) string {
	return "version " + strconv.Itoa(int(h.VersionMajor)) + "." + strconv.Itoa(int(h.VersionMinor))
}
