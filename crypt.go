// Copyright 2016 - 2023 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package ooxmlcrypt decrypts password-protected OOXML (spreadsheet)
// containers per [MS-OFFCRYPTO]: it opens the OLE2 Compound File, reads the
// EncryptionInfo and EncryptedPackage streams, dispatches to the Standard
// or Agile scheme, and returns the plaintext ZIP/OOXML bytes. It does not
// parse the resulting ZIP — that is the caller's job — and it does not
// implement encryption.
package ooxmlcrypt

import "context"

// DecryptXLSX decrypts an encrypted OOXML container with the given
// password and returns the plaintext ZIP bytes. It classifies every
// failure per the Kind taxonomy in errors.go; the only user-recoverable
// kind is BadPassword.
func DecryptXLSX(containerBytes []byte, password string) ([]byte, error) {
	return DecryptXLSXContext(context.Background(), containerBytes, password)
}

// DecryptXLSXContext is DecryptXLSX with a cancellable context. Cancellation
// is polled during the Agile spin-count loop and between Agile segments;
// Standard decryption (its spin-count loop and the bulk AES-ECB call) does
// not poll ctx.
func DecryptXLSXContext(ctx context.Context, containerBytes []byte, password string) ([]byte, error) {
	if len(containerBytes) == 0 {
		return nil, newErr(EmptyInput, "", nil)
	}
	encryptionInfoBuf, encryptedPackageBuf, err := openStorage(containerBytes)
	if err != nil {
		return nil, err
	}
	scheme, body, err := dispatch(encryptionInfoBuf)
	if err != nil {
		return nil, err
	}
	switch scheme {
	case SchemeStandard:
		return decryptStandard(body, encryptedPackageBuf, password)
	case SchemeAgile:
		plaintext, _, err := decryptAgile(ctx, body, encryptedPackageBuf, password)
		return plaintext, err
	default:
		return nil, newErr(UnsupportedVersion, "", nil)
	}
}
