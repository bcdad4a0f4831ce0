// Copyright 2016 - 2023 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ooxmlcrypt

import (
	"context"

	"github.com/xuri/ooxmlcrypt/internal/oxcrypto"
)

// decryptAgile implements components E, F and G end to end: parse the XML
// descriptor, derive and verify the password-based key, unwrap the
// intermediate key, and segment-decrypt the bulk ciphertext.
func decryptAgile(ctx context.Context, encryptionInfoBody, encryptedPackage []byte, password string) ([]byte, agileEncryptionInfo, error) {
	info, pke, err := parseAgileXML(encryptionInfoBody)
	if err != nil {
		return nil, info, err
	}
	passwordUTF16LE, err := utf16LE(password)
	if err != nil {
		return nil, info, err
	}
	key, err := agileVerifyAndDeriveKey(ctx, pke, passwordUTF16LE)
	if err != nil {
		return nil, info, err
	}
	defer oxcrypto.Zeroize(key)

	if len(encryptedPackage) < 8 {
		return nil, info, newErr(BadEncryptionInfo, "EncryptedPackage shorter than 8-byte size prefix", nil)
	}
	plaintextTotalSize := le64(encryptedPackage[0:8])
	ciphertext := encryptedPackage[8:]

	salt, err := oxcrypto.Base64Decode(info.KeyData.SaltValueB64)
	if err != nil {
		return nil, info, newErr(BadEncryptionInfo, "keyData saltValue", err)
	}

	plaintext, err := decryptAgileSegments(ctx, info.KeyData.HashAlgorithm, salt, key, ciphertext, plaintextTotalSize)
	if err != nil {
		return nil, info, err
	}
	return plaintext, info, nil
}
