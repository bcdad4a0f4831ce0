// Copyright 2016 - 2023 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ooxmlcrypt

import (
	"bytes"
	"context"

	"github.com/xuri/ooxmlcrypt/internal/oxcrypto"
)

// VerifyIntegrity implements the Agile dataIntegrity check that
// [MS-OFFCRYPTO] defines and the distilled source parsed but never ran
// (SPEC_FULL §4.I, §9). It derives the HMAC key from the same key
// encryptor salt/spin-count/hash used for the password verifier, using the
// dedicated integrity block keys, decrypts encryptedHmacKey with it,
// recomputes HMAC-H(plaintext) and compares it against the decrypted
// encryptedHmacValue.
//
// VerifyIntegrity takes the already-decrypted plaintext (as produced by a
// prior, successful DecryptXLSX call against the same container and
// password) rather than re-running bulk decryption itself. It is not
// called automatically by DecryptXLSX: some real-world Agile files carry a
// stale or absent integrity block, and the distilled spec frames this
// check as an opt-in cross-check rather than a precondition for
// decryption.
func VerifyIntegrity(containerBytes []byte, password string, plaintext []byte) error {
	return VerifyIntegrityContext(context.Background(), containerBytes, password, plaintext)
}

// VerifyIntegrityContext is VerifyIntegrity with a cancellable context,
// polled across the same attacker-controlled spin-count loop
// DecryptXLSXContext cancels during key derivation.
func VerifyIntegrityContext(ctx context.Context, containerBytes []byte, password string, plaintext []byte) error {
	encryptionInfoBuf, _, err := openStorage(containerBytes)
	if err != nil {
		return err
	}
	scheme, body, err := dispatch(encryptionInfoBuf)
	if err != nil {
		return err
	}
	if scheme != SchemeAgile {
		return newErr(Unsupported, "VerifyIntegrity only applies to agile-encrypted packages", nil)
	}
	return verifyAgileIntegrity(ctx, body, password, plaintext)
}

// verifyAgileIntegrity is the testable core of VerifyIntegrity: it operates
// directly on an already-dispatched Agile EncryptionInfo body, the same
// boundary decryptAgile uses, so tests can exercise it with a hand-built XML
// body instead of a real OLE2 compound file.
func verifyAgileIntegrity(ctx context.Context, body []byte, password string, plaintext []byte) error {
	info, pke, err := parseAgileXML(body)
	if err != nil {
		return err
	}
	passwordUTF16LE, err := utf16LE(password)
	if err != nil {
		return err
	}

	salt, err := oxcrypto.Base64Decode(pke.SaltValueB64)
	if err != nil {
		return newErr(BadEncryptionInfo, "key encryptor saltValue", err)
	}
	hn, err := agileSpinHash(ctx, pke.HashAlgorithm, salt, passwordUTF16LE, pke.SpinCount)
	if err != nil {
		return err
	}
	defer oxcrypto.Zeroize(hn)

	hmacKeyKey, err := agileBlockKey(pke.HashAlgorithm, hn, blockKeyIntegrityHmacKey, pke.KeyBits)
	if err != nil {
		return err
	}
	hmacValueKey, err := agileBlockKey(pke.HashAlgorithm, hn, blockKeyIntegrityHmacValue, pke.KeyBits)
	if err != nil {
		return err
	}

	encHmacKey, err := oxcrypto.Base64Decode(info.DataIntegrity.EncryptedHmacKeyB64)
	if err != nil {
		return newErr(BadEncryptionInfo, "dataIntegrity encryptedHmacKey", err)
	}
	encHmacValue, err := oxcrypto.Base64Decode(info.DataIntegrity.EncryptedHmacValueB64)
	if err != nil {
		return newErr(BadEncryptionInfo, "dataIntegrity encryptedHmacValue", err)
	}

	hmacKey, err := oxcrypto.AESCBCDecrypt(encHmacKey, hmacKeyKey, salt)
	if err != nil {
		return newErr(CryptoError, "decrypting HMAC key", err)
	}
	expectedHmac, err := oxcrypto.AESCBCDecrypt(encHmacValue, hmacValueKey, salt)
	if err != nil {
		return newErr(CryptoError, "decrypting HMAC value", err)
	}

	calculated, err := oxcrypto.HMACByName(pke.HashAlgorithm, hmacKey, plaintext)
	if err != nil {
		return newErr(CryptoError, "computing HMAC over plaintext", err)
	}
	n := len(calculated)
	if n > len(expectedHmac) {
		n = len(expectedHmac)
	}
	if !bytes.Equal(calculated[:n], expectedHmac[:n]) {
		return newErr(BadPassword, "dataIntegrity HMAC mismatch: payload may have been tampered with", nil)
	}
	return nil
}
