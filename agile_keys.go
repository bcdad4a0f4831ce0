// Copyright 2016 - 2023 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ooxmlcrypt

import (
	"context"

	"github.com/xuri/ooxmlcrypt/internal/oxcrypto"
)

// spinCancelCheckInterval is how often agileSpinHash polls ctx: often enough
// that a cancelled context interrupts an attacker-inflated spinCount
// promptly, rarely enough that the check doesn't dominate the loop itself.
const spinCancelCheckInterval = 1024

// Block keys mixed into the final hash to derive a purpose-specific subkey,
// [MS-OFFCRYPTO] 2.3.4.11.
var (
	blockKeyVerifierInput      = []byte{0xFE, 0xA7, 0xD2, 0x76, 0x3B, 0x4B, 0x9E, 0x79}
	blockKeyVerifierHash       = []byte{0xD7, 0xAA, 0x0F, 0x6D, 0x30, 0x61, 0x34, 0x4E}
	blockKeyKeyValue           = []byte{0x14, 0x6E, 0x0B, 0xE7, 0xAB, 0xAC, 0xD0, 0xD6}
	blockKeyIntegrityHmacKey   = []byte{0x5F, 0xB2, 0xAD, 0x01, 0x0C, 0xB9, 0xE1, 0xF6}
	blockKeyIntegrityHmacValue = []byte{0xA0, 0x67, 0x7F, 0x02, 0xB2, 0x2C, 0x84, 0x33}
)

// agileSpinHash runs the spin-count iterated hash: H0 = H(salt‖password),
// then spinCount rounds of H_{i+1} = H(LE32(i)‖H_i).
//
// spinCount is read straight off the container's XML and can be inflated by
// a malicious or corrupt file, so ctx is polled every
// spinCancelCheckInterval iterations, the same cancellation contract
// decryptAgileSegments gives the segment loop.
func agileSpinHash(ctx context.Context, hashAlg string, salt, passwordUTF16LE []byte, spinCount int) ([]byte, error) {
	h, err := oxcrypto.HashByName(hashAlg, salt, passwordUTF16LE)
	if err != nil {
		return nil, newErr(CryptoError, "initial hash", err)
	}
	for i := 0; i < spinCount; i++ {
		if i%spinCancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, newErr(CryptoError, "spin hash cancelled", err)
			}
		}
		h, err = oxcrypto.HashByName(hashAlg, oxcrypto.LE32(i), h)
		if err != nil {
			return nil, newErr(CryptoError, "spin hash", err)
		}
	}
	return h, nil
}

// agileBlockKey derives a purpose-specific subkey from the spun hash Hn and
// an 8-byte block-key constant, truncated/padded to keyBits/8 bytes.
func agileBlockKey(hashAlg string, hn, blockKey []byte, keyBits int) ([]byte, error) {
	h, err := oxcrypto.HashByName(hashAlg, hn, blockKey)
	if err != nil {
		return nil, newErr(CryptoError, "block key hash", err)
	}
	return oxcrypto.PadTrunc(h, keyBits/8), nil
}

// agileVerifyAndDeriveKey runs component F end to end: the spin-count
// iterated hash, the three block-key derivations, the verifier comparison,
// and the intermediate-key unwrap. Returns the unwrapped bulk-decryption
// key. A verifier mismatch is reported as BadPassword before the key is
// ever unwrapped. ctx is forwarded to the spin-count loop, the other
// runtime-dominating step alongside segment decryption.
func agileVerifyAndDeriveKey(ctx context.Context, pke agilePasswordKeyEncryptor, passwordUTF16LE []byte) ([]byte, error) {
	salt, err := oxcrypto.Base64Decode(pke.SaltValueB64)
	if err != nil {
		return nil, newErr(BadEncryptionInfo, "key encryptor saltValue", err)
	}
	encVerifierInput, err := oxcrypto.Base64Decode(pke.EncryptedVerifierHashInputB64)
	if err != nil {
		return nil, newErr(BadEncryptionInfo, "encryptedVerifierHashInput", err)
	}
	encVerifierValue, err := oxcrypto.Base64Decode(pke.EncryptedVerifierHashValueB64)
	if err != nil {
		return nil, newErr(BadEncryptionInfo, "encryptedVerifierHashValue", err)
	}
	encKeyValue, err := oxcrypto.Base64Decode(pke.EncryptedKeyValueB64)
	if err != nil {
		return nil, newErr(BadEncryptionInfo, "encryptedKeyValue", err)
	}

	hn, err := agileSpinHash(ctx, pke.HashAlgorithm, salt, passwordUTF16LE, pke.SpinCount)
	if err != nil {
		return nil, err
	}
	defer oxcrypto.Zeroize(hn)

	verifierInputKey, err := agileBlockKey(pke.HashAlgorithm, hn, blockKeyVerifierInput, pke.KeyBits)
	if err != nil {
		return nil, err
	}
	verifierHashKey, err := agileBlockKey(pke.HashAlgorithm, hn, blockKeyVerifierHash, pke.KeyBits)
	if err != nil {
		return nil, err
	}
	keyValueKey, err := agileBlockKey(pke.HashAlgorithm, hn, blockKeyKeyValue, pke.KeyBits)
	if err != nil {
		return nil, err
	}
	defer oxcrypto.Zeroize(verifierInputKey)
	defer oxcrypto.Zeroize(verifierHashKey)
	defer oxcrypto.Zeroize(keyValueKey)

	hashInput, err := oxcrypto.AESCBCDecrypt(encVerifierInput, verifierInputKey, salt)
	if err != nil {
		return nil, newErr(CryptoError, "decrypting verifier hash input", err)
	}
	calculated, err := oxcrypto.HashByName(pke.HashAlgorithm, hashInput)
	if err != nil {
		return nil, newErr(CryptoError, "hashing verifier hash input", err)
	}
	expected, err := oxcrypto.AESCBCDecrypt(encVerifierValue, verifierHashKey, salt)
	if err != nil {
		return nil, newErr(CryptoError, "decrypting verifier hash value", err)
	}
	if len(expected) < len(calculated) {
		return nil, newErr(BadPassword, "", nil)
	}
	for i := range calculated {
		if calculated[i] != expected[i] {
			return nil, newErr(BadPassword, "", nil)
		}
	}

	key, err := oxcrypto.AESCBCDecrypt(encKeyValue, keyValueKey, salt)
	if err != nil {
		return nil, newErr(CryptoError, "unwrapping intermediate key", err)
	}
	return oxcrypto.PadTrunc(key, pke.KeyBits/8), nil
}
