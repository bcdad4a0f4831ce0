// Copyright 2016 - 2023 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package oxcrypto provides the cryptographic primitives consumed by the
// MS-OFFCRYPTO Standard and Agile decryption schemes: hashing, AES-ECB/CBC,
// HMAC and Base64, all behind pure functions with no package-level state.
package oxcrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/md4"
	"golang.org/x/crypto/ripemd160"
)

// ErrUnsupportedHash is returned by HashByName and HMACByName for any hash
// algorithm name the password-decryption path does not recognize.
var ErrUnsupportedHash = errors.New("oxcrypto: unsupported hash algorithm")

// newHash returns a fresh hash.Hash for the given MS-OFFCRYPTO hash
// algorithm name. The table mirrors the full set the Agile XML schema can
// legally name. The key encryptor's hashAlgorithm is restricted to "SHA1"
// and "SHA512" before password key derivation; the keyData hashAlgorithm
// used for segment IVs is looked up here without that restriction.
func newHash(name string) (hash.Hash, error) {
	switch strings.ToLower(name) {
	case "md4":
		return md4.New(), nil
	case "md5":
		return md5.New(), nil
	case "ripemd-160", "ripemd160":
		return ripemd160.New(), nil
	case "sha1":
		return sha1.New(), nil
	case "sha256":
		return sha256.New(), nil
	case "sha384":
		return sha512.New384(), nil
	case "sha512":
		return sha512.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedHash, name)
	}
}

// HashByName hashes the concatenation of buffers with the named algorithm.
func HashByName(name string, buffers ...[]byte) ([]byte, error) {
	h, err := newHash(name)
	if err != nil {
		return nil, err
	}
	for _, buf := range buffers {
		h.Write(buf)
	}
	return h.Sum(nil), nil
}

// Sha1 hashes the concatenation of buffers with SHA-1.
func Sha1(buffers ...[]byte) []byte {
	h := sha1.New()
	for _, buf := range buffers {
		h.Write(buf)
	}
	return h.Sum(nil)
}

// Sha512 hashes the concatenation of buffers with SHA-512.
func Sha512(buffers ...[]byte) []byte {
	h := sha512.New()
	for _, buf := range buffers {
		h.Write(buf)
	}
	return h.Sum(nil)
}

// HMACByName computes HMAC(name, key, data) for the named hash algorithm.
func HMACByName(name string, key, data []byte) ([]byte, error) {
	switch strings.ToLower(name) {
	case "sha1":
		mac := hmac.New(sha1.New, key)
		mac.Write(data)
		return mac.Sum(nil), nil
	case "sha512":
		mac := hmac.New(sha512.New, key)
		mac.Write(data)
		return mac.Sum(nil), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedHash, name)
	}
}

// AESECBDecrypt decrypts ciphertext block-by-block in ECB mode. The key
// length (16/24/32 bytes) selects AES-128/192/256. No PKCS padding is
// stripped; callers truncate to the declared logical plaintext size.
func AESECBDecrypt(ciphertext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("oxcrypto: aes-ecb: %w", err)
	}
	bs := block.BlockSize()
	if len(ciphertext)%bs != 0 {
		return nil, fmt.Errorf("oxcrypto: aes-ecb: ciphertext length %d is not a multiple of block size %d", len(ciphertext), bs)
	}
	plaintext := make([]byte, len(ciphertext))
	for off := 0; off < len(ciphertext); off += bs {
		block.Decrypt(plaintext[off:off+bs], ciphertext[off:off+bs])
	}
	return plaintext, nil
}

// AESCBCDecrypt decrypts ciphertext in CBC mode with the given key and IV.
// ciphertext length must be a multiple of the AES block size (16).
func AESCBCDecrypt(ciphertext, key, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("oxcrypto: aes-cbc: %w", err)
	}
	bs := block.BlockSize()
	if len(ciphertext)%bs != 0 {
		return nil, fmt.Errorf("oxcrypto: aes-cbc: ciphertext length %d is not a multiple of block size %d", len(ciphertext), bs)
	}
	if len(ciphertext) == 0 {
		return []byte{}, nil
	}
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)
	return plaintext, nil
}

// Base64Decode decodes standard (non-URL) Base64 text, as used by every
// attribute value in the Agile EncryptionInfo XML body.
func Base64Decode(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// LE32 encodes v as a 4-byte little-endian buffer, the shape every
// MS-OFFCRYPTO spin-count and segment counter takes part in hashing.
func LE32(v int) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(v))
	return buf
}

// XORBytes XORs a against the first len(a) bytes of b, returning a new
// slice. b must be at least as long as a.
func XORBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// PadTrunc returns key resized to n bytes: truncated if longer, padded
// with zero bytes if shorter. MS-OFFCRYPTO pads derived key/IV material
// with zero bytes rather than repeating the hash, per [MS-OFFCRYPTO]
// 2.3.4.11.
func PadTrunc(key []byte, n int) []byte {
	if len(key) == n {
		return key
	}
	out := make([]byte, n)
	copy(out, key)
	return out
}

// Zeroize overwrites b with zero bytes in place. Callers use it to scrub
// derived keys and intermediate hash state once no longer needed.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
