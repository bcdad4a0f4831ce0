// Copyright 2016 - 2023 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ooxmlcrypt

import (
	"encoding/binary"

	"github.com/xuri/ooxmlcrypt/internal/oxcrypto"
)

const standardSpinCount = 50000

var (
	standardAlgIDs = map[uint32]bool{
		0x00000000: true, // CALG_AES (implicit, negotiated from key size)
		0x0000660E: true, // CALG_AES_128
		0x0000660F: true, // CALG_AES_192
		0x00006610: true, // CALG_AES_256
	}
	standardAlgHashIDs = map[uint32]bool{
		0x00000000: true,
		0x00008004: true, // CALG_SHA1
	}
	standardProviderTypes = map[uint32]bool{
		0x00000000: true,
		0x00000018: true, // PROV_RSA_AES
	}
	standardCspNames = map[string]bool{
		"Microsoft Enhanced RSA and AES Cryptographic Provider":             true,
		"Microsoft Enhanced RSA and AES Cryptographic Provider (Prototype)": true,
	}
)

// standardHeader is the fixed-layout prefix of the Standard EncryptionInfo
// body, [MS-OFFCRYPTO] 2.3.4.5/2.3.4.6.
type standardHeader struct {
	AlgID        uint32
	AlgIDHash    uint32
	KeyBits      uint32
	ProviderType uint32
	CspName      string
}

// standardVerifier is the EncryptionVerifier structure that follows the
// header, [MS-OFFCRYPTO] 2.3.4.7.
type standardVerifier struct {
	Salt              []byte
	VerifierHashInput []byte
	VerifierHashSize  uint32
	VerifierHashValue []byte
}

// parseStandardBody parses the binary EncryptionInfo body (everything after
// the 8-byte version+flags prefix) into the header and verifier structures,
// and validates every field the spec pins to a fixed enumeration.
func parseStandardBody(body []byte) (standardHeader, standardVerifier, error) {
	if len(body) < 4 {
		return standardHeader{}, standardVerifier{}, newErr(BadEncryptionInfo, "standard body shorter than header-length field", nil)
	}
	headerLength := binary.LittleEndian.Uint32(body[0:4])
	rest := body[4:]
	if uint64(len(rest)) < uint64(headerLength) {
		return standardHeader{}, standardVerifier{}, newErr(BadEncryptionInfo, "standard header length exceeds body", nil)
	}
	block := rest[:headerLength]
	if len(block) < 32 {
		return standardHeader{}, standardVerifier{}, newErr(BadEncryptionInfo, "standard header block shorter than 32 bytes", nil)
	}
	// block[0:4]=skip_flags, block[4:8]=size_extra (both ignored per spec).
	algID := binary.LittleEndian.Uint32(block[8:12])
	algIDHash := binary.LittleEndian.Uint32(block[12:16])
	keyBits := binary.LittleEndian.Uint32(block[16:20])
	providerType := binary.LittleEndian.Uint32(block[20:24])
	reserved2 := binary.LittleEndian.Uint32(block[28:32])
	if reserved2 != 0 {
		return standardHeader{}, standardVerifier{}, newErr(BadEncryptionInfo, "reserved2 field must be zero", nil)
	}
	cspName := decodeUTF16LEZ(block[32:])

	h := standardHeader{AlgID: algID, AlgIDHash: algIDHash, KeyBits: keyBits, ProviderType: providerType, CspName: cspName}
	if !standardAlgIDs[h.AlgID] {
		return h, standardVerifier{}, newErr(InvalidCipher, "unsupported algorithm identifier", nil)
	}
	if !standardAlgHashIDs[h.AlgIDHash] {
		return h, standardVerifier{}, newErr(InvalidHash, "unsupported hash algorithm identifier", nil)
	}
	if !standardProviderTypes[h.ProviderType] {
		return h, standardVerifier{}, newErr(InvalidProviderType, "unsupported provider type", nil)
	}
	if !standardCspNames[h.CspName] {
		return h, standardVerifier{}, newErr(InvalidCsp, h.CspName, nil)
	}

	tail := rest[headerLength:]
	v, err := parseStandardVerifier(tail)
	return h, v, err
}

func parseStandardVerifier(buf []byte) (standardVerifier, error) {
	if len(buf) < 4 {
		return standardVerifier{}, newErr(BadEncryptionInfo, "truncated EncryptionVerifier", nil)
	}
	saltSize := binary.LittleEndian.Uint32(buf[0:4])
	off := 4
	if uint64(len(buf)-off) < uint64(saltSize) {
		return standardVerifier{}, newErr(BadEncryptionInfo, "truncated salt", nil)
	}
	salt := buf[off : off+int(saltSize)]
	off += int(saltSize)
	if len(buf)-off < 16 {
		return standardVerifier{}, newErr(BadEncryptionInfo, "truncated verifier hash input", nil)
	}
	verifierHashInput := buf[off : off+16]
	off += 16
	if len(buf)-off < 4 {
		return standardVerifier{}, newErr(BadEncryptionInfo, "truncated verifier hash size", nil)
	}
	verifierHashSize := binary.LittleEndian.Uint32(buf[off : off+4])
	off += 4
	if uint64(len(buf)-off) < uint64(verifierHashSize) {
		return standardVerifier{}, newErr(BadEncryptionInfo, "truncated verifier hash value", nil)
	}
	verifierHashValue := buf[off : off+int(verifierHashSize)]
	return standardVerifier{
		Salt:              salt,
		VerifierHashInput: verifierHashInput,
		VerifierHashSize:  verifierHashSize,
		VerifierHashValue: verifierHashValue,
	}, nil
}

// decodeUTF16LEZ decodes a null-terminated UTF-16LE string, stopping at the
// first U+0000 code unit or the end of the buffer.
func decodeUTF16LEZ(buf []byte) string {
	runes := make([]rune, 0, len(buf)/2)
	for i := 0; i+1 < len(buf); i += 2 {
		u := uint16(buf[i]) | uint16(buf[i+1])<<8
		if u == 0 {
			break
		}
		runes = append(runes, rune(u))
	}
	return string(runes)
}

// standardDeriveKey runs the 50000-round SHA-1 spin defined by
// [MS-OFFCRYPTO] 2.3.4.7 and returns a key truncated to h.KeyBits/8 bytes.
func standardDeriveKey(h standardHeader, salt []byte, passwordUTF16LE []byte) []byte {
	key := oxcrypto.Sha1(salt, passwordUTF16LE)
	for i := 0; i < standardSpinCount; i++ {
		key = oxcrypto.Sha1(oxcrypto.LE32(i), key)
	}
	hfinal := oxcrypto.Sha1(key, oxcrypto.LE32(0))
	defer oxcrypto.Zeroize(key)

	buf1 := paddedConstant(0x36, hfinal)
	x1 := oxcrypto.Sha1(buf1)
	buf2 := paddedConstant(0x5C, hfinal)
	x2 := oxcrypto.Sha1(buf2)

	derived := append(append([]byte{}, x1...), x2...)
	keyBytes := int(h.KeyBits) / 8
	if keyBytes > len(derived) {
		keyBytes = len(derived)
	}
	return derived[:keyBytes]
}

// paddedConstant builds a 64-byte buffer of the repeated constant c with
// its first len(hfinal) bytes XORed against hfinal, per the X1/X2 step of
// the Standard key-derivation formula.
func paddedConstant(c byte, hfinal []byte) []byte {
	buf := make([]byte, 64)
	for i := range buf {
		buf[i] = c
	}
	head := oxcrypto.XORBytes(hfinal, buf[:len(hfinal)])
	copy(buf, head)
	return buf
}

// standardVerifyPassword implements the Standard verifier check (decrypt
// encrypted_verifier and encrypted_verifier_hash with the derived key and
// compare SHA1(verifier) against the decrypted hash), an operation the
// distilled source parsed but never ran. Implemented here per SPEC_FULL
// §4.D so a wrong Standard password fails fast with BadPassword instead of
// silently yielding garbage plaintext.
func standardVerifyPassword(key []byte, v standardVerifier) error {
	verifier, err := oxcrypto.AESECBDecrypt(v.VerifierHashInput, key)
	if err != nil {
		return newErr(CryptoError, "decrypting verifier block", err)
	}
	decryptedHash, err := oxcrypto.AESECBDecrypt(v.VerifierHashValue, key)
	if err != nil {
		return newErr(CryptoError, "decrypting verifier hash block", err)
	}
	calculated := oxcrypto.Sha1(verifier)
	n := len(calculated)
	if n > len(decryptedHash) {
		n = len(decryptedHash)
	}
	for i := 0; i < n; i++ {
		if calculated[i] != decryptedHash[i] {
			return newErr(BadPassword, "", nil)
		}
	}
	return nil
}

// decryptStandard implements component D end to end: parse, derive key,
// verify the password, AES-ECB decrypt the bulk ciphertext and truncate to
// the declared plaintext size. It operates directly on the two already
// extracted streams, matching the teacher's standardDecrypt boundary.
func decryptStandard(encryptionInfoBody, encryptedPackage []byte, password string) ([]byte, error) {
	h, v, err := parseStandardBody(encryptionInfoBody)
	if err != nil {
		return nil, err
	}
	passwordUTF16LE, err := utf16LE(password)
	if err != nil {
		return nil, err
	}
	key := standardDeriveKey(h, v.Salt, passwordUTF16LE)
	defer oxcrypto.Zeroize(key)

	if err := standardVerifyPassword(key, v); err != nil {
		return nil, err
	}

	if len(encryptedPackage) < 8 {
		return nil, newErr(BadEncryptionInfo, "EncryptedPackage shorter than 8-byte size prefix", nil)
	}
	plaintextTotalSize := binary.LittleEndian.Uint64(encryptedPackage[0:8])
	ciphertext := encryptedPackage[8:]

	plaintext, err := oxcrypto.AESECBDecrypt(ciphertext, key)
	if err != nil {
		return nil, newErr(CryptoError, "bulk AES-ECB decrypt", err)
	}
	if plaintextTotalSize > uint64(len(plaintext)) {
		return nil, newErr(TruncatedCiphertext, "", nil)
	}
	return plaintext[:plaintextTotalSize], nil
}
