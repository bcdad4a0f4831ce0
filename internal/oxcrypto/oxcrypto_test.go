// Copyright 2016 - 2023 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package oxcrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashByNameKnownAlgorithms(t *testing.T) {
	for _, name := range []string{"sha1", "SHA1", "sha512", "SHA512", "sha256", "sha384", "md4", "md5", "ripemd-160"} {
		h, err := HashByName(name, []byte("hello"))
		require.NoError(t, err, name)
		assert.NotEmpty(t, h, name)
	}
}

func TestHashByNameUnsupported(t *testing.T) {
	_, err := HashByName("sha3-256", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedHash)
}

func TestAESECBDecryptRoundTrip(t *testing.T) {
	key := make([]byte, 16)
	_, _ = rand.Read(key)
	plaintext := make([]byte, 32)
	_, _ = rand.Read(plaintext)

	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	ciphertext := make([]byte, len(plaintext))
	for off := 0; off < len(plaintext); off += 16 {
		block.Encrypt(ciphertext[off:off+16], plaintext[off:off+16])
	}

	got, err := AESECBDecrypt(ciphertext, key)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestAESCBCDecryptRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	_, _ = rand.Read(key)
	iv := make([]byte, 16)
	_, _ = rand.Read(iv)
	plaintext := make([]byte, 64)
	_, _ = rand.Read(plaintext)

	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	ciphertext := make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, plaintext)

	got, err := AESCBCDecrypt(ciphertext, key, iv)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestAESCBCDecryptRejectsUnalignedCiphertext(t *testing.T) {
	key := make([]byte, 16)
	iv := make([]byte, 16)
	_, err := AESCBCDecrypt(make([]byte, 17), key, iv)
	assert.Error(t, err)
}

func TestXORBytes(t *testing.T) {
	a := []byte{0x0F, 0xFF}
	b := []byte{0xF0, 0x00}
	assert.Equal(t, []byte{0xFF, 0xFF}, XORBytes(a, b))
}

func TestPadTrunc(t *testing.T) {
	assert.Equal(t, []byte{1, 2}, PadTrunc([]byte{1, 2, 3}, 2))
	assert.Equal(t, []byte{1, 2, 0, 0}, PadTrunc([]byte{1, 2}, 4))
	assert.Equal(t, []byte{1, 2}, PadTrunc([]byte{1, 2}, 2))
}

func TestLE32(t *testing.T) {
	assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x00}, LE32(1))
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, LE32(0xFFFFFFFF))
}

func TestZeroize(t *testing.T) {
	b := []byte{1, 2, 3}
	Zeroize(b)
	assert.Equal(t, []byte{0, 0, 0}, b)
}

func TestBase64Decode(t *testing.T) {
	got, err := Base64Decode("aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestHMACByName(t *testing.T) {
	mac, err := HMACByName("sha1", []byte("key"), []byte("data"))
	require.NoError(t, err)
	assert.Len(t, mac, 20)

	mac512, err := HMACByName("sha512", []byte("key"), []byte("data"))
	require.NoError(t, err)
	assert.Len(t, mac512, 64)

	_, err = HMACByName("md5", []byte("key"), []byte("data"))
	assert.ErrorIs(t, err, ErrUnsupportedHash)
}
