// Copyright 2016 - 2023 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ooxmlcrypt

// Info describes the encryption metadata of a container without requiring
// (or checking) a password — the fields a UI would show a user before
// prompting them to type one in.
type Info struct {
	Scheme          Scheme
	CipherAlgorithm string
	CipherChaining  string
	HashAlgorithm   string
	KeyBits         int
}

// Inspect opens an encrypted OOXML container and reports which scheme
// protects it and its cipher/hash/key-size parameters, without deriving a
// key or decrypting anything.
func Inspect(containerBytes []byte) (Info, error) {
	if len(containerBytes) == 0 {
		return Info{}, newErr(EmptyInput, "", nil)
	}
	encryptionInfoBuf, _, err := openStorage(containerBytes)
	if err != nil {
		return Info{}, err
	}
	scheme, body, err := dispatch(encryptionInfoBuf)
	if err != nil {
		return Info{}, err
	}
	switch scheme {
	case SchemeStandard:
		h, _, err := parseStandardBody(body)
		if err != nil {
			return Info{}, err
		}
		cipher := "AES"
		if !standardAlgIDs[h.AlgID] {
			cipher = "unknown"
		}
		return Info{
			Scheme:          SchemeStandard,
			CipherAlgorithm: cipher,
			CipherChaining:  "ECB",
			HashAlgorithm:   "SHA1",
			KeyBits:         int(h.KeyBits),
		}, nil
	case SchemeAgile:
		info, pke, err := parseAgileXML(body)
		if err != nil {
			// Unsupported hash / non-password key encryptor still lets us
			// report the cipher the keyData block declares.
			if e, ok := err.(*Error); ok && (e.Kind == Unsupported || e.Kind == NoPasswordKey) {
				return Info{
					Scheme:          SchemeAgile,
					CipherAlgorithm: info.KeyData.CipherAlgorithm,
					CipherChaining:  info.KeyData.CipherChaining,
					HashAlgorithm:   info.KeyData.HashAlgorithm,
					KeyBits:         info.KeyData.KeyBits,
				}, err
			}
			return Info{}, err
		}
		return Info{
			Scheme:          SchemeAgile,
			CipherAlgorithm: pke.CipherAlgorithm,
			CipherChaining:  pke.CipherChaining,
			HashAlgorithm:   pke.HashAlgorithm,
			KeyBits:         pke.KeyBits,
		}, nil
	default:
		return Info{}, newErr(UnsupportedVersion, "", nil)
	}
}
