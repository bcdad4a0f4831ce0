// Copyright 2016 - 2023 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ooxmlcrypt

import (
	"encoding/xml"
	"strings"
)

// agileEncryptionInfo is the root element of the Agile EncryptionInfo XML
// body, namespace "http://schemas.microsoft.com/office/2006/encryption".
type agileEncryptionInfo struct {
	XMLName       xml.Name           `xml:"encryption"`
	KeyData       agileKeyData       `xml:"keyData"`
	DataIntegrity agileDataIntegrity `xml:"dataIntegrity"`
	KeyEncryptors agileKeyEncryptors `xml:"keyEncryptors"`
}

type agileKeyData struct {
	SaltSize        int    `xml:"saltSize,attr"`
	BlockSize       int    `xml:"blockSize,attr"`
	KeyBits         int    `xml:"keyBits,attr"`
	HashSize        int    `xml:"hashSize,attr"`
	CipherAlgorithm string `xml:"cipherAlgorithm,attr"`
	CipherChaining  string `xml:"cipherChaining,attr"`
	HashAlgorithm   string `xml:"hashAlgorithm,attr"`
	SaltValueB64    string `xml:"saltValue,attr"`
}

type agileDataIntegrity struct {
	EncryptedHmacKeyB64   string `xml:"encryptedHmacKey,attr"`
	EncryptedHmacValueB64 string `xml:"encryptedHmacValue,attr"`
}

type agileKeyEncryptors struct {
	KeyEncryptor []agileKeyEncryptor `xml:"keyEncryptor"`
}

type agileKeyEncryptor struct {
	XMLName xml.Name `xml:"keyEncryptor"`
	URI     string   `xml:"uri,attr"`
	// Raw captures the encryptedKey child verbatim regardless of its
	// namespace, so a non-password key encryptor (e.g. certificate-based)
	// can be detected and rejected instead of silently decoding as zero
	// values.
	Raw agileAnyElement `xml:",any"`
}

// agileAnyElement captures an arbitrary child element's namespace and
// attributes without assuming the password-key schema applies to it.
type agileAnyElement struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
}

const passwordKeyEncryptorNS = "http://schemas.microsoft.com/office/2006/keyEncryptor/password"

// agilePasswordKeyEncryptor is the typed view of a password-based
// <p:encryptedKey> element once its namespace has been confirmed.
type agilePasswordKeyEncryptor struct {
	agileKeyData
	SpinCount                     int
	EncryptedVerifierHashInputB64 string
	EncryptedVerifierHashValueB64 string
	EncryptedKeyValueB64          string
}

func attrValue(attrs []xml.Attr, local string) (string, bool) {
	for _, a := range attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func attrInt(attrs []xml.Attr, local string) int {
	v, _ := attrValue(attrs, local)
	n := 0
	for _, r := range v {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// parseAgileXML parses the Agile EncryptionInfo XML body into the typed
// descriptor and the single supported password key encryptor. Any
// unexpected shape — malformed XML, a non-password keyEncryptor child, or
// zero password-based encryptedKey elements — is a classified error per
// SPEC_FULL §4.E.
func parseAgileXML(body []byte) (agileEncryptionInfo, agilePasswordKeyEncryptor, error) {
	var info agileEncryptionInfo
	if err := xml.Unmarshal(body, &info); err != nil {
		return agileEncryptionInfo{}, agilePasswordKeyEncryptor{}, newErr(BadEncryptionInfo, "malformed agile EncryptionInfo XML", err)
	}
	if len(info.KeyEncryptors.KeyEncryptor) == 0 {
		return info, agilePasswordKeyEncryptor{}, newErr(NoPasswordKey, "", nil)
	}

	for _, ke := range info.KeyEncryptors.KeyEncryptor {
		if !strings.EqualFold(ke.Raw.XMLName.Space, passwordKeyEncryptorNS) {
			return info, agilePasswordKeyEncryptor{}, newErr(Unsupported, "non-password keyEncryptor: "+ke.Raw.XMLName.Space, nil)
		}
		attrs := ke.Raw.Attrs
		salt, _ := attrValue(attrs, "saltValue")
		hashAlg, _ := attrValue(attrs, "hashAlgorithm")
		pke := agilePasswordKeyEncryptor{
			agileKeyData: agileKeyData{
				SaltSize:        attrInt(attrs, "saltSize"),
				BlockSize:       attrInt(attrs, "blockSize"),
				KeyBits:         attrInt(attrs, "keyBits"),
				HashSize:        attrInt(attrs, "hashSize"),
				CipherAlgorithm: firstAttr(attrs, "cipherAlgorithm"),
				CipherChaining:  firstAttr(attrs, "cipherChaining"),
				HashAlgorithm:   hashAlg,
				SaltValueB64:    salt,
			},
			SpinCount:                     attrInt(attrs, "spinCount"),
			EncryptedVerifierHashInputB64: firstAttr(attrs, "encryptedVerifierHashInput"),
			EncryptedVerifierHashValueB64: firstAttr(attrs, "encryptedVerifierHashValue"),
			EncryptedKeyValueB64:          firstAttr(attrs, "encryptedKeyValue"),
		}
		if !strings.EqualFold(pke.HashAlgorithm, "SHA1") && !strings.EqualFold(pke.HashAlgorithm, "SHA512") {
			return info, agilePasswordKeyEncryptor{}, newErr(Unsupported, "hashAlgorithm: "+pke.HashAlgorithm, nil)
		}
		return info, pke, nil
	}
	return info, agilePasswordKeyEncryptor{}, newErr(NoPasswordKey, "", nil)
}

func firstAttr(attrs []xml.Attr, local string) string {
	v, _ := attrValue(attrs, local)
	return v
}
