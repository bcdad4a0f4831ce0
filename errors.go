// Copyright 2016 - 2023 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ooxmlcrypt

import "fmt"

// Kind classifies a decryption failure so a caller can decide whether it is
// user-recoverable (BadPassword), a corrupt/unsupported input (the format
// kinds), or an internal primitive failure (CryptoError).
type Kind int

// The error taxonomy a caller of DecryptXLSX can branch on with errors.Is
// against the Kind-typed sentinels below.
const (
	_ Kind = iota
	EmptyInput
	NotCompoundFile
	MissingStream
	BadHeader
	UnsupportedVersion
	UnsupportedExtensibleEncryption
	NotOoxml
	InvalidCipher
	InvalidHash
	InvalidProviderType
	InvalidCsp
	BadEncryptionInfo
	Unsupported
	NoPasswordKey
	BadPassword
	CryptoError
	TruncatedCiphertext
)

var kindNames = map[Kind]string{
	EmptyInput:                      "empty input",
	NotCompoundFile:                 "not a compound file",
	MissingStream:                   "missing stream",
	BadHeader:                       "bad encryption header",
	UnsupportedVersion:              "unsupported encryption version",
	UnsupportedExtensibleEncryption: "unsupported extensible encryption",
	NotOoxml:                        "not an AES-encrypted OOXML package",
	InvalidCipher:                   "invalid cipher algorithm",
	InvalidHash:                     "invalid hash algorithm",
	InvalidProviderType:             "invalid crypto provider type",
	InvalidCsp:                      "invalid cryptographic service provider name",
	BadEncryptionInfo:               "malformed EncryptionInfo",
	Unsupported:                     "unsupported encryption feature",
	NoPasswordKey:                   "no password-based key encryptor",
	BadPassword:                     "incorrect password",
	CryptoError:                     "cryptographic primitive failure",
	TruncatedCiphertext:             "truncated ciphertext",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown error"
}

// Error lets a bare Kind be used as an errors.Is target, e.g.
// errors.Is(err, ooxmlcrypt.BadPassword).
func (k Kind) Error() string { return k.String() }

// Error is the concrete error type every exported operation in this
// package returns. It carries a Kind for programmatic dispatch (errors.Is
// against the Kind constants works via Error.Is) and wraps an optional
// underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg == "" {
		if e.Err != nil {
			return fmt.Sprintf("ooxmlcrypt: %s: %v", e.Kind, e.Err)
		}
		return fmt.Sprintf("ooxmlcrypt: %s", e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("ooxmlcrypt: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("ooxmlcrypt: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a Kind equal to e.Kind, so callers can write
// errors.Is(err, ooxmlcrypt.BadPassword) without a type assertion.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

func newErr(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}
