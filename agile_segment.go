// Copyright 2016 - 2023 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ooxmlcrypt

import (
	"context"
	"encoding/binary"
	"runtime"
	"sync"

	"github.com/xuri/ooxmlcrypt/internal/oxcrypto"
)

// segmentSize is the fixed OLE segment length the Agile scheme chunks bulk
// ciphertext into, each with its own derived IV, [MS-OFFCRYPTO] 2.3.4.15.
const segmentSize = 4096

// segmentIV derives the per-segment initialization vector: truncate(
// H(salt‖LE32(n)), 16).
func segmentIV(hashAlg string, salt []byte, n int) ([]byte, error) {
	h, err := oxcrypto.HashByName(hashAlg, salt, oxcrypto.LE32(n))
	if err != nil {
		return nil, newErr(CryptoError, "segment IV hash", err)
	}
	return oxcrypto.PadTrunc(h, 16), nil
}

// decryptAgileSegments implements component G: splits ciphertext into
// segmentSize chunks, derives each segment's IV from salt and the segment
// index, AES-CBC decrypts it, and reassembles the output strictly in
// segment order regardless of how many segments ran concurrently.
//
// ctx is polled between segments so a caller can cancel a large package
// decrypt; a cancelled context surfaces as ctx.Err() wrapped in a
// CryptoError.
func decryptAgileSegments(ctx context.Context, hashAlg string, salt, key, ciphertext []byte, plaintextTotalSize uint64) ([]byte, error) {
	if len(ciphertext)%16 != 0 {
		return nil, newErr(TruncatedCiphertext, "agile bulk ciphertext is not a multiple of the AES block size", nil)
	}
	numSegments := (len(ciphertext) + segmentSize - 1) / segmentSize
	if len(ciphertext) == 0 {
		numSegments = 0
	}

	plaintexts := make([][]byte, numSegments)
	errs := make([]error, numSegments)

	workers := runtime.GOMAXPROCS(0)
	if workers > numSegments {
		workers = numSegments
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range jobs {
				start := n * segmentSize
				end := start + segmentSize
				if end > len(ciphertext) {
					end = len(ciphertext)
				}
				iv, err := segmentIV(hashAlg, salt, n)
				if err != nil {
					errs[n] = err
					continue
				}
				pt, err := oxcrypto.AESCBCDecrypt(ciphertext[start:end], key, iv)
				if err != nil {
					errs[n] = newErr(CryptoError, "segment decrypt", err)
					continue
				}
				plaintexts[n] = pt
			}
		}()
	}

feed:
	for n := 0; n < numSegments; n++ {
		select {
		case jobs <- n:
		case <-ctx.Done():
			for m := n; m < numSegments; m++ {
				errs[m] = newErr(CryptoError, "decryption cancelled", ctx.Err())
			}
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	out := make([]byte, 0, len(ciphertext))
	for _, pt := range plaintexts {
		out = append(out, pt...)
	}
	if plaintextTotalSize > uint64(len(out)) {
		return nil, newErr(TruncatedCiphertext, "", nil)
	}
	return out[:plaintextTotalSize], nil
}

// le64 reads a little-endian 64-bit unsigned integer, the shape of the
// plaintext_total_size prefix on EncryptedPackage for both schemes.
func le64(buf []byte) uint64 {
	return binary.LittleEndian.Uint64(buf)
}
