// Copyright 2016 - 2023 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ooxmlcrypt

import (
	"bytes"
	"io"

	"github.com/richardlehane/mscfb"
)

// cfbEntry and cfbReader narrow mscfb.Reader/mscfb.File down to exactly the
// surface extractStreams needs, so the extraction logic can be unit tested
// against a fake compound-file walker without hand-assembling a real OLE2
// CFB byte buffer.
type cfbEntry interface {
	Name() string
	Size() uint64
}

type cfbReader interface {
	Next() (cfbEntry, error)
	Read(p []byte) (int, error)
}

// mscfbEntry adapts *mscfb.File to cfbEntry.
type mscfbEntry struct{ f *mscfb.File }

func (e mscfbEntry) Name() string { return e.f.Name }
func (e mscfbEntry) Size() uint64 { return uint64(e.f.Size) }

// mscfbReader adapts *mscfb.Reader to cfbReader.
type mscfbReader struct{ r *mscfb.Reader }

func (w mscfbReader) Next() (cfbEntry, error) {
	f, err := w.r.Next()
	if err != nil {
		return nil, err
	}
	return mscfbEntry{f}, nil
}

func (w mscfbReader) Read(p []byte) (int, error) { return w.r.Read(p) }

const (
	streamEncryptionInfo   = "EncryptionInfo"
	streamEncryptedPackage = "EncryptedPackage"
)

// openStorage opens raw as an OLE2 Compound File and extracts the
// EncryptionInfo and EncryptedPackage root streams. Absence of the OLE
// signature (or any structural parse failure) is classified NotCompoundFile;
// either stream missing from the directory is MissingStream.
func openStorage(raw []byte) (encryptionInfo, encryptedPackage []byte, err error) {
	if len(raw) == 0 {
		return nil, nil, newErr(EmptyInput, "container is empty", nil)
	}
	doc, err := mscfb.New(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, newErr(NotCompoundFile, "not an OLE2 compound file", err)
	}
	return extractStreams(mscfbReader{doc})
}

// extractStreams walks a compound-file directory once, pulling out the two
// named root streams this package needs. It never needs seeks, partial
// reads, or writes, matching the narrow contract the spec places on the
// OLE2 container reader.
func extractStreams(doc cfbReader) (encryptionInfo, encryptedPackage []byte, err error) {
	for {
		entry, nerr := doc.Next()
		if nerr == io.EOF {
			break
		}
		if nerr != nil {
			return nil, nil, newErr(NotCompoundFile, "error walking compound file directory", nerr)
		}
		switch entry.Name() {
		case streamEncryptionInfo:
			buf := make([]byte, entry.Size())
			if _, rerr := io.ReadFull(readerFunc(doc.Read), buf); rerr != nil && rerr != io.EOF {
				return nil, nil, newErr(NotCompoundFile, "error reading EncryptionInfo stream", rerr)
			}
			encryptionInfo = buf
		case streamEncryptedPackage:
			buf := make([]byte, entry.Size())
			if _, rerr := io.ReadFull(readerFunc(doc.Read), buf); rerr != nil && rerr != io.EOF {
				return nil, nil, newErr(NotCompoundFile, "error reading EncryptedPackage stream", rerr)
			}
			encryptedPackage = buf
		}
	}
	if encryptionInfo == nil {
		return nil, nil, newErr(MissingStream, streamEncryptionInfo, nil)
	}
	if encryptedPackage == nil {
		return nil, nil, newErr(MissingStream, streamEncryptedPackage, nil)
	}
	return encryptionInfo, encryptedPackage, nil
}

// readerFunc adapts a bare Read method value to io.Reader.
type readerFunc func(p []byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }
