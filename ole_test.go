// Copyright 2016 - 2023 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ooxmlcrypt

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEntry and fakeCFB implement cfbEntry/cfbReader so extractStreams can
// be exercised without a real OLE2 compound-file byte buffer.
type fakeEntry struct {
	name string
	size uint64
}

func (e fakeEntry) Name() string { return e.name }
func (e fakeEntry) Size() uint64 { return e.size }

type fakeCFB struct {
	entries []fakeEntry
	bodies  [][]byte
	idx     int
	cur     []byte
	curOff  int
}

func (f *fakeCFB) Next() (cfbEntry, error) {
	if f.idx >= len(f.entries) {
		return nil, io.EOF
	}
	e := f.entries[f.idx]
	f.cur = f.bodies[f.idx]
	f.curOff = 0
	f.idx++
	return e, nil
}

func (f *fakeCFB) Read(p []byte) (int, error) {
	if f.curOff >= len(f.cur) {
		return 0, io.EOF
	}
	n := copy(p, f.cur[f.curOff:])
	f.curOff += n
	return n, nil
}

func TestExtractStreamsHappyPath(t *testing.T) {
	encInfo := []byte{0x01, 0x02, 0x03}
	encPkg := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	doc := &fakeCFB{
		entries: []fakeEntry{
			{name: "SummaryInformation", size: 10},
			{name: streamEncryptionInfo, size: uint64(len(encInfo))},
			{name: streamEncryptedPackage, size: uint64(len(encPkg))},
		},
		bodies: [][]byte{make([]byte, 10), encInfo, encPkg},
	}

	gotInfo, gotPkg, err := extractStreams(doc)
	require.NoError(t, err)
	assert.Equal(t, encInfo, gotInfo)
	assert.Equal(t, encPkg, gotPkg)
}

func TestExtractStreamsMissingEncryptionInfo(t *testing.T) {
	doc := &fakeCFB{
		entries: []fakeEntry{{name: streamEncryptedPackage, size: 4}},
		bodies:  [][]byte{{1, 2, 3, 4}},
	}
	_, _, err := extractStreams(doc)
	assertKind(t, err, MissingStream)
}

func TestExtractStreamsMissingEncryptedPackage(t *testing.T) {
	doc := &fakeCFB{
		entries: []fakeEntry{{name: streamEncryptionInfo, size: 4}},
		bodies:  [][]byte{{1, 2, 3, 4}},
	}
	_, _, err := extractStreams(doc)
	assertKind(t, err, MissingStream)
}

func TestExtractStreamsIgnoresUnrelatedStreams(t *testing.T) {
	doc := &fakeCFB{
		entries: []fakeEntry{
			{name: "Workbook", size: 2},
			{name: streamEncryptionInfo, size: 2},
			{name: streamEncryptedPackage, size: 2},
			{name: "\x05DocumentSummaryInformation", size: 2},
		},
		bodies: [][]byte{{0, 0}, {1, 1}, {2, 2}, {0, 0}},
	}
	info, pkg, err := extractStreams(doc)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 1}, info)
	assert.Equal(t, []byte{2, 2}, pkg)
}

func TestOpenStorageRejectsEmptyInput(t *testing.T) {
	_, _, err := openStorage(nil)
	assertKind(t, err, EmptyInput)
}

func TestOpenStorageRejectsNonCompoundFile(t *testing.T) {
	_, _, err := openStorage([]byte("this is not an OLE2 compound file"))
	assertKind(t, err, NotCompoundFile)
}
