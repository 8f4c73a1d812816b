/*
 * This Source Code Form is subject to the terms of the Mozilla Public License, v. 2.0.
 * If a copy of the MPL was not distributed with this file, You can obtain one at
 * https://mozilla.org/MPL/2.0/.
 */

package core

import (
	"bytes"
	"crypto/rand"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/absfs/memfs"
)

func TestSpool_InMemory(t *testing.T) {
	mfs, err := memfs.NewFS()
	if err != nil {
		t.Fatalf("memfs.NewFS failed: %v", err)
	}

	data := make([]byte, 4096)
	if _, err := rand.Read(data); err != nil {
		t.Fatalf("rand.Read failed: %v", err)
	}

	sp, err := newSpool(mfs, bytes.NewReader(data), DefaultSpoolLimit, 1024)
	if err != nil {
		t.Fatalf("newSpool failed: %v", err)
	}
	defer sp.Close()

	got, err := io.ReadAll(sp)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("spooled content does not match source")
	}
}

func TestSpool_SpillsToDisk(t *testing.T) {
	pattern := filepath.Join(os.TempDir(), "filecrypt-spool-*")
	before, _ := filepath.Glob(pattern)

	data := make([]byte, 64*1024)
	if _, err := rand.Read(data); err != nil {
		t.Fatalf("rand.Read failed: %v", err)
	}

	// Tiny memory budget: the spool must spill to a temp file.
	sp, err := newSpool(osFS{}, bytes.NewReader(data), 128, 1024)
	if err != nil {
		t.Fatalf("newSpool failed: %v", err)
	}

	during, _ := filepath.Glob(pattern)
	if len(during) != len(before)+1 {
		t.Errorf("expected one spill file while spool is open: before=%d during=%d", len(before), len(during))
	}

	got, err := io.ReadAll(sp)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("spooled content does not match source")
	}

	if err := sp.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	after, _ := filepath.Glob(pattern)
	if len(after) != len(before) {
		t.Errorf("spill file not removed on close: before=%d after=%d", len(before), len(after))
	}
}

func TestSpool_Rewindable(t *testing.T) {
	mfs, err := memfs.NewFS()
	if err != nil {
		t.Fatalf("memfs.NewFS failed: %v", err)
	}

	data := []byte("read me twice")
	sp, err := newSpool(mfs, bytes.NewReader(data), DefaultSpoolLimit, DefaultChunkSize)
	if err != nil {
		t.Fatalf("newSpool failed: %v", err)
	}
	defer sp.Close()

	first, err := io.ReadAll(sp)
	if err != nil {
		t.Fatalf("first ReadAll failed: %v", err)
	}
	if _, err := sp.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}
	second, err := io.ReadAll(sp)
	if err != nil {
		t.Fatalf("second ReadAll failed: %v", err)
	}
	if !bytes.Equal(first, data) || !bytes.Equal(second, data) {
		t.Error("spool not rewindable to identical content")
	}
}

func TestSpool_EmptySource(t *testing.T) {
	mfs, err := memfs.NewFS()
	if err != nil {
		t.Fatalf("memfs.NewFS failed: %v", err)
	}

	sp, err := newSpool(mfs, bytes.NewReader(nil), DefaultSpoolLimit, DefaultChunkSize)
	if err != nil {
		t.Fatalf("newSpool failed: %v", err)
	}
	defer sp.Close()

	got, err := io.ReadAll(sp)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty spool, got %d bytes", len(got))
	}
}
