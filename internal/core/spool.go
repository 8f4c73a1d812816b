/*
 * This Source Code Form is subject to the terms of the Mozilla Public License, v. 2.0.
 * If a copy of the MPL was not distributed with this file, You can obtain one at
 * https://mozilla.org/MPL/2.0/.
 */

package core

import (
	"io"
	"os"

	"github.com/absfs/absfs"
	"github.com/absfs/memfs"
	"github.com/google/uuid"

	crypto "github.com/veilcrypt/go-filecrypt/internal/crypto"
)

// spool is the anonymous staging buffer used when input and output
// resolve to the same file. The full source is materialized here before
// any destructive write begins. Small inputs stay in memory; beyond
// limit the spool spills to a uuid-named temp file on fsys, which is
// removed when the spool is closed.
type spool struct {
	f      absfs.File
	remove func() error
}

var _ Stream = (*spool)(nil)

// newSpool copies src in chunkSize steps into a fresh spool positioned
// at the start. src is not closed.
func newSpool(fsys absfs.FileSystem, src io.Reader, limit int64, chunkSize int) (*spool, error) {
	mfs, err := memfs.NewFS()
	if err != nil {
		return nil, crypto.NewFilesystemError("create spool", "", err)
	}
	mem, err := mfs.OpenFile("/spool-"+uuid.NewString(), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return nil, crypto.NewFilesystemError("create spool", "", err)
	}

	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	buf := make([]byte, chunkSize)

	dst := mem
	var written int64
	var spillPath string

	fail := func(op string, cause error) (*spool, error) {
		dst.Close()
		if spillPath != "" {
			_ = fsys.Remove(spillPath)
		}
		return nil, crypto.NewFilesystemError(op, "", cause)
	}

	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if spillPath == "" && written+int64(n) > limit {
				// Memory budget exceeded: move what we have to a temp
				// file and continue there.
				tmpDir := fsys.TempDir()
				_ = fsys.MkdirAll(tmpDir, 0700)
				spillPath = tmpDir + string(fsys.Separator()) + "filecrypt-spool-" + uuid.NewString()
				f, err := fsys.OpenFile(spillPath, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
				if err != nil {
					spillPath = ""
					return fail("create spool temp file", err)
				}
				if _, err := mem.Seek(0, io.SeekStart); err != nil {
					f.Close()
					return fail("rewind spool", err)
				}
				if _, err := io.Copy(f, mem); err != nil {
					f.Close()
					return fail("spill spool", err)
				}
				mem.Close()
				dst = f
			}
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return fail("write spool", werr)
			}
			written += int64(n)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return fail("copy into spool", rerr)
		}
	}

	if _, err := dst.Seek(0, io.SeekStart); err != nil {
		return fail("rewind spool", err)
	}

	sp := &spool{f: dst}
	if spillPath != "" {
		path := spillPath
		sp.remove = func() error { return fsys.Remove(path) }
	}
	return sp, nil
}

func (s *spool) Read(p []byte) (int, error) {
	return s.f.Read(p)
}

func (s *spool) Seek(offset int64, whence int) (int64, error) {
	return s.f.Seek(offset, whence)
}

// Close releases the buffer and deletes the spill file, if any.
func (s *spool) Close() error {
	err := s.f.Close()
	if s.remove != nil {
		if rerr := s.remove(); err == nil {
			err = rerr
		}
		s.remove = nil
	}
	return err
}
