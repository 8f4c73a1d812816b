/*
 * This Source Code Form is subject to the terms of the Mozilla Public License, v. 2.0.
 * If a copy of the MPL was not distributed with this file, You can obtain one at
 * https://mozilla.org/MPL/2.0/.
 */

package core

import (
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/absfs/absfs"

	crypto "github.com/veilcrypt/go-filecrypt/internal/crypto"
)

// resolver opens input/output streams for file paths and defends
// against input and output aliasing the same underlying file, which
// would corrupt data as the write phase overwrites still-unread source
// bytes.
type resolver struct {
	fs         absfs.FileSystem
	osBacked   bool
	spoolLimit int64
	chunkSize  int
}

func newResolver(cfg *Config) *resolver {
	fs := cfg.FS
	osBacked := false
	if fs == nil {
		fs = osFS{}
		osBacked = true
	} else if _, ok := fs.(osFS); ok {
		osBacked = true
	}
	return &resolver{
		fs:         fs,
		osBacked:   osBacked,
		spoolLimit: cfg.SpoolLimit,
		chunkSize:  cfg.ChunkSize,
	}
}

// openRead opens path for reading. The caller owns the handle.
func (r *resolver) openRead(p string) (absfs.File, error) {
	f, err := r.fs.OpenFile(p, os.O_RDONLY, 0)
	if err != nil {
		return nil, crypto.NewFilesystemError("open source", p, err)
	}
	return f, nil
}

// openWrite opens path for writing, creating or truncating it. The
// caller owns the handle.
func (r *resolver) openWrite(p string) (absfs.File, error) {
	f, err := r.fs.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return nil, crypto.NewFilesystemError("open destination", p, err)
	}
	return f, nil
}

// sameTarget reports whether in and out refer to the same underlying
// file. On the OS filesystem both paths are symlink-resolved and, when
// both exist, compared by file identity. Abstract filesystems have no
// symlink resolution, so cleaned-path equality is used instead.
func (r *resolver) sameTarget(in, out string) bool {
	if !r.osBacked {
		return path.Clean(in) == path.Clean(out)
	}

	ri, errIn := filepath.EvalSymlinks(in)
	ro, errOut := filepath.EvalSymlinks(out)
	if errIn != nil || errOut != nil {
		// Typically the destination does not exist yet. Fall back to
		// lexical comparison so literal in-place calls still stage.
		return filepath.Clean(in) == filepath.Clean(out)
	}
	if ri == ro {
		return true
	}
	si, errIn := os.Stat(ri)
	so, errOut := os.Stat(ro)
	return errIn == nil && errOut == nil && os.SameFile(si, so)
}

// resolvePair produces the input and output handles for a file
// operation. When both paths alias the same file the entire input is
// staged through a spool before the destination is truncated, so the
// write phase can never clobber unread source bytes. The output is
// always opened fresh after the input handle is finalized. The caller
// must close both handles.
func (r *resolver) resolvePair(inPath, outPath string) (Stream, io.WriteCloser, error) {
	in, err := r.openRead(inPath)
	if err != nil {
		return nil, nil, err
	}

	var src Stream = in
	if r.sameTarget(inPath, outPath) {
		sp, err := newSpool(r.fs, in, r.spoolLimit, r.chunkSize)
		cerr := in.Close()
		if err != nil {
			return nil, nil, err
		}
		if cerr != nil {
			sp.Close()
			return nil, nil, crypto.NewFilesystemError("close source", inPath, cerr)
		}
		src = sp
	}

	out, err := r.openWrite(outPath)
	if err != nil {
		src.Close()
		return nil, nil, err
	}
	return src, out, nil
}
