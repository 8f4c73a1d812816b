/*
 * This Source Code Form is subject to the terms of the Mozilla Public License, v. 2.0.
 * If a copy of the MPL was not distributed with this file, You can obtain one at
 * https://mozilla.org/MPL/2.0/.
 */

package core

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	crypto "github.com/veilcrypt/go-filecrypt/internal/crypto"
	"github.com/veilcrypt/go-filecrypt/secure"
)

// Codec orchestrates the four file-encryption operations. It owns
// stream lifecycle and error translation; the chunked AEAD transform
// itself belongs to the Backend. A Codec retains no state across calls
// and is safe for concurrent use as long as invocations target
// disjoint output paths.
type Codec struct {
	backend   Backend
	keys      KeyProvider
	chunkSize int
	res       *resolver
}

// NewCodec builds a codec around a backend and an optional key
// provider. Managed-key operations require keys; password operations
// work without one.
func NewCodec(backend Backend, keys KeyProvider, opts ...Option) (*Codec, error) {
	if backend == nil {
		return nil, errors.New("backend cannot be nil")
	}
	cfg := &Config{
		ChunkSize:  DefaultChunkSize,
		SpoolLimit: DefaultSpoolLimit,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.ChunkSize < MinChunkSize || cfg.ChunkSize > MaxChunkSize {
		return nil, fmt.Errorf("invalid chunk size: must be between %d and %d bytes, got %d", MinChunkSize, MaxChunkSize, cfg.ChunkSize)
	}
	return &Codec{
		backend:   backend,
		keys:      keys,
		chunkSize: cfg.ChunkSize,
		res:       newResolver(cfg),
	}, nil
}

// EncryptFile encrypts srcPath to dstPath with the managed key.
func (c *Codec) EncryptFile(ctx context.Context, srcPath, dstPath string) error {
	return c.fileOp(srcPath, dstPath, func(in Stream, out io.Writer) error {
		return c.encryptManaged(ctx, bufio.NewReaderSize(in, c.chunkSize), out)
	})
}

// DecryptFile decrypts srcPath to dstPath with the managed key.
func (c *Codec) DecryptFile(ctx context.Context, srcPath, dstPath string) error {
	return c.fileOp(srcPath, dstPath, func(in Stream, out io.Writer) error {
		return c.decryptManaged(ctx, bufio.NewReaderSize(in, c.chunkSize), out)
	})
}

// EncryptFileWithPassword encrypts srcPath to dstPath with a key
// derived from password and a freshly generated salt, which is embedded
// in the container.
func (c *Codec) EncryptFileWithPassword(ctx context.Context, srcPath, dstPath string, password []byte) error {
	return c.fileOp(srcPath, dstPath, func(in Stream, out io.Writer) error {
		return c.EncryptStreamWithPassword(ctx, bufio.NewReaderSize(in, c.chunkSize), out, password)
	})
}

// DecryptFileWithPassword decrypts srcPath to dstPath with a key
// derived from password and the salt extracted from the container.
func (c *Codec) DecryptFileWithPassword(ctx context.Context, srcPath, dstPath string, password []byte) error {
	return c.fileOp(srcPath, dstPath, func(in Stream, out io.Writer) error {
		return c.DecryptStreamWithPassword(ctx, in, out, password)
	})
}

// EncryptStream encrypts src to dst with the managed key. Caller-owned
// streams are never closed by the codec.
func (c *Codec) EncryptStream(ctx context.Context, src io.Reader, dst io.Writer) error {
	return c.encryptManaged(ctx, src, dst)
}

// DecryptStream decrypts src to dst with the managed key.
func (c *Codec) DecryptStream(ctx context.Context, src io.Reader, dst io.Writer) error {
	return c.decryptManaged(ctx, src, dst)
}

// EncryptStreamWithPassword encrypts src to dst with a password-derived
// key and a freshly generated salt.
func (c *Codec) EncryptStreamWithPassword(ctx context.Context, src io.Reader, dst io.Writer, password []byte) error {
	salt, err := GenerateSalt()
	if err != nil {
		return err
	}
	kb, err := c.passwordKey(password, salt)
	if err != nil {
		return err
	}
	defer kb.Destroy()
	return c.backend.EncryptStream(ctx, src, dst, kb.Data(), c.chunkSize, salt)
}

// DecryptStreamWithPassword decrypts src to dst with a password-derived
// key. The input must be seekable so the embedded salt can be read
// before the container is consumed from the start.
func (c *Codec) DecryptStreamWithPassword(ctx context.Context, src io.ReadSeeker, dst io.Writer, password []byte) error {
	salt, err := ExtractSalt(src, c.backend.FileSaltOffset())
	if err != nil {
		return err
	}
	kb, err := c.passwordKey(password, salt)
	if err != nil {
		return err
	}
	defer kb.Destroy()
	return c.backend.DecryptStream(ctx, bufio.NewReaderSize(src, c.chunkSize), dst, kb.Data(), c.chunkSize)
}

// IsFileEncrypted reports whether the file at path is a container
// produced by this codec's backend.
func (c *Codec) IsFileEncrypted(path string) (bool, error) {
	f, err := c.res.openRead(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	return IsEncrypted(f, c.backend.Prefix())
}

// IsStreamEncrypted reports whether the stream holds a container
// produced by this codec's backend. The read position is preserved.
func (c *Codec) IsStreamEncrypted(rs io.ReadSeeker) (bool, error) {
	return IsEncrypted(rs, c.backend.Prefix())
}

// fileOp resolves the path pair, runs the transform against a buffered
// destination, and guarantees both handles close on every exit path.
func (c *Codec) fileOp(srcPath, dstPath string, fn func(in Stream, out io.Writer) error) (err error) {
	in, out, err := c.res.resolvePair(srcPath, dstPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := in.Close(); cerr != nil && err == nil {
			err = crypto.NewFilesystemError("close source", srcPath, cerr)
		}
	}()
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = crypto.NewFilesystemError("close destination", dstPath, cerr)
		}
	}()

	bw := bufio.NewWriterSize(out, c.chunkSize)
	if err := fn(in, bw); err != nil {
		return err
	}
	if ferr := bw.Flush(); ferr != nil {
		return crypto.NewFilesystemError("flush destination", dstPath, ferr)
	}
	return nil
}

func (c *Codec) encryptManaged(ctx context.Context, src io.Reader, dst io.Writer) error {
	kb, err := c.managedKey()
	if err != nil {
		return err
	}
	defer kb.Destroy()
	return c.backend.EncryptStream(ctx, src, dst, kb.Data(), c.chunkSize, nil)
}

func (c *Codec) decryptManaged(ctx context.Context, src io.Reader, dst io.Writer) error {
	kb, err := c.managedKey()
	if err != nil {
		return err
	}
	defer kb.Destroy()
	return c.backend.DecryptStream(ctx, src, dst, kb.Data(), c.chunkSize)
}

// managedKey fetches the whole-file encryption key from the key
// hierarchy and moves it into locked memory.
func (c *Codec) managedKey() (*crypto.SecureBuffer, error) {
	if c.keys == nil {
		return nil, crypto.NewCryptoError("derive managed key", errors.New("no key provider configured"))
	}
	key, err := c.keys.SymmetricKey(FileTable, FileColumn)
	if err != nil {
		if !crypto.IsCryptoError(err) {
			err = crypto.NewCryptoError("derive managed key", err)
		}
		return nil, err
	}
	defer secure.Zero(key)
	return crypto.NewSecureBufferFromBytes(key)
}

// passwordKey runs the backend KDF and moves the result into locked
// memory.
func (c *Codec) passwordKey(password, salt []byte) (*crypto.SecureBuffer, error) {
	key, err := c.backend.DeriveKeyFromPassword(password, salt)
	if err != nil {
		if !crypto.IsCryptoError(err) {
			err = crypto.NewCryptoError("derive key from password", err)
		}
		return nil, err
	}
	defer secure.Zero(key)
	return crypto.NewSecureBufferFromBytes(key)
}
