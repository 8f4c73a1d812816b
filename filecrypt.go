/*
 * This Source Code Form is subject to the terms of the Mozilla Public License, v. 2.0.
 * If a copy of the MPL was not distributed with this file, You can obtain one at
 * https://mozilla.org/MPL/2.0/.
 */

// Package filecrypt is the streaming file-encryption layer of a
// searchable field-level encryption library. It turns byte streams of
// any length into self-describing encrypted containers, and back,
// using either a key from a managed key hierarchy or a password-derived
// key, with memory use bounded by the configured chunk size.
//
// # Basic Usage
//
// Encrypt and decrypt a file with a managed key:
//
//	import (
//	    "context"
//	    "crypto/rand"
//
//	    filecrypt "github.com/veilcrypt/go-filecrypt"
//	    "github.com/veilcrypt/go-filecrypt/backend"
//	    "github.com/veilcrypt/go-filecrypt/keyring"
//	)
//
//	rootKey := make([]byte, keyring.RootKeySize)
//	rand.Read(rootKey)
//	keys, _ := keyring.New(rootKey)
//	defer keys.Destroy()
//	filecrypt.ZeroKey(rootKey)
//
//	ef, _ := filecrypt.New(backend.NewXChaCha(), keys)
//
//	ctx := context.Background()
//	err := ef.EncryptFile(ctx, "report.pdf", "report.pdf.enc")
//	err = ef.DecryptFile(ctx, "report.pdf.enc", "report.pdf")
//
// Encrypting a file onto its own path is safe: the input is staged
// through an anonymous buffer before the destination is truncated.
//
// # Password Mode
//
// Password operations derive the key through the backend's KDF and
// store a fresh 16-byte random salt inside the container, so only the
// password is needed to decrypt:
//
//	err := ef.EncryptFileWithPassword(ctx, "report.pdf", "report.pdf.enc", password)
//	err = ef.DecryptFileWithPassword(ctx, "report.pdf.enc", "report.pdf", password)
//
// # Backends
//
// The cryptographic primitive is pluggable among a closed set chosen
// at construction time: backend.NewXChaCha (XChaCha20-Poly1305 with
// Argon2id, recommended) and backend.NewAESGCM (AES-256-GCM with
// PBKDF2-HMAC-SHA384, for FIPS-restricted deployments). Containers
// carry the backend's magic prefix and can be recognized without
// decryption via IsFileEncrypted / IsStreamEncrypted.
//
// # Failure Model
//
// Filesystem failures and cryptographic failures are distinct kinds,
// classifiable with IsFilesystemError and IsCryptoError. Neither is
// retried internally, and a failed operation may leave a truncated
// output file that must be treated as untrusted.
package filecrypt

import (
	"context"
	"io"

	"github.com/veilcrypt/go-filecrypt/internal/core"
	crypto "github.com/veilcrypt/go-filecrypt/internal/crypto"
	"github.com/veilcrypt/go-filecrypt/secure"
)

// Option defines functional options for codec construction
// (re-exported from internal/core).
type Option = core.Option

// WithChunkSize sets the chunk size for streaming operations
// (re-exported from internal/core).
var WithChunkSize = core.WithChunkSize

// WithFilesystem resolves file paths against an absfs filesystem
// instead of the operating system (re-exported from internal/core).
var WithFilesystem = core.WithFilesystem

// WithSpoolLimit bounds the in-memory portion of same-path staging
// copies (re-exported from internal/core).
var WithSpoolLimit = core.WithSpoolLimit

// Backend is the pluggable cryptographic primitive provider. Concrete
// implementations live in the backend package.
type Backend = core.Backend

// KeyProvider is the managed key hierarchy interface. The keyring
// package provides the standard implementation.
type KeyProvider = core.KeyProvider

// IsFilesystemError reports whether err stems from path or stream I/O.
var IsFilesystemError = crypto.IsFilesystemError

// IsCryptoError reports whether err stems from entropy, key
// derivation, or the cipher transform.
var IsCryptoError = crypto.IsCryptoError

// ZeroKey securely zeroes key or password material. Always defer it
// after generating a root key or reading a password.
var ZeroKey = secure.Zero

// Defaults re-exported from internal/core.
const (
	DefaultChunkSize = core.DefaultChunkSize
	SaltSize         = core.SaltSize
)

// EncryptedFile is the encrypted file streaming codec. It holds no
// per-call state and is safe for concurrent use as long as concurrent
// invocations target disjoint output paths.
type EncryptedFile struct {
	codec *core.Codec
}

// New builds a codec from a backend and a key provider. keys may be
// nil when only the password operations are used.
func New(b Backend, keys KeyProvider, opts ...Option) (*EncryptedFile, error) {
	codec, err := core.NewCodec(b, keys, opts...)
	if err != nil {
		return nil, err
	}
	return &EncryptedFile{codec: codec}, nil
}

// EncryptFile encrypts srcPath to dstPath with the managed key. The
// paths may refer to the same file.
func (ef *EncryptedFile) EncryptFile(ctx context.Context, srcPath, dstPath string) error {
	return ef.codec.EncryptFile(ctx, srcPath, dstPath)
}

// DecryptFile decrypts srcPath to dstPath with the managed key. The
// paths may refer to the same file.
func (ef *EncryptedFile) DecryptFile(ctx context.Context, srcPath, dstPath string) error {
	return ef.codec.DecryptFile(ctx, srcPath, dstPath)
}

// EncryptFileWithPassword encrypts srcPath to dstPath with a key
// derived from password; the salt is generated fresh and embedded in
// the container.
func (ef *EncryptedFile) EncryptFileWithPassword(ctx context.Context, srcPath, dstPath string, password []byte) error {
	return ef.codec.EncryptFileWithPassword(ctx, srcPath, dstPath, password)
}

// DecryptFileWithPassword decrypts srcPath to dstPath with a key
// derived from password and the salt stored in the container.
func (ef *EncryptedFile) DecryptFileWithPassword(ctx context.Context, srcPath, dstPath string, password []byte) error {
	return ef.codec.DecryptFileWithPassword(ctx, srcPath, dstPath, password)
}

// EncryptStream encrypts src to dst with the managed key. Caller-owned
// streams are never closed by the codec.
func (ef *EncryptedFile) EncryptStream(ctx context.Context, src io.Reader, dst io.Writer) error {
	return ef.codec.EncryptStream(ctx, src, dst)
}

// DecryptStream decrypts src to dst with the managed key.
func (ef *EncryptedFile) DecryptStream(ctx context.Context, src io.Reader, dst io.Writer) error {
	return ef.codec.DecryptStream(ctx, src, dst)
}

// EncryptStreamWithPassword encrypts src to dst with a password-derived
// key and a freshly generated salt.
func (ef *EncryptedFile) EncryptStreamWithPassword(ctx context.Context, src io.Reader, dst io.Writer, password []byte) error {
	return ef.codec.EncryptStreamWithPassword(ctx, src, dst, password)
}

// DecryptStreamWithPassword decrypts src to dst with a password-derived
// key; src must be seekable so the embedded salt can be read first.
func (ef *EncryptedFile) DecryptStreamWithPassword(ctx context.Context, src io.ReadSeeker, dst io.Writer, password []byte) error {
	return ef.codec.DecryptStreamWithPassword(ctx, src, dst, password)
}

// IsFileEncrypted reports whether the file at path is a container
// produced by this codec's backend. Advisory only: it inspects the
// magic prefix and performs no integrity check.
func (ef *EncryptedFile) IsFileEncrypted(path string) (bool, error) {
	return ef.codec.IsFileEncrypted(path)
}

// IsStreamEncrypted reports whether rs holds a container produced by
// this codec's backend. The stream's read position is preserved, so a
// diagnostic check does not consume the stream for a later decrypt.
func (ef *EncryptedFile) IsStreamEncrypted(rs io.ReadSeeker) (bool, error) {
	return ef.codec.IsStreamEncrypted(rs)
}
