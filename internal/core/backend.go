/*
 * This Source Code Form is subject to the terms of the Mozilla Public License, v. 2.0.
 * If a copy of the MPL was not distributed with this file, You can obtain one at
 * https://mozilla.org/MPL/2.0/.
 */

// Package core implements the encrypted file streaming codec: stream
// resolution with same-path staging, salt management, format detection,
// and orchestration of the chunked AEAD transforms provided by a
// Backend.
package core

import (
	"context"
	"io"
)

const (
	// SaltSize is the size of the password-mode salt stored in the
	// container, immediately after the magic prefix.
	SaltSize = 16

	// FileTable and FileColumn form the fixed key-hierarchy context
	// reserved for whole-file encryption.
	FileTable  = "file"
	FileColumn = "file"
)

// DummySalt is the reserved sentinel stored in the container's salt
// slot when no password is involved. The salt generator never returns
// it, so a genuine random salt stays distinguishable from "no salt".
var DummySalt [SaltSize]byte

// Backend provides the authenticated-encryption primitive and the
// password KDF. Implementations are selected at construction time; the
// codec never switches backends per call.
type Backend interface {
	// Prefix returns the fixed magic header identifying containers
	// produced by this backend. Used for detection only.
	Prefix() []byte

	// FileSaltOffset returns the byte offset of the 16-byte salt slot
	// within the container.
	FileSaltOffset() int64

	// DeriveKeyFromPassword runs the backend's KDF. Deterministic for
	// a given password and salt.
	DeriveKeyFromPassword(password, salt []byte) ([]byte, error)

	// EncryptStream writes the container header (with salt, or the
	// dummy sentinel when salt is nil) followed by chunk-framed
	// ciphertext. Memory use is bounded by chunkSize.
	EncryptStream(ctx context.Context, src io.Reader, dst io.Writer, key []byte, chunkSize int, salt []byte) error

	// DecryptStream is the inverse transform. It must reject tampered
	// or truncated containers.
	DecryptStream(ctx context.Context, src io.Reader, dst io.Writer, key []byte, chunkSize int) error
}

// KeyProvider derives per-context symmetric keys from a managed key
// hierarchy. The codec always requests the (FileTable, FileColumn)
// context.
type KeyProvider interface {
	SymmetricKey(table, column string) ([]byte, error)
}

// Stream is the handle type the codec reads containers from: seekable
// so the salt and magic prefix can be inspected without consuming the
// payload.
type Stream interface {
	io.Reader
	io.Seeker
	io.Closer
}
