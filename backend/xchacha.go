/*
 * This Source Code Form is subject to the terms of the Mozilla Public License, v. 2.0.
 * If a copy of the MPL was not distributed with this file, You can obtain one at
 * https://mozilla.org/MPL/2.0/.
 */

package backend

import (
	"context"
	"crypto/cipher"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/veilcrypt/go-filecrypt/internal/core"
	crypto "github.com/veilcrypt/go-filecrypt/internal/crypto"
)

// XChaCha prefix and Argon2id parameters (OWASP 2023 recommendations
// for interactive use).
const (
	xchachaPrefix = "xcp1:"

	argon2Time    = 3
	argon2Memory  = 64 * 1024 // KiB
	argon2Threads = 4
)

// KeySize is the symmetric key size used by both backends.
const KeySize = 32

// XChaCha is the XChaCha20-Poly1305 backend with an Argon2id password
// KDF. It is the recommended backend for new containers.
type XChaCha struct{}

var _ core.Backend = (*XChaCha)(nil)

// NewXChaCha returns the XChaCha20-Poly1305 backend.
func NewXChaCha() *XChaCha {
	return &XChaCha{}
}

// Prefix returns the magic header of XChaCha containers.
func (b *XChaCha) Prefix() []byte {
	return []byte(xchachaPrefix)
}

// FileSaltOffset returns the byte offset of the salt slot, immediately
// after the magic prefix.
func (b *XChaCha) FileSaltOffset() int64 {
	return int64(len(xchachaPrefix))
}

// DeriveKeyFromPassword derives a 32-byte key with Argon2id. The
// caller must zero the returned key after use.
func (b *XChaCha) DeriveKeyFromPassword(password, salt []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, crypto.NewCryptoError("derive key", fmt.Errorf("password cannot be empty"))
	}
	if len(salt) != core.SaltSize {
		return nil, crypto.NewCryptoError("derive key", fmt.Errorf("salt must be %d bytes, got %d", core.SaltSize, len(salt)))
	}
	return argon2.IDKey(password, salt, argon2Time, argon2Memory, argon2Threads, KeySize), nil
}

// EncryptStream writes an XChaCha container for src to dst.
func (b *XChaCha) EncryptStream(ctx context.Context, src io.Reader, dst io.Writer, key []byte, chunkSize int, salt []byte) error {
	aead, err := b.aead(key)
	if err != nil {
		return err
	}
	return sealStream(ctx, src, dst, aead, b.Prefix(), salt, chunkSize)
}

// DecryptStream decrypts an XChaCha container from src to dst.
func (b *XChaCha) DecryptStream(ctx context.Context, src io.Reader, dst io.Writer, key []byte, chunkSize int) error {
	aead, err := b.aead(key)
	if err != nil {
		return err
	}
	return openStream(ctx, src, dst, aead, b.Prefix(), chunkSize)
}

func (b *XChaCha) aead(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, crypto.NewCryptoError("create cipher", crypto.ErrKeySize)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, crypto.NewCryptoError("create cipher", err)
	}
	return aead, nil
}
