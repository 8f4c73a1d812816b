/*
 * This Source Code Form is subject to the terms of the Mozilla Public License, v. 2.0.
 * If a copy of the MPL was not distributed with this file, You can obtain one at
 * https://mozilla.org/MPL/2.0/.
 */

package backend

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha512"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"github.com/veilcrypt/go-filecrypt/internal/core"
	crypto "github.com/veilcrypt/go-filecrypt/internal/crypto"
)

// AESGCM prefix and PBKDF2 parameters. PBKDF2-HMAC-SHA384 keeps this
// backend within FIPS-approved primitives.
const (
	aesgcmPrefix = "agm1:"

	pbkdf2Iterations = 600000 // OWASP recommendation (2023)
)

// AESGCM is the AES-256-GCM backend with a PBKDF2-HMAC-SHA384 password
// KDF, for deployments restricted to FIPS-approved primitives.
type AESGCM struct{}

var _ core.Backend = (*AESGCM)(nil)

// NewAESGCM returns the AES-256-GCM backend.
func NewAESGCM() *AESGCM {
	return &AESGCM{}
}

// Prefix returns the magic header of AES-GCM containers.
func (b *AESGCM) Prefix() []byte {
	return []byte(aesgcmPrefix)
}

// FileSaltOffset returns the byte offset of the salt slot, immediately
// after the magic prefix.
func (b *AESGCM) FileSaltOffset() int64 {
	return int64(len(aesgcmPrefix))
}

// DeriveKeyFromPassword derives a 32-byte key with PBKDF2-HMAC-SHA384.
// The caller must zero the returned key after use.
func (b *AESGCM) DeriveKeyFromPassword(password, salt []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, crypto.NewCryptoError("derive key", fmt.Errorf("password cannot be empty"))
	}
	if len(salt) != core.SaltSize {
		return nil, crypto.NewCryptoError("derive key", fmt.Errorf("salt must be %d bytes, got %d", core.SaltSize, len(salt)))
	}
	return pbkdf2.Key(password, salt, pbkdf2Iterations, KeySize, sha512.New384), nil
}

// EncryptStream writes an AES-GCM container for src to dst.
func (b *AESGCM) EncryptStream(ctx context.Context, src io.Reader, dst io.Writer, key []byte, chunkSize int, salt []byte) error {
	aead, err := b.aead(key)
	if err != nil {
		return err
	}
	return sealStream(ctx, src, dst, aead, b.Prefix(), salt, chunkSize)
}

// DecryptStream decrypts an AES-GCM container from src to dst.
func (b *AESGCM) DecryptStream(ctx context.Context, src io.Reader, dst io.Writer, key []byte, chunkSize int) error {
	aead, err := b.aead(key)
	if err != nil {
		return err
	}
	return openStream(ctx, src, dst, aead, b.Prefix(), chunkSize)
}

func (b *AESGCM) aead(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, crypto.NewCryptoError("create cipher", crypto.ErrKeySize)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, crypto.NewCryptoError("create cipher", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, crypto.NewCryptoError("create cipher", err)
	}
	return aead, nil
}
