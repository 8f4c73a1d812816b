/*
 * This Source Code Form is subject to the terms of the Mozilla Public License, v. 2.0.
 * If a copy of the MPL was not distributed with this file, You can obtain one at
 * https://mozilla.org/MPL/2.0/.
 */

// Package keyring implements the managed key hierarchy: deterministic
// derivation of per-context symmetric keys from a single root key. The
// file codec requests the context reserved for whole-file encryption;
// field-level callers use their own (table, column) contexts.
package keyring

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	crypto "github.com/veilcrypt/go-filecrypt/internal/crypto"
	"github.com/veilcrypt/go-filecrypt/secure"
)

// RootKeySize is the required root key length.
const RootKeySize = 32

// derivedKeySize matches the symmetric key size of every backend.
const derivedKeySize = 32

// Keyring derives per-context keys from a root key with HKDF-SHA256.
// Derivation is deterministic: the same root key and context always
// yield the same key. Derived keys are created fresh per call and
// never cached.
type Keyring struct {
	root *crypto.SecureBuffer
}

// New copies rootKey into locked memory and returns a Keyring. The
// caller should zero its own copy of rootKey afterwards.
func New(rootKey []byte) (*Keyring, error) {
	if len(rootKey) != RootKeySize {
		return nil, fmt.Errorf("root key must be %d bytes, got %d", RootKeySize, len(rootKey))
	}
	root, err := crypto.NewSecureBufferFromBytes(rootKey)
	if err != nil {
		return nil, err
	}
	return &Keyring{root: root}, nil
}

// SymmetricKey derives the key for a logical (table, column) context.
// The caller must zero the returned key after use.
func (k *Keyring) SymmetricKey(table, column string) ([]byte, error) {
	info := make([]byte, 0, len(table)+1+len(column))
	info = append(info, table...)
	info = append(info, 0)
	info = append(info, column...)

	key := make([]byte, derivedKeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, k.root.Data(), nil, info), key); err != nil {
		secure.Zero(key)
		return nil, crypto.NewCryptoError("derive context key", err)
	}
	return key, nil
}

// Destroy zeroes the root key. The Keyring must not be used afterwards.
func (k *Keyring) Destroy() {
	if k.root != nil {
		k.root.Destroy()
	}
}
