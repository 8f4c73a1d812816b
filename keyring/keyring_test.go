/*
 * This Source Code Form is subject to the terms of the Mozilla Public License, v. 2.0.
 * If a copy of the MPL was not distributed with this file, You can obtain one at
 * https://mozilla.org/MPL/2.0/.
 */

package keyring_test

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/veilcrypt/go-filecrypt/keyring"
)

func newTestKeyring(t *testing.T) (*keyring.Keyring, []byte) {
	t.Helper()
	rootKey := make([]byte, keyring.RootKeySize)
	if _, err := rand.Read(rootKey); err != nil {
		t.Fatalf("failed to generate root key: %v", err)
	}
	k, err := keyring.New(rootKey)
	if err != nil {
		t.Fatalf("keyring.New failed: %v", err)
	}
	return k, rootKey
}

func TestNew_RootKeySize(t *testing.T) {
	if _, err := keyring.New(make([]byte, 16)); err == nil {
		t.Error("expected error for 16-byte root key")
	}
	if _, err := keyring.New(nil); err == nil {
		t.Error("expected error for nil root key")
	}
}

func TestSymmetricKey_Deterministic(t *testing.T) {
	k, rootKey := newTestKeyring(t)
	defer k.Destroy()

	k1, err := k.SymmetricKey("file", "file")
	if err != nil {
		t.Fatalf("SymmetricKey failed: %v", err)
	}
	k2, err := k.SymmetricKey("file", "file")
	if err != nil {
		t.Fatalf("SymmetricKey failed: %v", err)
	}
	if !bytes.Equal(k1, k2) {
		t.Error("same context derived different keys")
	}

	// A second keyring over the same root key must agree.
	other, err := keyring.New(rootKey)
	if err != nil {
		t.Fatalf("keyring.New failed: %v", err)
	}
	defer other.Destroy()
	k3, err := other.SymmetricKey("file", "file")
	if err != nil {
		t.Fatalf("SymmetricKey failed: %v", err)
	}
	if !bytes.Equal(k1, k3) {
		t.Error("same root key and context derived different keys across keyrings")
	}
}

func TestSymmetricKey_ContextSeparation(t *testing.T) {
	k, _ := newTestKeyring(t)
	defer k.Destroy()

	contexts := [][2]string{
		{"file", "file"},
		{"users", "email"},
		{"users", "ssn"},
		// The separator byte must prevent boundary ambiguity.
		{"userse", "mail"},
	}

	seen := make(map[string][2]string)
	for _, c := range contexts {
		key, err := k.SymmetricKey(c[0], c[1])
		if err != nil {
			t.Fatalf("SymmetricKey(%q, %q) failed: %v", c[0], c[1], err)
		}
		if prev, dup := seen[string(key)]; dup {
			t.Errorf("contexts %v and %v derived the same key", prev, c)
		}
		seen[string(key)] = c
	}
}

func TestSymmetricKey_DifferentRoots(t *testing.T) {
	a, _ := newTestKeyring(t)
	defer a.Destroy()
	b, _ := newTestKeyring(t)
	defer b.Destroy()

	ka, err := a.SymmetricKey("file", "file")
	if err != nil {
		t.Fatalf("SymmetricKey failed: %v", err)
	}
	kb, err := b.SymmetricKey("file", "file")
	if err != nil {
		t.Fatalf("SymmetricKey failed: %v", err)
	}
	if bytes.Equal(ka, kb) {
		t.Error("different root keys derived the same context key")
	}
}
