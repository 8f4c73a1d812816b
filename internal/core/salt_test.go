/*
 * This Source Code Form is subject to the terms of the Mozilla Public License, v. 2.0.
 * If a copy of the MPL was not distributed with this file, You can obtain one at
 * https://mozilla.org/MPL/2.0/.
 */

package core

import (
	"bytes"
	"io"
	"testing"

	crypto "github.com/veilcrypt/go-filecrypt/internal/crypto"
)

func TestGenerateSalt(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt failed: %v", err)
	}
	if len(salt) != SaltSize {
		t.Fatalf("expected %d-byte salt, got %d", SaltSize, len(salt))
	}
}

func TestGenerateSalt_NeverDummy(t *testing.T) {
	for i := 0; i < 1000; i++ {
		salt, err := GenerateSalt()
		if err != nil {
			t.Fatalf("GenerateSalt failed on iteration %d: %v", i, err)
		}
		if bytes.Equal(salt, DummySalt[:]) {
			t.Fatalf("iteration %d returned the reserved dummy sentinel", i)
		}
	}
}

func TestExtractSalt(t *testing.T) {
	prefix := []byte("xcp1:")
	salt := bytes.Repeat([]byte{0xAB}, SaltSize)

	var container bytes.Buffer
	container.Write(prefix)
	container.Write(salt)
	container.WriteString("framed ciphertext follows")

	rs := bytes.NewReader(container.Bytes())
	got, err := ExtractSalt(rs, int64(len(prefix)))
	if err != nil {
		t.Fatalf("ExtractSalt failed: %v", err)
	}
	if !bytes.Equal(got, salt) {
		t.Errorf("extracted salt mismatch: got %x, want %x", got, salt)
	}

	// The stream must be rewound so the decrypt pipeline can consume it
	// from the start.
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		t.Fatalf("Seek failed: %v", err)
	}
	if pos != 0 {
		t.Errorf("expected position 0 after extraction, got %d", pos)
	}
}

func TestExtractSalt_TooShort(t *testing.T) {
	rs := bytes.NewReader([]byte("xcp1:shrt"))
	_, err := ExtractSalt(rs, 5)
	if err == nil {
		t.Fatal("expected error for container too short to hold a salt")
	}
	if !crypto.IsCryptoError(err) {
		t.Errorf("expected a crypto error, got %v", err)
	}
}
