/*
 * This Source Code Form is subject to the terms of the Mozilla Public License, v. 2.0.
 * If a copy of the MPL was not distributed with this file, You can obtain one at
 * https://mozilla.org/MPL/2.0/.
 */

package filecrypt_test

import (
	"context"
	"path/filepath"
	"testing"

	filecrypt "github.com/veilcrypt/go-filecrypt"
	"github.com/veilcrypt/go-filecrypt/backend"
)

// Decrypting a file that was never encrypted must fail as a crypto
// error (bad container), not a filesystem error.
func TestDecryptFile_NotAContainer(t *testing.T) {
	ef := newTestCodec(t, backend.NewXChaCha())
	dir := t.TempDir()

	src := filepath.Join(dir, "plain.txt")
	dst := filepath.Join(dir, "out.txt")
	writeTestFile(t, src, []byte("this file was never encrypted, honest"))

	err := ef.DecryptFile(context.Background(), src, dst)
	if err == nil {
		t.Fatal("expected error decrypting a plain file")
	}
	if !filecrypt.IsCryptoError(err) {
		t.Errorf("expected a crypto error, got: %v", err)
	}
	if filecrypt.IsFilesystemError(err) {
		t.Errorf("bad container misclassified as filesystem error: %v", err)
	}
}

// An unwritable destination is a filesystem problem, reported before
// any cryptography happens.
func TestEncryptFile_BadDestination(t *testing.T) {
	ef := newTestCodec(t, backend.NewXChaCha())
	dir := t.TempDir()

	src := filepath.Join(dir, "plain.txt")
	writeTestFile(t, src, []byte("payload"))
	dst := filepath.Join(dir, "no-such-dir", "out.enc")

	err := ef.EncryptFile(context.Background(), src, dst)
	if err == nil {
		t.Fatal("expected error for unwritable destination")
	}
	if !filecrypt.IsFilesystemError(err) {
		t.Errorf("expected a filesystem error, got: %v", err)
	}
	if filecrypt.IsCryptoError(err) {
		t.Errorf("destination failure misclassified as crypto error: %v", err)
	}
}

// The two classifiers are mutually exclusive over the whole API.
func TestErrorKinds_Exclusive(t *testing.T) {
	ef := newTestCodec(t, backend.NewAESGCM())
	dir := t.TempDir()
	ctx := context.Background()

	src := filepath.Join(dir, "plain.txt")
	enc := filepath.Join(dir, "plain.enc")
	writeTestFile(t, src, []byte("payload"))
	if err := ef.EncryptFile(ctx, src, enc); err != nil {
		t.Fatalf("EncryptFile failed: %v", err)
	}

	// Corrupt one ciphertext byte past the header.
	ct := readTestFile(t, enc)
	ct[len(ct)-1] ^= 0x01
	writeTestFile(t, enc, ct)

	err := ef.DecryptFile(ctx, enc, filepath.Join(dir, "out.txt"))
	if err == nil {
		t.Fatal("expected error for corrupted container")
	}
	if filecrypt.IsCryptoError(err) == filecrypt.IsFilesystemError(err) {
		t.Errorf("error classified as both or neither kind: %v", err)
	}
}
