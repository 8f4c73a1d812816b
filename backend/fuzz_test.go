/*
 * This Source Code Form is subject to the terms of the Mozilla Public License, v. 2.0.
 * If a copy of the MPL was not distributed with this file, You can obtain one at
 * https://mozilla.org/MPL/2.0/.
 */

package backend_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/veilcrypt/go-filecrypt/backend"
)

// FuzzRoundTrip checks that any payload survives seal/open unchanged
// and that decrypting arbitrary bytes never succeeds spuriously.
func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("a"))
	f.Add(bytes.Repeat([]byte{0xFF}, 300))

	key := make([]byte, backend.KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	b := backend.NewXChaCha()
	ctx := context.Background()

	f.Fuzz(func(t *testing.T, payload []byte) {
		var ct bytes.Buffer
		if err := b.EncryptStream(ctx, bytes.NewReader(payload), &ct, key, 128, nil); err != nil {
			t.Fatalf("EncryptStream failed: %v", err)
		}

		var pt bytes.Buffer
		if err := b.DecryptStream(ctx, bytes.NewReader(ct.Bytes()), &pt, key, 128); err != nil {
			t.Fatalf("DecryptStream failed: %v", err)
		}
		if !bytes.Equal(pt.Bytes(), payload) {
			t.Fatalf("round trip mismatch: got %d bytes, want %d", pt.Len(), len(payload))
		}

		// The payload itself is almost never a valid container; if the
		// prefix does not match, decryption must fail rather than emit
		// garbage.
		if !bytes.HasPrefix(payload, b.Prefix()) {
			var junk bytes.Buffer
			if err := b.DecryptStream(ctx, bytes.NewReader(payload), &junk, key, 128); err == nil {
				t.Fatal("decrypting non-container bytes succeeded")
			}
		}
	})
}
