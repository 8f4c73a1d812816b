/*
 * This Source Code Form is subject to the terms of the Mozilla Public License, v. 2.0.
 * If a copy of the MPL was not distributed with this file, You can obtain one at
 * https://mozilla.org/MPL/2.0/.
 */

package core

import (
	"crypto/rand"
	"io"

	crypto "github.com/veilcrypt/go-filecrypt/internal/crypto"
	"github.com/veilcrypt/go-filecrypt/secure"
)

// GenerateSalt draws a fresh 16-byte random salt for password mode.
// The reserved dummy sentinel is never returned: it marks "no real
// salt" in managed-mode containers, so a collision would make a genuine
// salt indistinguishable from the placeholder. The redraw loop
// terminates after one iteration with overwhelming probability.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	for {
		if _, err := rand.Read(salt); err != nil {
			return nil, crypto.NewCryptoError("generate salt", err)
		}
		if !secure.SecureCompare(salt, DummySalt[:]) {
			return salt, nil
		}
	}
}

// ExtractSalt reads the 16-byte salt stored at offset in an existing
// container and rewinds the stream to the start, so the same handle can
// be consumed from offset 0 by the decrypt pipeline.
func ExtractSalt(rs io.ReadSeeker, offset int64) ([]byte, error) {
	if _, err := rs.Seek(offset, io.SeekStart); err != nil {
		return nil, crypto.NewFilesystemError("seek to salt", "", err)
	}

	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rs, salt); err != nil {
		return nil, crypto.NewCryptoError("extract salt", crypto.WrapError("container too short to hold a salt", err))
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, crypto.NewFilesystemError("rewind after salt", "", err)
	}
	return salt, nil
}
