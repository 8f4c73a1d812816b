/*
 * This Source Code Form is subject to the terms of the Mozilla Public License, v. 2.0.
 * If a copy of the MPL was not distributed with this file, You can obtain one at
 * https://mozilla.org/MPL/2.0/.
 */

package core

import (
	"errors"
	"io"

	crypto "github.com/veilcrypt/go-filecrypt/internal/crypto"
	"github.com/veilcrypt/go-filecrypt/secure"
)

// IsEncrypted reports whether the stream starts with the backend's
// magic prefix. The current read position is restored on every path,
// so a diagnostic check does not consume the stream for a subsequent
// decrypt. A stream too short to contain the prefix is simply not
// encrypted: detection is advisory, never an integrity check.
func IsEncrypted(rs io.ReadSeeker, prefix []byte) (bool, error) {
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return false, crypto.NewFilesystemError("query position", "", err)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return false, crypto.NewFilesystemError("seek to header", "", err)
	}

	header := make([]byte, len(prefix))
	match := false
	_, err = io.ReadFull(rs, header)
	switch {
	case err == nil:
		// Constant-time for uniformity with the rest of the package,
		// not because the prefix is secret.
		match = secure.SecureCompare(header, prefix)
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		// Too short to carry a header.
	default:
		return false, crypto.NewFilesystemError("read header", "", err)
	}

	if _, err := rs.Seek(pos, io.SeekStart); err != nil {
		return false, crypto.NewFilesystemError("restore position", "", err)
	}
	return match, nil
}
