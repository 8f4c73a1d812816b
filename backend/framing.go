/*
 * This Source Code Form is subject to the terms of the Mozilla Public License, v. 2.0.
 * If a copy of the MPL was not distributed with this file, You can obtain one at
 * https://mozilla.org/MPL/2.0/.
 */

// Package backend provides the closed set of cryptographic backends
// the codec can be constructed with. Each backend owns its magic
// prefix, its password KDF, and the chunked AEAD transform over the
// shared container framing:
//
//	[ magic prefix ][ 16-byte salt slot ][ base nonce ][ frames... ]
//
// where every frame is a 4-byte big-endian ciphertext length followed
// by the ciphertext. The salt slot carries a real random salt in
// password mode and the reserved dummy sentinel otherwise, so the same
// parser handles both modes. The header doubles as AEAD associated
// data: tampering with the prefix or salt fails authentication on the
// first frame.
package backend

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/veilcrypt/go-filecrypt/internal/core"
	crypto "github.com/veilcrypt/go-filecrypt/internal/crypto"
	"github.com/veilcrypt/go-filecrypt/secure"
)

const frameLenSize = 4

// sealStream writes the container header and chunk-framed ciphertext.
// A nil salt selects managed mode: the dummy sentinel fills the slot.
// Memory use is bounded by chunkSize regardless of input length; a
// zero-length input produces a header with no frames.
func sealStream(ctx context.Context, src io.Reader, dst io.Writer, aead cipher.AEAD, prefix, salt []byte, chunkSize int) error {
	if salt == nil {
		salt = core.DummySalt[:]
	}
	if len(salt) != core.SaltSize {
		return crypto.NewCryptoError("seal stream", fmt.Errorf("salt must be %d bytes, got %d", core.SaltSize, len(salt)))
	}
	if chunkSize < core.MinChunkSize || chunkSize > core.MaxChunkSize {
		return crypto.NewCryptoError("seal stream", fmt.Errorf("chunk size %d out of range", chunkSize))
	}

	header := make([]byte, 0, len(prefix)+core.SaltSize)
	header = append(header, prefix...)
	header = append(header, salt...)

	baseNonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(baseNonce); err != nil {
		return crypto.NewCryptoError("generate nonce", err)
	}

	if _, err := dst.Write(header); err != nil {
		return crypto.NewFilesystemError("write header", "", err)
	}
	if _, err := dst.Write(baseNonce); err != nil {
		return crypto.NewFilesystemError("write nonce", "", err)
	}

	buf := make([]byte, chunkSize)
	nonce := make([]byte, aead.NonceSize())
	var lenb [frameLenSize]byte
	var counter uint32

	for {
		if ctx.Err() != nil {
			return crypto.NewCryptoError("seal stream", crypto.ErrContextCanceled)
		}

		n, rerr := src.Read(buf)
		if n > 0 {
			copy(nonce, baseNonce)
			binary.BigEndian.PutUint32(nonce[len(nonce)-frameLenSize:], counter)
			counter++
			if counter == 0 {
				return crypto.NewCryptoError("seal stream", crypto.ErrNonceExhausted)
			}

			ct := aead.Seal(nil, nonce, buf[:n], header)
			binary.BigEndian.PutUint32(lenb[:], uint32(len(ct))) // #nosec G115 -- frame length is bounded by MaxChunkSize plus tag overhead
			if _, err := dst.Write(lenb[:]); err != nil {
				return crypto.NewFilesystemError("write frame length", "", err)
			}
			if _, err := dst.Write(ct); err != nil {
				return crypto.NewFilesystemError("write frame", "", err)
			}
		}

		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return crypto.NewFilesystemError("read plaintext", "", rerr)
		}
	}
	return nil
}

// openStream is the inverse of sealStream. Any truncation, frame-size
// violation, or authentication failure aborts with a CryptoError; no
// partial success is reported as success.
func openStream(ctx context.Context, src io.Reader, dst io.Writer, aead cipher.AEAD, prefix []byte, chunkSize int) error {
	if chunkSize < core.MinChunkSize || chunkSize > core.MaxChunkSize {
		return crypto.NewCryptoError("open stream", fmt.Errorf("chunk size %d out of range", chunkSize))
	}

	header := make([]byte, len(prefix)+core.SaltSize)
	if _, err := io.ReadFull(src, header); err != nil {
		return crypto.NewCryptoError("read header", crypto.WrapError(crypto.ErrTruncated.Error(), err))
	}
	if !secure.SecureCompare(header[:len(prefix)], prefix) {
		return crypto.NewCryptoError("read header", crypto.ErrBadPrefix)
	}

	baseNonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(src, baseNonce); err != nil {
		return crypto.NewCryptoError("read nonce", crypto.WrapError(crypto.ErrTruncated.Error(), err))
	}

	maxFrame := uint32(core.MaxChunkSize + aead.Overhead()) // #nosec G115 -- MaxChunkSize is 10 MiB
	nonce := make([]byte, aead.NonceSize())
	var lenb [frameLenSize]byte
	var counter uint32

	for {
		if ctx.Err() != nil {
			return crypto.NewCryptoError("open stream", crypto.ErrContextCanceled)
		}

		_, err := io.ReadFull(src, lenb[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return crypto.NewCryptoError("read frame length", crypto.ErrTruncated)
		}

		frameLen := binary.BigEndian.Uint32(lenb[:])
		if frameLen == 0 || frameLen > maxFrame {
			return crypto.NewCryptoError("read frame", crypto.ErrFrameSize)
		}

		ct := make([]byte, frameLen)
		if _, err := io.ReadFull(src, ct); err != nil {
			return crypto.NewCryptoError("read frame", crypto.ErrTruncated)
		}

		copy(nonce, baseNonce)
		binary.BigEndian.PutUint32(nonce[len(nonce)-frameLenSize:], counter)
		counter++
		if counter == 0 {
			return crypto.NewCryptoError("open stream", crypto.ErrNonceExhausted)
		}

		pt, err := aead.Open(nil, nonce, ct, header)
		if err != nil {
			return crypto.NewCryptoError("open frame", crypto.ErrAuthFailed)
		}
		if _, err := dst.Write(pt); err != nil {
			return crypto.NewFilesystemError("write plaintext", "", err)
		}
	}
	return nil
}
