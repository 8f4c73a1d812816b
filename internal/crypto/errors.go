/*
 * This Source Code Form is subject to the terms of the Mozilla Public License, v. 2.0.
 * If a copy of the MPL was not distributed with this file, You can obtain one at
 * https://mozilla.org/MPL/2.0/.
 */

// Package crypto holds the error model and key-material plumbing shared
// by the codec, the backends, and the keyring.
package crypto

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced through CryptoError.
var (
	ErrAuthFailed      = errors.New("authentication failed: container corrupted or tampered")
	ErrBadPrefix       = errors.New("unrecognized container prefix")
	ErrTruncated       = errors.New("container truncated")
	ErrFrameSize       = errors.New("invalid ciphertext frame size")
	ErrNonceExhausted  = errors.New("nonce counter exhausted: stream too large")
	ErrKeySize         = errors.New("invalid key length")
	ErrContextCanceled = errors.New("context canceled")
)

// FilesystemError reports a path or stream I/O failure: open, create,
// read, write, seek, or close. It is always fatal to the current call
// and never retried internally.
type FilesystemError struct {
	Op   string // "open source", "write header", "spool copy", ...
	Path string // file path, empty for anonymous streams
	Err  error
}

func (e *FilesystemError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// CryptoError reports an entropy, key-derivation, or cipher transform
// failure. Output written before the failure must be treated as
// untrusted by the caller.
type CryptoError struct {
	Op  string // "generate salt", "derive key", "open frame", ...
	Err error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CryptoError) Unwrap() error {
	return e.Err
}

// NewFilesystemError wraps err as a FilesystemError.
func NewFilesystemError(op, path string, err error) error {
	return &FilesystemError{Op: op, Path: path, Err: err}
}

// NewCryptoError wraps err as a CryptoError.
func NewCryptoError(op string, err error) error {
	return &CryptoError{Op: op, Err: err}
}

// IsFilesystemError reports whether any error in err's chain is a
// FilesystemError.
func IsFilesystemError(err error) bool {
	var fe *FilesystemError
	return errors.As(err, &fe)
}

// IsCryptoError reports whether any error in err's chain is a
// CryptoError.
func IsCryptoError(err error) bool {
	var ce *CryptoError
	return errors.As(err, &ce)
}

// WrapError adds context to an error without changing its kind.
func WrapError(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}
