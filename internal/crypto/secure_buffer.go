/*
 * This Source Code Form is subject to the terms of the Mozilla Public License, v. 2.0.
 * If a copy of the MPL was not distributed with this file, You can obtain one at
 * https://mozilla.org/MPL/2.0/.
 */

package crypto

import (
	"sync"

	"github.com/veilcrypt/go-filecrypt/secure"
)

// SecureBuffer holds key material for the duration of a single
// operation. The memory is locked best effort and zeroed on Destroy.
type SecureBuffer struct {
	buf    []byte
	mu     sync.Mutex
	zeroed bool
	unlock func()
}

// NewSecureBufferFromBytes copies b into a new SecureBuffer and
// attempts to lock the copy into RAM.
func NewSecureBufferFromBytes(b []byte) (*SecureBuffer, error) {
	buf := make([]byte, len(b))
	copy(buf, b)

	unlock := func() {}
	if err := secure.LockMemory(buf); err == nil {
		unlock = func() {
			_ = secure.UnlockMemory(buf)
		}
	}

	return &SecureBuffer{
		buf:    buf,
		unlock: unlock,
	}, nil
}

// Data returns the buffer contents. The slice aliases the locked
// memory; do not retain it past Destroy.
func (s *SecureBuffer) Data() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf
}

// Destroy zeroes the buffer and releases the memory lock. Safe to call
// more than once.
func (s *SecureBuffer) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.zeroed {
		secure.Zero(s.buf)
		s.zeroed = true
		if s.unlock != nil {
			s.unlock()
		}
	}
}
