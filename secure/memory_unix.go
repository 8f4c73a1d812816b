//go:build unix || darwin

/*
 * This Source Code Form is subject to the terms of the Mozilla Public License, v. 2.0.
 * If a copy of the MPL was not distributed with this file, You can obtain one at
 * https://mozilla.org/MPL/2.0/.
 */

package secure

import (
	"syscall"
)

// LockMemory pins b into RAM with mlock so key material cannot be
// swapped to disk. Best effort: callers should tolerate failure.
func LockMemory(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return syscall.Mlock(b)
}

// UnlockMemory releases an mlock obtained by LockMemory.
func UnlockMemory(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return syscall.Munlock(b)
}
