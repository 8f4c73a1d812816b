/*
 * This Source Code Form is subject to the terms of the Mozilla Public License, v. 2.0.
 * If a copy of the MPL was not distributed with this file, You can obtain one at
 * https://mozilla.org/MPL/2.0/.
 */

package core

import (
	"errors"
	"os"

	"github.com/absfs/absfs"
	"github.com/dustin/go-humanize"
)

const (
	// MinChunkSize is the smallest accepted chunk size.
	MinChunkSize = 1

	// DefaultChunkSize is the default I/O granularity for streaming
	// operations. A performance hint only; it never affects the
	// ciphertext format.
	DefaultChunkSize = 8192

	// MaxChunkSize is the largest chunk a single frame may carry.
	MaxChunkSize = 10 * 1024 * 1024

	// DefaultSpoolLimit is how much of a same-path staging copy is held
	// in memory before spilling to a temp file.
	DefaultSpoolLimit = 2 * 1024 * 1024
)

// Config collects the per-codec settings.
type Config struct {
	ChunkSize  int
	FS         absfs.FileSystem
	SpoolLimit int64
}

// Option is a functional option for configuring a codec.
type Option func(*Config)

// WithChunkSize sets the chunk size for streaming operations.
func WithChunkSize(size int) (Option, error) {
	// The ceiling may be lowered via environment variable, e.g.
	// FILECRYPT_CHUNKSIZE_LIMIT=1MiB. MaxChunkSize is a format-level
	// hard cap: readers reject frames above it, so a raised limit would
	// only produce containers nothing can decrypt.
	maxChunkSize := MaxChunkSize
	if envLimit, exists := os.LookupEnv("FILECRYPT_CHUNKSIZE_LIMIT"); exists {
		if limit, err := humanize.ParseBytes(envLimit); err == nil && limit > 0 && limit < MaxChunkSize {
			maxChunkSize = int(limit)
		}
	}

	if size < MinChunkSize || size > maxChunkSize {
		return nil, errors.New("invalid chunk size: must be between 1 byte and the maximum limit")
	}

	return func(cfg *Config) {
		cfg.ChunkSize = size
	}, nil
}

// WithFilesystem makes the codec resolve file paths against fs instead
// of the operating system filesystem. Same-path detection then falls
// back to cleaned-path comparison, since abstract filesystems have no
// symlink resolution.
func WithFilesystem(fs absfs.FileSystem) Option {
	return func(cfg *Config) {
		cfg.FS = fs
	}
}

// WithSpoolLimit sets how many bytes of a same-path staging copy are
// buffered in memory before the spool spills to a temp file.
func WithSpoolLimit(n int64) (Option, error) {
	if n < 0 {
		return nil, errors.New("invalid spool limit: must be non-negative")
	}
	return func(cfg *Config) {
		cfg.SpoolLimit = n
	}, nil
}
