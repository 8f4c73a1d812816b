/*
 * This Source Code Form is subject to the terms of the Mozilla Public License, v. 2.0.
 * If a copy of the MPL was not distributed with this file, You can obtain one at
 * https://mozilla.org/MPL/2.0/.
 */

package core

import (
	"os"
	"time"

	"github.com/absfs/absfs"
)

// osFS adapts the operating system filesystem to absfs.FileSystem so
// the resolver and spool run over a single abstraction. It is the
// default filesystem unless WithFilesystem overrides it.
type osFS struct{}

var _ absfs.FileSystem = (*osFS)(nil)

func (osFS) OpenFile(name string, flag int, perm os.FileMode) (absfs.File, error) {
	return os.OpenFile(name, flag, perm) // #nosec G304 -- paths are provided by the caller; file access is this library's purpose
}

func (fs osFS) Open(name string) (absfs.File, error) {
	return fs.OpenFile(name, os.O_RDONLY, 0)
}

func (fs osFS) Create(name string) (absfs.File, error) {
	return fs.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
}

func (osFS) Mkdir(name string, perm os.FileMode) error {
	return os.Mkdir(name, perm)
}

func (osFS) MkdirAll(name string, perm os.FileMode) error {
	return os.MkdirAll(name, perm)
}

func (osFS) Remove(name string) error {
	return os.Remove(name)
}

func (osFS) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

func (osFS) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

func (osFS) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (osFS) Chmod(name string, mode os.FileMode) error {
	return os.Chmod(name, mode)
}

func (osFS) Chtimes(name string, atime, mtime time.Time) error {
	return os.Chtimes(name, atime, mtime)
}

func (osFS) Chown(name string, uid, gid int) error {
	return os.Chown(name, uid, gid)
}

func (osFS) Truncate(name string, size int64) error {
	return os.Truncate(name, size)
}

func (osFS) Separator() uint8 {
	return os.PathSeparator
}

func (osFS) ListSeparator() uint8 {
	return os.PathListSeparator
}

func (osFS) Chdir(dir string) error {
	return os.Chdir(dir)
}

func (osFS) Getwd() (string, error) {
	return os.Getwd()
}

func (osFS) TempDir() string {
	return os.TempDir()
}
