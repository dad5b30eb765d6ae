// Package testutil contains common test utilities.
package testutil

import (
	"os"
	"path/filepath"
)

// Cleanuper wraps the Cleanup method. It is a subset of [testing.TB], thus
// satisfied by [*testing.T] and [*testing.B].
type Cleanuper interface {
	Cleanup(func())
}

// TempDirer is a subset of [testing.TB] that can create temporary
// directories and register cleanups.
type TempDirer interface {
	Cleanuper
	TempDir() string
}

// InTempDir changes into a fresh temporary directory for the duration of a
// test, and returns the directory. The original working directory is restored
// afterwards.
func InTempDir(t TempDirer) string {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		panic(err)
	}
	old, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	if err := os.Chdir(dir); err != nil {
		panic(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
	return dir
}

// Set assigns v to *p for the duration of a test.
func Set[T any](c Cleanuper, p *T, v T) {
	old := *p
	*p = v
	c.Cleanup(func() { *p = old })
}

// Setenv sets an environment variable for the duration of a test, and returns
// value.
func Setenv(c Cleanuper, name, value string) string {
	old, existed := os.LookupEnv(name)
	if existed {
		c.Cleanup(func() { os.Setenv(name, old) })
	} else {
		c.Cleanup(func() { os.Unsetenv(name) })
	}
	os.Setenv(name, value)
	return value
}

// IsolateHome points HOME and the XDG base directories at subdirectories of
// a fresh temporary directory, so that code under test never touches the real
// user's files. It returns the temporary directory.
func IsolateHome(t TempDirer) string {
	dir := t.TempDir()
	Setenv(t, "HOME", dir)
	Setenv(t, "XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	Setenv(t, "XDG_STATE_HOME", filepath.Join(dir, "state"))
	return dir
}
