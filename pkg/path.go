package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// DirMode is the permission mode for directories created by the command.
const DirMode os.FileMode = 0o700

// Prefix returns the base name of the executable, used to name the
// configuration and cache directories. The default output of the dlv
// debugger ("__debug_bin") is replaced by [Name], and leading dots are
// removed.
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		id = filepath.Base(id)
		id = strings.TrimSuffix(id, filepath.Ext(id))
		id = debugBin.ReplaceAllString(id, Name)
		id = strings.TrimLeft(id, ".")

		if id == "" {
			return Name
		}

		return id
	},
)

var debugBin = regexp.MustCompile(`^__debug_bin\d*$`)

// ConfigDir returns the directory holding the configuration files.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string { return userDir(os.UserConfigDir, ".config") },
)

// CacheDir returns the directory used for transient files such as profiles.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string { return userDir(os.UserCacheDir, ".cache") },
)

// ConfigPath joins elem onto [ConfigDir].
func ConfigPath(elem ...string) string {
	return filepath.Join(append([]string{ConfigDir()}, elem...)...)
}

// MkdirAll creates the configuration and cache directories.
func MkdirAll() error {
	for _, dir := range []string{ConfigDir(), CacheDir()} {
		if err := os.MkdirAll(dir, DirMode); err != nil {
			return err
		}
	}

	return nil
}

// userDir resolves a per-user directory, falling back to a hidden directory
// in the home directory and finally the working directory.
func userDir(lookup func() (string, error), hidden string) string {
	dir, err := lookup()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}
