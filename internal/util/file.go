package util

import "os"

// EnsureDir creates the directory (and parents) if it does not exist yet.
// The deck store calls this once at startup for its save directory.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
