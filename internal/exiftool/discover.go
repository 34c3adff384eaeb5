// Package exiftool wraps the external metadata tool: locating the
// binary, converting resolved tags to assignment arguments, running the
// tool and extracting scanner maker-note metadata.
package exiftool

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
)

// BinaryName returns the platform-specific executable name.
func BinaryName() string {
	if runtime.GOOS == "windows" {
		return "exiftool.exe"
	}
	return "exiftool"
}

// Find locates the exiftool binary. Search order: the explicit path
// (a file, or a directory containing the binary) when given, then the
// directory of the running executable, then the system PATH.
func Find(explicit string) (string, error) {
	var candidates []string
	if explicit != "" {
		candidates = append(candidates, explicit)
	}
	if self, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Dir(self))
	}

	for _, c := range candidates {
		if filepath.Base(c) != BinaryName() {
			c = filepath.Join(c, BinaryName())
		}
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}

	if path, err := exec.LookPath("exiftool"); err == nil {
		return path, nil
	}
	return "", fmt.Errorf("%w: exiftool binary not located", photoscan.ErrToolNotFound)
}
