package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/ataluts/photo-scan-tools/internal/cli"
	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(photoscan.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(photoscan.ExitCodeForError(err))
	}
}
