// Package files groups file-related functionality into sub-packages.
//
// The filesystem sub-package holds the filesystem abstraction (OS and
// in-memory implementations) that the walkers and writers depend on,
// so every command can run its directory logic against an in-memory
// tree in tests.
package files
