// Package mmio provides the platform-specific primitives for creating and
// memory-mapping the files backing an Appender: create-and-map a fresh,
// optionally zero-filled file; map an existing file at its current size;
// unmap; and truncate.
//
// All functions here are mechanical OS plumbing. The reservation/completion
// protocol and the byte-order-aware region wrapper live in package appender.
package mmio

import "errors"

// ErrFileExists is returned by CreateAndMap when the target path already
// exists. The local Appender variant never modifies an existing file.
var ErrFileExists = errors.New("mmio: file already exists")
