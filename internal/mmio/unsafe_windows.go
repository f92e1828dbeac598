//go:build windows

package mmio

import "unsafe"

// unsafeSlice builds a []byte view over a raw mapped-view address. The
// memory is owned by the OS mapping, not the Go allocator; it stays valid
// until Unmap is called.
func unsafeSlice(addr uintptr, size int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
}

// addrOf recovers the mapped-view address from a slice built by unsafeSlice.
func addrOf(data []byte) uintptr {
	return uintptr(unsafe.Pointer(&data[0]))
}
