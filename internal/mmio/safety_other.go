//go:build !linux

package mmio

// PreFault is a no-op outside Linux: MADV_POPULATE_READ has no portable
// equivalent, and the manual page-touch fallback isn't worth the SIGBUS risk
// on platforms we can't SetPanicOnFault against reliably.
func PreFault(data []byte) error {
	return nil
}
