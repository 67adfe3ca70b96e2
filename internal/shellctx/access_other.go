//go:build !unix

package shellctx

// readable defers to os.ReadDir on platforms without access(2).
func readable(string) bool { return true }
