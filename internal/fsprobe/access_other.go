//go:build !unix

package fsprobe

// Permissions are left to the first real write on platforms without access(2).
func canWrite(string) error {
	return nil
}
