//go:build unix

package fsprobe

import "golang.org/x/sys/unix"

func canWrite(dir string) error {
	return unix.Access(dir, unix.W_OK|unix.X_OK)
}
