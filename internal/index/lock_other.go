//go:build !unix

package index

import "os"

// No advisory locking outside unix; the in-process path mutex still applies.

func lockFile(*os.File) error { return nil }

func unlockFile(*os.File) {}
