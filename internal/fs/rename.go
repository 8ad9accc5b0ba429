package fs

import (
	"context"
	"os"
)

// renameWithRetry moves a finished capture onto its final name. The rename
// replaces an existing file of the same name.
func renameWithRetry(ctx context.Context, oldPath, newPath string) error {
	return retry(ctx, "rename", func() error {
		return os.Rename(oldPath, newPath)
	})
}
