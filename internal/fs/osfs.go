package fs

import (
	"context"
	"os"
)

// OSFS is the concrete FS backed by the local OS filesystem.
type OSFS struct{}

func New() *OSFS {
	return &OSFS{}
}

func (o *OSFS) Stat(path string) (FileInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}

	return FileInfo{
		Path:  path,
		Size:  st.Size(),
		MTime: st.ModTime(),
		IsDir: st.IsDir(),
	}, nil
}

func (o *OSFS) EnsureDir(path string) error {
	return EnsureDir(path)
}

// Remove deletes path. A path that is already gone is not an error.
func (o *OSFS) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (o *OSFS) Rename(ctx context.Context, oldPath, newPath string) error {
	return renameWithRetry(ctx, oldPath, newPath)
}
