package fs

import (
	"fmt"
	"os"
)

// EnsureDir creates path and any missing parents. Losing a creation race to
// another process is success; any other failure is returned.
func EnsureDir(path string) error {
	err := os.MkdirAll(path, 0o755)
	if err == nil {
		return nil
	}
	if isExist(err) {
		if st, statErr := os.Stat(path); statErr == nil && st.IsDir() {
			return nil
		}
	}
	return fmt.Errorf("creating directory %s: %w", path, err)
}
