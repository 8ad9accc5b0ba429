//go:build !gocv

package camera

import (
	"fmt"

	"github.com/raoulx24/birdwatcher/internal/fs"
	"github.com/raoulx24/birdwatcher/internal/logging"
)

func newOpenCV(int, fs.FS, logging.Logger) (Camera, error) {
	return nil, fmt.Errorf("camera backend gocv: binary built without the gocv tag")
}
