//go:build gocv

package camera

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gocv.io/x/gocv"

	"github.com/raoulx24/birdwatcher/internal/fs"
	"github.com/raoulx24/birdwatcher/internal/logging"
)

// OpenCV grabs a frame from a V4L device through OpenCV. The device is opened
// per capture and released afterwards.
type OpenCV struct {
	mu     sync.Mutex
	device int
	fs     fs.FS
	log    logging.Logger
}

func newOpenCV(device int, filesystem fs.FS, log logging.Logger) (Camera, error) {
	return &OpenCV{device: device, fs: filesystem, log: log}, nil
}

// warmupFrames are read and dropped so exposure can settle.
const warmupFrames = 10

func (o *OpenCV) Capture(ctx context.Context, dir, name string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	dev, err := gocv.OpenVideoCapture(o.device)
	if err != nil {
		return fmt.Errorf("%w: opening device %d: %w", ErrCaptureFailed, o.device, err)
	}
	defer dev.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	for i := 0; i <= warmupFrames; i++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if ok := dev.Read(&frame); !ok {
			return fmt.Errorf("%w: device %d returned no frame", ErrCaptureFailed, o.device)
		}
	}
	if frame.Empty() {
		return fmt.Errorf("%w: empty frame from device %d", ErrCaptureFailed, o.device)
	}

	buf, err := gocv.IMEncode(gocv.FileExt(filepath.Ext(name)), frame)
	if err != nil {
		return fmt.Errorf("%w: encoding frame: %w", ErrCaptureFailed, err)
	}
	defer buf.Close()

	tmp := partialPath(dir, name)
	o.log.Debug("writing frame", "path", tmp, "cols", frame.Cols(), "rows", frame.Rows())
	if err := os.WriteFile(tmp, buf.GetBytes(), 0o644); err != nil {
		_ = o.fs.Remove(tmp)
		return fmt.Errorf("writing frame: %w", err)
	}

	return finish(ctx, o.fs, dir, name)
}
