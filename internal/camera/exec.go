package camera

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"slices"
	"strings"

	"github.com/raoulx24/birdwatcher/internal/fs"
	"github.com/raoulx24/birdwatcher/internal/logging"
)

// Exec captures by running an external program, fswebcam by default, with the
// output path appended as the last argument.
type Exec struct {
	command string
	args    []string
	fs      fs.FS
	log     logging.Logger
}

func NewExec(command string, args []string, filesystem fs.FS, log logging.Logger) *Exec {
	return &Exec{
		command: command,
		args:    slices.Clone(args),
		fs:      filesystem,
		log:     log,
	}
}

func (e *Exec) Capture(ctx context.Context, dir, name string) error {
	tmp := partialPath(dir, name)
	args := append(slices.Clone(e.args), tmp)

	cmd := exec.CommandContext(ctx, e.command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	e.log.Debug("running capture command", "command", e.command, "args", args)
	if err := cmd.Run(); err != nil {
		_ = e.fs.Remove(tmp)
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%w: %s: %w: %s", ErrCaptureFailed, e.command, err, msg)
		}
		return fmt.Errorf("%w: %s: %w", ErrCaptureFailed, e.command, err)
	}

	return finish(ctx, e.fs, dir, name)
}
