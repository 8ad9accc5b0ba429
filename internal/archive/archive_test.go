package archive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/raoulx24/birdwatcher/internal/camera"
	"github.com/raoulx24/birdwatcher/internal/config"
	"github.com/raoulx24/birdwatcher/internal/index"
	"github.com/raoulx24/birdwatcher/internal/logging"
)

type gateFunc func(time.Time) bool

func (f gateFunc) ShouldCapture(t time.Time) bool { return f(t) }

var (
	alwaysDay   = gateFunc(func(time.Time) bool { return true })
	alwaysNight = gateFunc(func(time.Time) bool { return false })
)

// fakeCamera writes content to dir/name, or fails with err.
type fakeCamera struct {
	content string
	err     error
	calls   int
}

func (c *fakeCamera) Capture(_ context.Context, dir, name string) error {
	c.calls++
	if c.err != nil {
		return c.err
	}
	return os.WriteFile(filepath.Join(dir, name), []byte(c.content), 0o644)
}

func newTestOrchestrator(t *testing.T, gate Gate, cam camera.Camera) (*Orchestrator, string) {
	t.Helper()
	root := t.TempDir()
	layout := Layout{Root: root, Extension: ".jpg", TZ: time.UTC}
	return New(layout, gate, cam, index.NewStore(true), logging.Nop(), nil), root
}

func mustRead(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

var noon = time.Date(2024, time.May, 4, 12, 30, 15, 0, time.UTC)

func TestRun_Captures(t *testing.T) {
	cam := &fakeCamera{content: "jpeg"}
	o, root := newTestOrchestrator(t, alwaysDay, cam)

	res, err := o.Run(context.Background(), noon)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != Captured {
		t.Fatalf("Status = %v", res.Status)
	}
	if res.Date != "20240504" || res.Name != "123015.jpg" {
		t.Errorf("Date/Name = %s/%s", res.Date, res.Name)
	}

	image := filepath.Join(root, "20240504", "123015.jpg")
	if res.Path != image {
		t.Errorf("Path = %s, want %s", res.Path, image)
	}
	if got := mustRead(t, image); got != "jpeg" {
		t.Errorf("image = %q", got)
	}
	if got := mustRead(t, filepath.Join(root, "20240504", PicturesIndexName)); got != `["123015.jpg"]` {
		t.Errorf("pictures index = %s", got)
	}
	if got := mustRead(t, filepath.Join(root, DatesIndexName)); got != `["20240504"]` {
		t.Errorf("dates index = %s", got)
	}
}

func TestRun_NightSkipsWithoutWriting(t *testing.T) {
	cam := &fakeCamera{content: "jpeg"}
	o, root := newTestOrchestrator(t, alwaysNight, cam)

	res, err := o.Run(context.Background(), noon)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != Skipped {
		t.Errorf("Status = %v, want skipped", res.Status)
	}
	if cam.calls != 0 {
		t.Errorf("camera called %d times", cam.calls)
	}

	entries, _ := os.ReadDir(root)
	if len(entries) != 0 {
		t.Errorf("root not empty after skip: %v", entries)
	}
}

func TestRun_CaptureFailureLeavesIndicesAlone(t *testing.T) {
	boom := errors.New("no device")
	cam := &fakeCamera{err: boom}
	o, root := newTestOrchestrator(t, alwaysDay, cam)

	_, err := o.Run(context.Background(), noon)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}

	for _, p := range []string{
		filepath.Join(root, DatesIndexName),
		filepath.Join(root, "20240504", PicturesIndexName),
		filepath.Join(root, "20240504", "123015.jpg"),
	} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s exists after a failed capture", p)
		}
	}

	// retry on the next run needs no cleanup
	cam.err = nil
	cam.content = "jpeg"
	if _, err := o.Run(context.Background(), noon); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if got := mustRead(t, filepath.Join(root, DatesIndexName)); got != `["20240504"]` {
		t.Errorf("dates index = %s", got)
	}
}

func TestRun_AccumulatesAndIsIdempotent(t *testing.T) {
	cam := &fakeCamera{content: "first"}
	o, root := newTestOrchestrator(t, alwaysDay, cam)
	ctx := context.Background()

	times := []time.Time{
		noon,
		noon.Add(-2 * time.Hour),
		noon.Add(24 * time.Hour),
	}
	for _, at := range times {
		if _, err := o.Run(ctx, at); err != nil {
			t.Fatalf("Run(%v): %v", at, err)
		}
	}

	picturesIdx := filepath.Join(root, "20240504", PicturesIndexName)
	datesIdx := filepath.Join(root, DatesIndexName)
	if got := mustRead(t, picturesIdx); got != `["103015.jpg","123015.jpg"]` {
		t.Errorf("pictures index = %s", got)
	}
	if got := mustRead(t, datesIdx); got != `["20240504","20240505"]` {
		t.Errorf("dates index = %s", got)
	}

	// same timestamp again: image replaced, indices unchanged
	beforePictures, beforeDates := mustRead(t, picturesIdx), mustRead(t, datesIdx)
	cam.content = "second"
	if _, err := o.Run(ctx, noon); err != nil {
		t.Fatal(err)
	}
	if got := mustRead(t, filepath.Join(root, "20240504", "123015.jpg")); got != "second" {
		t.Errorf("image = %q, want overwritten", got)
	}
	if mustRead(t, picturesIdx) != beforePictures || mustRead(t, datesIdx) != beforeDates {
		t.Error("indices changed on a repeated timestamp")
	}
}

func TestRun_HealsLaggingDatesIndex(t *testing.T) {
	cam := &fakeCamera{content: "jpeg"}
	o, root := newTestOrchestrator(t, alwaysDay, cam)

	// a crash after the pictures index was written but before the dates index
	dir := filepath.Join(root, "20240504")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dir, "080000.jpg"), []byte("x"), 0o644)
	os.WriteFile(filepath.Join(dir, PicturesIndexName), []byte(`["080000.jpg"]`), 0o644)

	if _, err := o.Run(context.Background(), noon); err != nil {
		t.Fatal(err)
	}
	if got := mustRead(t, filepath.Join(root, DatesIndexName)); got != `["20240504"]` {
		t.Errorf("dates index = %s", got)
	}
	if got := mustRead(t, filepath.Join(dir, PicturesIndexName)); got != `["080000.jpg","123015.jpg"]` {
		t.Errorf("pictures index = %s", got)
	}
}

func TestRun_RecoversCorruptIndex(t *testing.T) {
	cam := &fakeCamera{content: "jpeg"}
	o, root := newTestOrchestrator(t, alwaysDay, cam)

	os.WriteFile(filepath.Join(root, DatesIndexName), []byte(`["2024050`), 0o644)

	if _, err := o.Run(context.Background(), noon); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := mustRead(t, filepath.Join(root, DatesIndexName)); got != `["20240504"]` {
		t.Errorf("dates index = %s", got)
	}
}

func TestRun_UnwritableDateDirectory(t *testing.T) {
	cam := &fakeCamera{content: "jpeg"}
	o, root := newTestOrchestrator(t, alwaysDay, cam)

	// a plain file where the date directory should go
	os.WriteFile(filepath.Join(root, "20240504"), []byte("x"), 0o644)

	if _, err := o.Run(context.Background(), noon); err == nil {
		t.Fatal("expected an error")
	}
	if cam.calls != 0 {
		t.Error("camera must not run without a directory")
	}
}

func TestLayout_UsesTimezone(t *testing.T) {
	tz := time.FixedZone("UTC+2", 2*3600)
	l := Layout{Root: "/pictures", Extension: ".jpg", TZ: tz}
	at := time.Date(2024, time.May, 4, 23, 15, 0, 0, time.UTC)

	if got := l.DateString(at); got != "20240505" {
		t.Errorf("DateString = %s", got)
	}
	if got := l.PictureName(at); got != "011500.jpg" {
		t.Errorf("PictureName = %s", got)
	}
	if got := l.PicturesIndex("20240505"); got != filepath.Join("/pictures", "20240505", PicturesIndexName) {
		t.Errorf("PicturesIndex = %s", got)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.PictureRoot = filepath.Join(t.TempDir(), "pictures")

	o, gate, err := FromConfig(cfg, logging.Nop())
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if o.Layout().TZ.String() != "Europe/Amsterdam" {
		t.Errorf("TZ = %s", o.Layout().TZ)
	}
	if gate.Location().Name != "Amsterdam" {
		t.Errorf("location = %s", gate.Location().Name)
	}

	cfg.Location.Name = "Atlantis"
	if _, _, err := FromConfig(cfg, logging.Nop()); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("unknown location: err = %v, want ErrInvalid", err)
	}

	cfg = config.Default()
	cfg.PictureRoot = "relative/pictures"
	if _, _, err := FromConfig(cfg, logging.Nop()); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("relative root: err = %v, want ErrInvalid", err)
	}
}
