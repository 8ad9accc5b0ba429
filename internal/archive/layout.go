package archive

import (
	"path/filepath"
	"time"
)

const (
	DatesIndexName    = "dates_index.json"
	PicturesIndexName = "pictures_index.json"

	DateLayout = "20060102"
	TimeLayout = "150405"
)

// Layout maps capture times onto the picture tree:
//
//	<root>/dates_index.json
//	<root>/<YYYYMMDD>/pictures_index.json
//	<root>/<YYYYMMDD>/<HHMMSS><ext>
type Layout struct {
	Root      string
	Extension string
	TZ        *time.Location
}

func (l Layout) local(t time.Time) time.Time {
	if l.TZ == nil {
		return t
	}
	return t.In(l.TZ)
}

// DateString is the directory name and dates index entry for t.
func (l Layout) DateString(t time.Time) string {
	return l.local(t).Format(DateLayout)
}

// PictureName is the image file name and pictures index entry for t.
func (l Layout) PictureName(t time.Time) string {
	return l.local(t).Format(TimeLayout) + l.Extension
}

func (l Layout) Dir(date string) string {
	return filepath.Join(l.Root, date)
}

func (l Layout) DatesIndex() string {
	return filepath.Join(l.Root, DatesIndexName)
}

func (l Layout) PicturesIndex(date string) string {
	return filepath.Join(l.Root, date, PicturesIndexName)
}
