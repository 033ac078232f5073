package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileSource loads catalogs from a directory of JSON files:
// courses.json, rooms.json, time_settings.json, and days.json.
type FileSource struct {
	Dir string
}

func NewFileSource(dir string) FileSource {
	return FileSource{Dir: dir}
}

func (f FileSource) Courses() ([]Course, error) {
	var courses []Course
	if err := f.readJSON("courses.json", &courses); err != nil {
		return nil, err
	}
	for i := range courses {
		if courses[i].Blocks < 1 {
			courses[i].Blocks = 1
		}
	}
	return courses, nil
}

func (f FileSource) Rooms() (RoomCatalog, error) {
	var rooms RoomCatalog
	if err := f.readJSON("rooms.json", &rooms); err != nil {
		return RoomCatalog{}, err
	}
	return rooms, nil
}

func (f FileSource) TimeSettings() (TimeSettings, error) {
	var ts TimeSettings
	if err := f.readJSON("time_settings.json", &ts); err != nil {
		return TimeSettings{}, err
	}
	return ts, nil
}

func (f FileSource) Days() ([]string, error) {
	var days []string
	if err := f.readJSON("days.json", &days); err != nil {
		return nil, err
	}
	return days, nil
}

func (f FileSource) readJSON(name string, v interface{}) error {
	path := filepath.Join(f.Dir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading catalog file %s", path)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrapf(err, "parsing %s", path)
	}
	return nil
}
