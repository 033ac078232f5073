package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, files map[string]string) FileSource {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return NewFileSource(dir)
}

func TestFileSourceLoadsCatalog(t *testing.T) {
	src := writeCatalog(t, map[string]string{
		"courses.json": `[
			{"courseCode": "CS101", "title": "Intro", "program": "BSCS",
			 "yearLevel": 1, "unitsLecture": 2, "unitsLab": 0, "blocks": 2},
			{"courseCode": "CS201", "title": "Algo", "program": "BSCS",
			 "yearLevel": 2, "unitsLecture": 2, "unitsLab": 1}
		]`,
		"rooms.json":         `{"lecture": ["L1", "L2"], "lab": ["B1"]}`,
		"time_settings.json": `{"start_time": 8, "end_time": 17}`,
		"days.json":          `["Monday", "Tuesday"]`,
	})

	courses, err := src.Courses()
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "CS101", courses[0].Code)
	assert.Equal(t, 2, courses[0].Blocks)
	// a missing blocks field normalizes to one section
	assert.Equal(t, 1, courses[1].Blocks)

	rooms, err := src.Rooms()
	require.NoError(t, err)
	assert.Equal(t, []string{"L1", "L2"}, rooms.ByKind(RoomLecture))
	assert.Equal(t, []string{"B1"}, rooms.ByKind(RoomLab))

	ts, err := src.TimeSettings()
	require.NoError(t, err)
	assert.Equal(t, 8, ts.StartTime)

	days, err := src.Days()
	require.NoError(t, err)
	assert.Len(t, days, 2)

	assert.NoError(t, Validate(courses, rooms, ts, days))
}

func TestFileSourceMissingFile(t *testing.T) {
	src := NewFileSource(t.TempDir())
	_, err := src.Courses()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "courses.json")
}

func TestFileSourceMalformedJSON(t *testing.T) {
	src := writeCatalog(t, map[string]string{"rooms.json": `{"lecture": [`})
	_, err := src.Rooms()
	require.Error(t, err)
}

func TestValidateReportsAllProblems(t *testing.T) {
	courses := []Course{
		{Code: "", UnitsLecture: 1},
		{Code: "X1", UnitsLecture: 0, UnitsLab: 0},
		{Code: "X2", UnitsLab: 1},
	}
	rooms := RoomCatalog{Lecture: []string{"L1"}}
	err := Validate(courses, rooms, TimeSettings{StartTime: 17, EndTime: 8}, nil)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "start_time")
	assert.Contains(t, msg, "day list is empty")
	assert.Contains(t, msg, "no course code")
	assert.Contains(t, msg, "neither lecture nor lab")
	assert.Contains(t, msg, "no lab rooms")
}
