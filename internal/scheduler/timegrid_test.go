package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ALEX0661/OPTISCHEDULE/internal/catalog"
)

func TestNewGrid(t *testing.T) {
	days := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
	g := NewGrid(catalog.TimeSettings{StartTime: 8, EndTime: 17}, days)

	assert.Equal(t, 18, g.IncDay)
	assert.Equal(t, 90, g.TotalInc)
	assert.Len(t, g.LabStarts, 5*16)

	// each day contributes every slot except its last two
	assert.Contains(t, g.LabStarts, 0)
	assert.Contains(t, g.LabStarts, 15)
	assert.NotContains(t, g.LabStarts, 16)
	assert.NotContains(t, g.LabStarts, 17)
	assert.Contains(t, g.LabStarts, 18)

	assert.Equal(t, 0, g.DayOf(17))
	assert.Equal(t, 1, g.DayOf(18))
	assert.Equal(t, 3, g.OffsetOf(21))
}

func TestNewGridSingleDay(t *testing.T) {
	g := NewGrid(catalog.TimeSettings{StartTime: 8, EndTime: 17}, []string{"Mon"})
	assert.Equal(t, 18, g.TotalInc)
	assert.Len(t, g.LabStarts, 16)
}
