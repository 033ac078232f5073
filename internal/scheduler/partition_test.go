package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ALEX0661/OPTISCHEDULE/internal/catalog"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		course catalog.Course
		want   Phase
	}{
		{"first year lecture only", catalog.Course{YearLevel: 1, UnitsLecture: 3}, PhaseFlexible},
		{"first year with lab", catalog.Course{YearLevel: 1, UnitsLecture: 2, UnitsLab: 1}, PhaseCritical},
		{"second year with lab", catalog.Course{YearLevel: 2, UnitsLecture: 2, UnitsLab: 1}, PhaseRegular},
		{"third year lecture only", catalog.Course{YearLevel: 3, UnitsLecture: 3}, PhaseRegular},
		// lecture-only upper years stay in the regular tier
		{"fourth year lecture only", catalog.Course{YearLevel: 4, UnitsLecture: 3}, PhaseRegular},
		{"fourth year with lab", catalog.Course{YearLevel: 4, UnitsLecture: 2, UnitsLab: 2}, PhaseCritical},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classify(tc.course))
		})
	}
}

func TestPriorityScore(t *testing.T) {
	c := catalog.Course{YearLevel: 3, UnitsLecture: 2, UnitsLab: 1, Blocks: 2}
	// 3*1000 + (2+2)*100 + 1*50 + 2*10
	assert.Equal(t, 3470, priorityScore(c))

	// blocks default to one section
	unset := catalog.Course{YearLevel: 1, UnitsLecture: 1}
	assert.Equal(t, 1110, priorityScore(unset))
}

func TestPartitionOrdersByPhaseThenPriority(t *testing.T) {
	courses := []catalog.Course{
		{Code: "HARD", YearLevel: 4, UnitsLecture: 2, UnitsLab: 2, Blocks: 3},
		{Code: "EASY", YearLevel: 1, UnitsLecture: 2},
		{Code: "MID", YearLevel: 2, UnitsLecture: 2, UnitsLab: 1},
		{Code: "EASY2", YearLevel: 1, UnitsLecture: 3},
	}
	parted, withBoth := Partition(courses)
	require.Len(t, parted, 4)

	codes := make([]string, len(parted))
	for i, pc := range parted {
		codes[i] = pc.Course.Code
	}
	// flexible first, heavier flexible course ahead, critical last
	assert.Equal(t, []string{"EASY2", "EASY", "MID", "HARD"}, codes)

	assert.True(t, withBoth["HARD"])
	assert.True(t, withBoth["MID"])
	assert.False(t, withBoth["EASY"])
}
