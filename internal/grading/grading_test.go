package grading

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lab-manager-api/internal/models"
)

func standardLab() models.Lab {
	return models.Lab{AttendanceMarks: 10, PracticalMarks: 60, VivaMarks: 30}
}

func records(present ...bool) []models.Attendance {
	out := make([]models.Attendance, 0, len(present))
	for _, p := range present {
		out = append(out, models.Attendance{IsPresent: p})
	}
	return out
}

func TestAttendanceWithoutRecordsIsZero(t *testing.T) {
	stats := Attendance(nil)
	require.Equal(t, 0, stats.Total)
	require.Zero(t, stats.Percentage)
	require.Zero(t, AttendanceMark(stats.Percentage, 10))
}

func TestAttendanceMatchesPresentShare(t *testing.T) {
	cases := []struct {
		present []bool
		want    float64
	}{
		{[]bool{true}, 100},
		{[]bool{false}, 0},
		{[]bool{true, false}, 50},
		{[]bool{true, true, false, false, false}, 40},
	}
	for _, tc := range cases {
		stats := Attendance(records(tc.present...))
		require.InDelta(t, tc.want, stats.Percentage, 1e-9)
		require.InDelta(t, tc.want/100*10, AttendanceMark(stats.Percentage, 10), 1e-9)
	}
}

func TestGradeTwoOfThreePresent(t *testing.T) {
	components := Grade(standardLab(), records(true, true, false), 50, 20)

	require.InDelta(t, 6.6667, components.AttendanceMark, 1e-3)
	require.InDelta(t, 76.6667, components.TotalMark, 1e-3)

	submission := models.Submission{Mark: &models.Mark{PracticalMark: 50, VivaMark: 20}}
	summary, err := Summarize(standardLab(), records(true, true, false), []models.Submission{submission})
	require.NoError(t, err)
	require.InDelta(t, 66.67, summary.Attendance.Percentage, 1e-2)
	require.Equal(t, 100, summary.MaxMarks)
	require.InDelta(t, 76.667, summary.Percentage, 1e-3)
}

func TestSummarizeWithoutAttendance(t *testing.T) {
	graded := models.Submission{Mark: &models.Mark{PracticalMark: 40, VivaMark: 25}}
	ungraded := models.Submission{}

	summary, err := Summarize(standardLab(), nil, []models.Submission{graded, ungraded})
	require.NoError(t, err)
	require.Zero(t, summary.AttendanceMarks)
	require.Equal(t, 40.0, summary.TotalPracticalMarks)
	require.Equal(t, 25.0, summary.TotalVivaMarks)
	require.Equal(t, 65.0, summary.TotalMarks)
	require.Equal(t, 65.0, summary.Percentage)
	require.Len(t, summary.Submissions, 2)
	require.True(t, summary.Submissions[0].Graded)
	require.False(t, summary.Submissions[1].Graded)
}

func TestSummarizeRejectsNonPositiveMax(t *testing.T) {
	_, err := Summarize(models.Lab{}, records(true), nil)
	require.ErrorIs(t, err, ErrNonPositiveMaxMarks)

	_, err = Percentage(10, -5)
	require.ErrorIs(t, err, ErrNonPositiveMaxMarks)
}
