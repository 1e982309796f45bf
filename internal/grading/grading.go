// Package grading holds the marks arithmetic shared by grading and lab summaries.
// Nothing here touches the store; callers pass the snapshots they fetched.
package grading

import (
	"errors"

	"github.com/noah-isme/lab-manager-api/internal/models"
)

// ErrNonPositiveMaxMarks is returned when a lab's maximum cannot be used as a divisor.
var ErrNonPositiveMaxMarks = errors.New("lab max marks must be greater than zero")

// AttendanceStats summarises a student's attendance records for one lab.
type AttendanceStats struct {
	Total      int
	Present    int
	Percentage float64
}

// Attendance derives presence statistics. Percentage is 0 when there are no records.
func Attendance(records []models.Attendance) AttendanceStats {
	stats := AttendanceStats{Total: len(records)}
	for _, record := range records {
		if record.IsPresent {
			stats.Present++
		}
	}
	if stats.Total > 0 {
		stats.Percentage = float64(stats.Present) / float64(stats.Total) * 100
	}
	return stats
}

// AttendanceMark scales the lab's attendance weight by the attendance percentage.
func AttendanceMark(percentage float64, attendanceMarks int) float64 {
	return percentage / 100 * float64(attendanceMarks)
}

// Components is the mark breakdown for a single graded submission.
type Components struct {
	AttendanceMark float64
	PracticalMark  float64
	VivaMark       float64
	TotalMark      float64
}

// Grade combines the attendance snapshot with teacher-entered marks.
func Grade(lab models.Lab, records []models.Attendance, practicalMark, vivaMark float64) Components {
	attendance := AttendanceMark(Attendance(records).Percentage, lab.AttendanceMarks)
	return Components{
		AttendanceMark: attendance,
		PracticalMark:  practicalMark,
		VivaMark:       vivaMark,
		TotalMark:      attendance + practicalMark + vivaMark,
	}
}

// Percentage expresses total as a share of max. It fails when max is not positive.
func Percentage(total float64, max int) (float64, error) {
	if max <= 0 {
		return 0, ErrNonPositiveMaxMarks
	}
	return total / float64(max) * 100, nil
}

// SubmissionLine is one row of a lab summary.
type SubmissionLine struct {
	Submission models.Submission
	Graded     bool
}

// LabSummary aggregates a student's standing in one lab.
type LabSummary struct {
	Attendance          AttendanceStats
	AttendanceMarks     float64
	TotalPracticalMarks float64
	TotalVivaMarks      float64
	TotalMarks          float64
	MaxMarks            int
	Percentage          float64
	Submissions         []SubmissionLine
}

// Summarize derives the lab summary from the lab, its attendance records and the
// student's submissions with their marks preloaded. Ungraded submissions count as 0.
func Summarize(lab models.Lab, records []models.Attendance, submissions []models.Submission) (LabSummary, error) {
	stats := Attendance(records)
	summary := LabSummary{
		Attendance:      stats,
		AttendanceMarks: AttendanceMark(stats.Percentage, lab.AttendanceMarks),
		MaxMarks:        lab.MaxMarks(),
		Submissions:     make([]SubmissionLine, 0, len(submissions)),
	}

	for _, submission := range submissions {
		line := SubmissionLine{Submission: submission, Graded: submission.IsGraded()}
		if line.Graded {
			summary.TotalPracticalMarks += submission.Mark.PracticalMark
			summary.TotalVivaMarks += submission.Mark.VivaMark
		}
		summary.Submissions = append(summary.Submissions, line)
	}

	summary.TotalMarks = summary.AttendanceMarks + summary.TotalPracticalMarks + summary.TotalVivaMarks

	percentage, err := Percentage(summary.TotalMarks, summary.MaxMarks)
	if err != nil {
		return LabSummary{}, err
	}
	summary.Percentage = percentage
	return summary, nil
}
