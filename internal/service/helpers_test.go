package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lab-manager-api/internal/dto"
	"github.com/noah-isme/lab-manager-api/internal/models"
	"github.com/noah-isme/lab-manager-api/internal/repository"
	"github.com/noah-isme/lab-manager-api/internal/testutil"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

type capturePublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *capturePublisher) Publish(_ context.Context, event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, event := range p.events {
		out = append(out, event.Type)
	}
	return out
}

type memoryRecorder struct {
	entries []ActivityEntry
}

func (m *memoryRecorder) Record(_ context.Context, entry ActivityEntry) (dto.ActivityResponse, error) {
	m.entries = append(m.entries, entry)
	return dto.ActivityResponse{Action: entry.Action}, nil
}

type world struct {
	store     repository.Store
	teacher   models.Teacher
	student   models.Student
	lab       models.Lab
	practical models.Practical
	deadline  time.Time
}

// newWorld seeds one teacher, one student, a 10/60/30 lab and a practical due in a day.
func newWorld(t *testing.T) world {
	t.Helper()
	ctx := context.Background()
	store := repository.NewStore(testutil.OpenDB(t))

	teacher := models.Teacher{UserID: "user-teacher", Name: "Dr. Mehta", Department: "CSE"}
	require.NoError(t, store.Teachers().Create(ctx, &teacher))
	student := models.Student{UserID: "user-student", Name: "Ravi", RollNo: "CS-17", Semester: 5}
	require.NoError(t, store.Students().Create(ctx, &student))

	lab := models.Lab{
		SubjectName: "Operating Systems", SubjectCode: "CS302", TeacherID: teacher.ID,
		AttendanceMarks: 10, PracticalMarks: 60, VivaMarks: 30,
	}
	require.NoError(t, store.Labs().Create(ctx, &lab))

	deadline := time.Date(2024, 9, 1, 17, 0, 0, 0, time.UTC)
	practical := models.Practical{LabID: lab.ID, TeacherID: teacher.ID, Title: "Scheduler", Deadline: deadline}
	require.NoError(t, store.Practicals().Create(ctx, &practical))

	return world{store: store, teacher: teacher, student: student, lab: lab, practical: practical, deadline: deadline}
}

func (w world) enroll(t *testing.T) {
	t.Helper()
	require.NoError(t, w.store.Enrollments().Create(context.Background(), &models.Enrollment{StudentID: w.student.ID, LabID: w.lab.ID}))
}

func (w world) attend(t *testing.T, present ...bool) {
	t.Helper()
	ctx := context.Background()
	existing, err := w.store.Attendance().ListByStudentAndLab(ctx, w.student.ID, w.lab.ID)
	require.NoError(t, err)
	day := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, len(existing))
	for i, p := range present {
		record := models.Attendance{StudentID: w.student.ID, LabID: w.lab.ID, Date: day.AddDate(0, 0, i), IsPresent: p}
		require.NoError(t, w.store.Attendance().Create(ctx, &record))
	}
}

func (w world) submit(t *testing.T) models.Submission {
	t.Helper()
	submission := models.Submission{PracticalID: w.practical.ID, StudentID: w.student.ID, FileURL: "https://git.example.edu/ravi/scheduler", SubmittedAt: w.deadline.Add(-time.Hour)}
	require.NoError(t, w.store.Submissions().Create(context.Background(), &submission))
	return submission
}

func (w world) teacherActor() Actor {
	return Actor{UserID: w.teacher.UserID, Role: models.RoleTeacher, ProfileID: w.teacher.ID}
}

func (w world) studentActor() Actor {
	return Actor{UserID: w.student.UserID, Role: models.RoleStudent, ProfileID: w.student.ID}
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }
func boolPtr(v bool) *bool        { return &v }
