package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lab-manager-api/internal/dto"
)

func TestMarkAttendanceUpsertsPerDay(t *testing.T) {
	w := newWorld(t)
	w.enroll(t)
	recorder := &memoryRecorder{}
	events := &capturePublisher{}
	svc := NewAttendanceService(w.store, recorder, events, testLogger())
	ctx := context.Background()

	first, err := svc.Mark(ctx, w.teacherActor(), w.lab.ID, dto.MarkAttendanceRequest{
		StudentID: w.student.ID, Date: "2024-08-05", IsPresent: boolPtr(false),
	})
	require.NoError(t, err)
	require.False(t, first.IsPresent)

	second, err := svc.Mark(ctx, w.teacherActor(), w.lab.ID, dto.MarkAttendanceRequest{
		StudentID: w.student.ID, Date: "2024-08-05T14:30:00Z", IsPresent: boolPtr(true),
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "2024-08-05", second.Date)

	report, err := svc.StudentAttendance(ctx, w.student.ID, w.lab.ID)
	require.NoError(t, err)
	require.Equal(t, 1, report.Count)
	require.Equal(t, 1, report.Present)
	require.InDelta(t, 100.0, report.AttendancePercentage, 1e-9)

	require.Len(t, recorder.entries, 2)
	require.Equal(t, "attendance.marked", recorder.entries[0].Action)
	require.Equal(t, []string{EventAttendanceMarked, EventAttendanceMarked}, events.types())
}

func TestMarkAttendanceRejectsBadInput(t *testing.T) {
	w := newWorld(t)
	svc := NewAttendanceService(w.store, nil, nil, testLogger())
	ctx := context.Background()

	_, err := svc.Mark(ctx, w.teacherActor(), w.lab.ID, dto.MarkAttendanceRequest{StudentID: w.student.ID, Date: "05/08/2024", IsPresent: boolPtr(true)})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))

	_, err = svc.Mark(ctx, w.teacherActor(), w.lab.ID, dto.MarkAttendanceRequest{StudentID: w.student.ID, Date: "2024-08-05", IsPresent: boolPtr(true)})
	require.True(t, errors.As(err, &ve))
	require.Equal(t, "not enrolled in lab", ve.Reason)

	_, err = svc.Mark(ctx, w.teacherActor(), "ghost", dto.MarkAttendanceRequest{StudentID: w.student.ID, Date: "2024-08-05", IsPresent: boolPtr(true)})
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	require.Equal(t, "lab", nf.Entity)
}

func TestStudentAttendanceWithoutRecords(t *testing.T) {
	w := newWorld(t)
	svc := NewAttendanceService(w.store, nil, nil, testLogger())

	report, err := svc.StudentAttendance(context.Background(), w.student.ID, w.lab.ID)
	require.NoError(t, err)
	require.Zero(t, report.Count)
	require.Zero(t, report.AttendancePercentage)
	require.Empty(t, report.Records)
}
