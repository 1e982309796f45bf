package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/lab-manager-api/internal/dto"
	"github.com/noah-isme/lab-manager-api/internal/models"
)

func newRedisCache(t *testing.T) (CatalogCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCatalogCache(client, time.Minute, testLogger()), mr
}

func TestCreateLabAppliesDefaultWeights(t *testing.T) {
	w := newWorld(t)
	recorder := &memoryRecorder{}
	svc := NewLabService(w.store, NewCatalogCache(nil, 0, testLogger()), recorder, testValidator(), testLogger())

	lab, err := svc.CreateLab(context.Background(), w.teacherActor(), w.teacher.ID, dto.LabCreateRequest{
		SubjectName: "Computer Networks", SubjectCode: " cs305 ", Syllabus: `<p>TCP</p><script>alert(1)</script>`,
	})
	require.NoError(t, err)
	require.Equal(t, "CS305", lab.SubjectCode)
	require.Equal(t, 10, lab.AttendanceMarks)
	require.Equal(t, 60, lab.PracticalMarks)
	require.Equal(t, 30, lab.VivaMarks)
	require.Equal(t, 100, lab.MaxMarks)
	require.NotContains(t, lab.Syllabus, "script")
	require.Equal(t, "lab.created", recorder.entries[0].Action)
}

func TestCreateLabRejectsBadWeightsAndDuplicateCode(t *testing.T) {
	w := newWorld(t)
	svc := NewLabService(w.store, nil, nil, testValidator(), testLogger())
	ctx := context.Background()

	_, err := svc.CreateLab(ctx, w.teacherActor(), w.teacher.ID, dto.LabCreateRequest{
		SubjectName: "Empty", SubjectCode: "CS000", AttendanceMarks: intPtr(0), PracticalMarks: intPtr(0), VivaMarks: intPtr(0),
	})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)

	_, err = svc.CreateLab(ctx, w.teacherActor(), w.teacher.ID, dto.LabCreateRequest{SubjectName: "Again", SubjectCode: "cs302"})
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict), "got %v", err)

	zeroAttendance, err := svc.CreateLab(ctx, w.teacherActor(), w.teacher.ID, dto.LabCreateRequest{
		SubjectName: "Project", SubjectCode: "CS490", AttendanceMarks: intPtr(0),
	})
	require.NoError(t, err)
	stored, err := w.store.Labs().GetByID(ctx, zeroAttendance.ID)
	require.NoError(t, err)
	require.Zero(t, stored.AttendanceMarks)
	require.Equal(t, 90, stored.MaxMarks())
}

func TestCatalogueIsCachedUntilWrite(t *testing.T) {
	w := newWorld(t)
	cache, mr := newRedisCache(t)
	svc := NewLabService(w.store, cache, nil, testValidator(), testLogger())
	ctx := context.Background()

	labs, err := svc.ListLabs(ctx)
	require.NoError(t, err)
	require.Len(t, labs, 1)
	require.True(t, mr.Exists(catalogListKey))

	detail, err := svc.GetLab(ctx, w.lab.ID)
	require.NoError(t, err)
	require.Len(t, detail.Practicals, 1)
	require.True(t, mr.Exists(catalogDetailKey+w.lab.ID))

	// A direct store write is invisible until the cache is invalidated.
	extra := models.Lab{SubjectName: "Compilers", SubjectCode: "CS401", TeacherID: w.teacher.ID, PracticalMarks: 100}
	require.NoError(t, w.store.Labs().Create(ctx, &extra))
	labs, err = svc.ListLabs(ctx)
	require.NoError(t, err)
	require.Len(t, labs, 1)

	_, err = svc.UpdateLab(ctx, w.teacherActor(), w.lab.ID, dto.LabPatch{SubjectName: strPtr("Operating Systems II")})
	require.NoError(t, err)
	require.False(t, mr.Exists(catalogListKey))
	require.False(t, mr.Exists(catalogDetailKey+w.lab.ID))

	labs, err = svc.ListLabs(ctx)
	require.NoError(t, err)
	require.Len(t, labs, 2)
}

func TestListTeacherLabsIncludesEnrollmentCounts(t *testing.T) {
	w := newWorld(t)
	w.enroll(t)
	svc := NewLabService(w.store, nil, nil, testValidator(), testLogger())

	labs, err := svc.ListTeacherLabs(context.Background(), w.teacher.ID)
	require.NoError(t, err)
	require.Len(t, labs, 1)
	require.NotNil(t, labs[0].EnrolledCount)
	require.EqualValues(t, 1, *labs[0].EnrolledCount)

	students, err := svc.ListLabStudents(context.Background(), w.lab.ID)
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.Equal(t, w.student.ID, students[0].ID)
}

func TestDeleteLabPolicy(t *testing.T) {
	w := newWorld(t)
	w.enroll(t)
	svc := NewLabService(w.store, nil, nil, testValidator(), testLogger())
	ctx := context.Background()

	err := svc.DeleteLab(ctx, w.teacherActor(), w.lab.ID)
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict), "got %v", err)

	require.NoError(t, NewEnrollmentService(w.store, nil, testLogger()).Leave(ctx, w.student.ID, w.lab.ID))
	require.NoError(t, svc.DeleteLab(ctx, w.teacherActor(), w.lab.ID))

	_, err = w.store.Labs().GetByID(ctx, w.lab.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = w.store.Practicals().GetByID(ctx, w.practical.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = svc.DeleteLab(ctx, w.teacherActor(), w.lab.ID)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
}

func TestDeletePracticalWithSubmissionsConflicts(t *testing.T) {
	w := newWorld(t)
	w.enroll(t)
	w.submit(t)
	svc := NewPracticalService(w.store, nil, nil, testValidator(), testLogger())

	err := svc.Delete(context.Background(), w.teacherActor(), w.practical.ID)
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict), "got %v", err)
	require.Equal(t, "practical has submissions", conflict.Reason)
}

func TestPracticalLifecycle(t *testing.T) {
	w := newWorld(t)
	svc := NewPracticalService(w.store, nil, nil, testValidator(), testLogger())
	ctx := context.Background()

	created, err := svc.Create(ctx, w.teacherActor(), w.lab.ID, dto.PracticalRequest{
		Title: "Paging", Deadline: time.Date(2024, 10, 1, 12, 0, 0, 0, time.FixedZone("IST", 19800)),
	})
	require.NoError(t, err)
	require.Equal(t, w.teacher.ID, created.TeacherID)
	require.Equal(t, time.UTC, created.Deadline.Location())

	updated, err := svc.Update(ctx, w.teacherActor(), created.ID, dto.PracticalPatch{Title: strPtr("Paging and TLBs")})
	require.NoError(t, err)
	require.Equal(t, "Paging and TLBs", updated.Title)

	list, err := svc.ListByLab(ctx, w.lab.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, svc.Delete(ctx, w.teacherActor(), created.ID))
}

func TestTimetableRejectsInvertedSlot(t *testing.T) {
	w := newWorld(t)
	svc := NewTimetableService(w.store, nil, nil, testValidator(), testLogger())
	ctx := context.Background()

	_, err := svc.Create(ctx, w.teacherActor(), w.lab.ID, dto.TimetableRequest{Day: "Monday", StartTime: "11:00", EndTime: "10:00"})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)

	slot, err := svc.Create(ctx, w.teacherActor(), w.lab.ID, dto.TimetableRequest{Day: "Monday", StartTime: "09:00", EndTime: "11:00", Room: "L2"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, w.teacherActor(), slot.ID, dto.TimetablePatch{EndTime: strPtr("08:00")})
	require.True(t, errors.As(err, &ve))

	require.NoError(t, svc.Delete(ctx, w.teacherActor(), slot.ID))
}

func TestNoticeContentIsSanitized(t *testing.T) {
	w := newWorld(t)
	svc := NewNoticeService(w.store, nil, nil, testValidator(), testLogger())
	ctx := context.Background()

	notice, err := svc.Create(ctx, w.teacherActor(), w.lab.ID, dto.NoticeRequest{Title: "Viva", Content: `<b>Friday</b><img src=x onerror=alert(1)>`})
	require.NoError(t, err)
	require.Contains(t, notice.Content, "<b>Friday</b>")
	require.NotContains(t, notice.Content, "onerror")

	notices, err := svc.ListByLab(ctx, w.lab.ID)
	require.NoError(t, err)
	require.Len(t, notices, 1)
}
