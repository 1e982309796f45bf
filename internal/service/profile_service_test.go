package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lab-manager-api/internal/dto"
)

func TestUpdateStudentAppliesOnlyProvidedFields(t *testing.T) {
	w := newWorld(t)
	svc := NewProfileService(w.store, testValidator(), testLogger())
	ctx := context.Background()

	updated, err := svc.UpdateStudent(ctx, w.student.ID, dto.StudentPatch{
		PhoneNumber: strPtr("  +91-9000000000 "),
		Semester:    intPtr(6),
	})
	require.NoError(t, err)
	require.Equal(t, "+91-9000000000", updated.PhoneNumber)
	require.Equal(t, 6, updated.Semester)
	require.Equal(t, "Ravi", updated.Name)
	require.Equal(t, "CS-17", updated.RollNo)

	stored, err := svc.GetStudent(ctx, w.student.ID)
	require.NoError(t, err)
	require.Equal(t, 6, stored.Semester)
}

func TestUpdateStudentRejectsOutOfRangeSemester(t *testing.T) {
	w := newWorld(t)
	svc := NewProfileService(w.store, testValidator(), testLogger())

	_, err := svc.UpdateStudent(context.Background(), w.student.ID, dto.StudentPatch{Semester: intPtr(13)})
	require.Error(t, err)

	stored, err := svc.GetStudent(context.Background(), w.student.ID)
	require.NoError(t, err)
	require.Equal(t, 5, stored.Semester)
}

func TestUpdateTeacherAndMissingProfiles(t *testing.T) {
	w := newWorld(t)
	svc := NewProfileService(w.store, testValidator(), testLogger())
	ctx := context.Background()

	updated, err := svc.UpdateTeacher(ctx, w.teacher.ID, dto.TeacherPatch{Department: strPtr("Computer Science")})
	require.NoError(t, err)
	require.Equal(t, "Computer Science", updated.Department)
	require.Equal(t, "Dr. Mehta", updated.Name)

	_, err = svc.GetTeacher(ctx, "missing")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "teacher", nf.Entity)

	_, err = svc.UpdateStudent(ctx, "missing", dto.StudentPatch{Name: strPtr("Nobody")})
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "student", nf.Entity)

	teachers, err := svc.ListTeachers(ctx)
	require.NoError(t, err)
	require.Len(t, teachers, 1)
}
