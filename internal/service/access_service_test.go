package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lab-manager-api/internal/models"
)

func TestAccessPolicyOwnership(t *testing.T) {
	w := newWorld(t)
	w.enroll(t)
	submission := w.submit(t)
	policy := NewAccessPolicy(w.store)
	ctx := context.Background()

	other := models.Teacher{UserID: "user-other", Name: "Dr. Rao"}
	require.NoError(t, w.store.Teachers().Create(ctx, &other))
	stranger := Actor{UserID: other.UserID, Role: models.RoleTeacher, ProfileID: other.ID}
	admin := Actor{UserID: "user-admin", Role: models.RoleAdmin}

	require.NoError(t, policy.RequireLabOwner(ctx, w.teacherActor(), w.lab.ID))
	require.NoError(t, policy.RequireLabOwner(ctx, admin, w.lab.ID))
	require.ErrorIs(t, policy.RequireLabOwner(ctx, stranger, w.lab.ID), ErrForbidden)
	require.ErrorIs(t, policy.RequireLabOwner(ctx, w.studentActor(), w.lab.ID), ErrForbidden)

	require.NoError(t, policy.RequirePracticalOwner(ctx, w.teacherActor(), w.practical.ID))
	require.ErrorIs(t, policy.RequireSubmissionOwner(ctx, stranger, submission.ID), ErrForbidden)

	var nf *NotFoundError
	require.True(t, errors.As(policy.RequireLabOwner(ctx, w.teacherActor(), "ghost"), &nf))
}

func TestAccessPolicySelfChecks(t *testing.T) {
	policy := NewAccessPolicy(nil)
	student := Actor{UserID: "u1", Role: models.RoleStudent, ProfileID: "s1"}
	teacher := Actor{UserID: "u2", Role: models.RoleTeacher, ProfileID: "t1"}

	require.NoError(t, policy.RequireSelfStudent(student, "s1"))
	require.ErrorIs(t, policy.RequireSelfStudent(student, "s2"), ErrForbidden)
	require.NoError(t, policy.RequireSelfStudent(teacher, "s2"))
	require.ErrorIs(t, policy.RequireSelfStudent(Actor{}, "s1"), ErrUnauthorized)

	require.NoError(t, policy.RequireSelfTeacher(teacher, "t1"))
	require.ErrorIs(t, policy.RequireSelfTeacher(teacher, "t2"), ErrForbidden)
	require.ErrorIs(t, policy.RequireSelfTeacher(student, "t1"), ErrForbidden)
}
