package service

import (
	"context"

	"github.com/noah-isme/lab-manager-api/internal/models"
	"github.com/noah-isme/lab-manager-api/internal/repository"
)

// AccessPolicy answers ownership questions before a domain operation runs.
// Resource checks report NotFoundError for missing resources and ErrForbidden otherwise.
type AccessPolicy interface {
	RequireSelfStudent(actor Actor, studentID string) error
	RequireSelfTeacher(actor Actor, teacherID string) error
	RequireLabOwner(ctx context.Context, actor Actor, labID string) error
	RequirePracticalOwner(ctx context.Context, actor Actor, practicalID string) error
	RequireNoticeOwner(ctx context.Context, actor Actor, noticeID string) error
	RequireTimetableOwner(ctx context.Context, actor Actor, timetableID string) error
	RequireSubmissionOwner(ctx context.Context, actor Actor, submissionID string) error
}

type accessPolicy struct {
	store repository.Store
}

// NewAccessPolicy constructs the ownership policy over the store.
func NewAccessPolicy(store repository.Store) AccessPolicy {
	return &accessPolicy{store: store}
}

// RequireSelfStudent lets students act only on themselves; staff may read anyone.
func (p *accessPolicy) RequireSelfStudent(actor Actor, studentID string) error {
	switch actor.Role {
	case models.RoleStudent:
		if actor.ProfileID != "" && actor.ProfileID == studentID {
			return nil
		}
		return ErrForbidden
	case models.RoleTeacher, models.RoleAdmin:
		return nil
	default:
		return ErrUnauthorized
	}
}

func (p *accessPolicy) RequireSelfTeacher(actor Actor, teacherID string) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleTeacher:
		if actor.ProfileID != "" && actor.ProfileID == teacherID {
			return nil
		}
		return ErrForbidden
	case models.RoleStudent:
		return ErrForbidden
	default:
		return ErrUnauthorized
	}
}

func (p *accessPolicy) RequireLabOwner(ctx context.Context, actor Actor, labID string) error {
	lab, err := p.store.Labs().GetByID(ctx, labID)
	if err != nil {
		return lookupErr("lab", err)
	}
	return ownedBy(actor, lab.TeacherID)
}

func (p *accessPolicy) RequirePracticalOwner(ctx context.Context, actor Actor, practicalID string) error {
	practical, err := p.store.Practicals().GetByID(ctx, practicalID)
	if err != nil {
		return lookupErr("practical", err)
	}
	return ownedBy(actor, practical.Lab.TeacherID)
}

func (p *accessPolicy) RequireNoticeOwner(ctx context.Context, actor Actor, noticeID string) error {
	notice, err := p.store.Notices().GetByID(ctx, noticeID)
	if err != nil {
		return lookupErr("notice", err)
	}
	return p.RequireLabOwner(ctx, actor, notice.LabID)
}

func (p *accessPolicy) RequireTimetableOwner(ctx context.Context, actor Actor, timetableID string) error {
	slot, err := p.store.Timetables().GetByID(ctx, timetableID)
	if err != nil {
		return lookupErr("timetable", err)
	}
	return p.RequireLabOwner(ctx, actor, slot.LabID)
}

func (p *accessPolicy) RequireSubmissionOwner(ctx context.Context, actor Actor, submissionID string) error {
	submission, err := p.store.Submissions().GetByID(ctx, submissionID)
	if err != nil {
		return lookupErr("submission", err)
	}
	return ownedBy(actor, submission.Practical.Lab.TeacherID)
}

func ownedBy(actor Actor, teacherID string) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleTeacher:
		if actor.ProfileID != "" && actor.ProfileID == teacherID {
			return nil
		}
	}
	return ErrForbidden
}
