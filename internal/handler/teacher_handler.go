package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lab-manager-api/internal/dto"
	"github.com/noah-isme/lab-manager-api/internal/middleware"
	"github.com/noah-isme/lab-manager-api/internal/service"
	"github.com/noah-isme/lab-manager-api/internal/utils"
)

// TeacherServices groups the services reachable from teacher routes.
type TeacherServices struct {
	Profiles   service.ProfileService
	Labs       service.LabService
	Timetables service.TimetableService
	Practicals service.PracticalService
	Notices    service.NoticeService
	Attendance service.AttendanceService
	Grading    service.GradingService
	Activity   service.ActivityService
	Access     service.AccessPolicy
}

// TeacherHandler exposes teacher profiles and lab administration.
type TeacherHandler struct {
	services  TeacherServices
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewTeacherHandler builds a teacher handler instance.
func NewTeacherHandler(services TeacherServices, validator *validator.Validate, logger zerolog.Logger) *TeacherHandler {
	return &TeacherHandler{
		services:  services,
		validator: validator,
		logger:    logger.With().Str("component", "teacher_handler").Logger(),
	}
}

// Register wires the routes below /api/teachers. The group must already require jwt.
func (h *TeacherHandler) Register(router fiber.Router) {
	router.Get("", middleware.WithAuth(h.list, middleware.AuthOptions{Role: middleware.AuthRoleAdmin}))
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Get("/:id/activity", h.activity)

	router.Get("/:id/labs", h.labs)
	router.Post("/:id/labs", h.createLab)
	router.Put("/:id/labs/:labId", h.updateLab)
	router.Delete("/:id/labs/:labId", h.deleteLab)
	router.Get("/:id/labs/:labId/students", h.labStudents)
	router.Post("/:id/labs/:labId/attendance", h.markAttendance)

	router.Post("/:id/labs/:labId/timetable", h.createTimetable)
	router.Put("/:id/timetable/:timetableId", h.updateTimetable)
	router.Delete("/:id/timetable/:timetableId", h.deleteTimetable)

	router.Post("/:id/labs/:labId/practicals", h.createPractical)
	router.Put("/:id/practicals/:practicalId", h.updatePractical)
	router.Delete("/:id/practicals/:practicalId", h.deletePractical)

	router.Post("/:id/labs/:labId/notices", h.createNotice)
	router.Put("/:id/notices/:noticeId", h.updateNotice)
	router.Delete("/:id/notices/:noticeId", h.deleteNotice)

	router.Post("/:id/submissions/:submissionId/grade", h.grade)
}

// owner resolves the actor for /:id routes. check, when set, verifies the
// addressed resource belongs to that actor.
func (h *TeacherHandler) owner(c *fiber.Ctx, check func(ctx context.Context, actor service.Actor) error) (service.Actor, error) {
	actor, err := actorFromContext(c)
	if err != nil {
		return service.Actor{}, err
	}
	if err := h.services.Access.RequireSelfTeacher(actor, c.Params("id")); err != nil {
		return service.Actor{}, err
	}
	if check != nil {
		if err := check(c.UserContext(), actor); err != nil {
			return service.Actor{}, err
		}
	}
	return actor, nil
}

func (h *TeacherHandler) ownsLab(c *fiber.Ctx) func(context.Context, service.Actor) error {
	return func(ctx context.Context, actor service.Actor) error {
		return h.services.Access.RequireLabOwner(ctx, actor, c.Params("labId"))
	}
}

func (h *TeacherHandler) list(c *fiber.Ctx) error {
	teachers, err := h.services.Profiles.ListTeachers(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "teachers retrieved", teachers)
}

func (h *TeacherHandler) get(c *fiber.Ctx) error {
	teacher, err := h.services.Profiles.GetTeacher(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "teacher retrieved", teacher)
}

func (h *TeacherHandler) update(c *fiber.Ctx) error {
	if _, err := h.owner(c, nil); err != nil {
		return respondError(c, h.logger, err)
	}
	var patch dto.TeacherPatch
	if err := decodeJSON(c, h.validator, &patch); err != nil {
		return respondError(c, h.logger, err)
	}

	teacher, err := h.services.Profiles.UpdateTeacher(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "teacher updated", teacher)
}

func (h *TeacherHandler) activity(c *fiber.Ctx) error {
	if _, err := h.owner(c, nil); err != nil {
		return respondError(c, h.logger, err)
	}
	var req dto.ActivityListRequest
	if err := c.QueryParser(&req); err != nil {
		return respondError(c, h.logger, errMalformedBody)
	}

	page, err := h.services.Activity.ListForActor(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.OK(c, page.Items, "activity retrieved", page.Pagination)
}

func (h *TeacherHandler) labs(c *fiber.Ctx) error {
	if _, err := h.owner(c, nil); err != nil {
		return respondError(c, h.logger, err)
	}
	labs, err := h.services.Labs.ListTeacherLabs(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "labs retrieved", labs)
}

func (h *TeacherHandler) createLab(c *fiber.Ctx) error {
	actor, err := h.owner(c, nil)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var req dto.LabCreateRequest
	if err := decodeJSON(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	lab, err := h.services.Labs.CreateLab(c.UserContext(), actor, c.Params("id"), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "lab created", lab)
}

func (h *TeacherHandler) updateLab(c *fiber.Ctx) error {
	actor, err := h.owner(c, h.ownsLab(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var patch dto.LabPatch
	if err := decodeJSON(c, h.validator, &patch); err != nil {
		return respondError(c, h.logger, err)
	}

	lab, err := h.services.Labs.UpdateLab(c.UserContext(), actor, c.Params("labId"), patch)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "lab updated", lab)
}

func (h *TeacherHandler) deleteLab(c *fiber.Ctx) error {
	actor, err := h.owner(c, h.ownsLab(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if err := h.services.Labs.DeleteLab(c.UserContext(), actor, c.Params("labId")); err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "lab deleted", nil)
}

func (h *TeacherHandler) labStudents(c *fiber.Ctx) error {
	if _, err := h.owner(c, h.ownsLab(c)); err != nil {
		return respondError(c, h.logger, err)
	}
	students, err := h.services.Labs.ListLabStudents(c.UserContext(), c.Params("labId"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "lab students retrieved", students)
}

func (h *TeacherHandler) markAttendance(c *fiber.Ctx) error {
	actor, err := h.owner(c, h.ownsLab(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var req dto.MarkAttendanceRequest
	if err := decodeJSON(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	record, err := h.services.Attendance.Mark(c.UserContext(), actor, c.Params("labId"), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "attendance marked", record)
}

func (h *TeacherHandler) createTimetable(c *fiber.Ctx) error {
	actor, err := h.owner(c, h.ownsLab(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var req dto.TimetableRequest
	if err := decodeJSON(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	slot, err := h.services.Timetables.Create(c.UserContext(), actor, c.Params("labId"), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "timetable slot created", slot)
}

func (h *TeacherHandler) updateTimetable(c *fiber.Ctx) error {
	actor, err := h.owner(c, func(ctx context.Context, actor service.Actor) error {
		return h.services.Access.RequireTimetableOwner(ctx, actor, c.Params("timetableId"))
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var patch dto.TimetablePatch
	if err := decodeJSON(c, h.validator, &patch); err != nil {
		return respondError(c, h.logger, err)
	}

	slot, err := h.services.Timetables.Update(c.UserContext(), actor, c.Params("timetableId"), patch)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "timetable slot updated", slot)
}

func (h *TeacherHandler) deleteTimetable(c *fiber.Ctx) error {
	actor, err := h.owner(c, func(ctx context.Context, actor service.Actor) error {
		return h.services.Access.RequireTimetableOwner(ctx, actor, c.Params("timetableId"))
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if err := h.services.Timetables.Delete(c.UserContext(), actor, c.Params("timetableId")); err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "timetable slot deleted", nil)
}

func (h *TeacherHandler) createPractical(c *fiber.Ctx) error {
	actor, err := h.owner(c, h.ownsLab(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var req dto.PracticalRequest
	if err := decodeJSON(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	practical, err := h.services.Practicals.Create(c.UserContext(), actor, c.Params("labId"), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "practical created", practical)
}

func (h *TeacherHandler) updatePractical(c *fiber.Ctx) error {
	actor, err := h.owner(c, func(ctx context.Context, actor service.Actor) error {
		return h.services.Access.RequirePracticalOwner(ctx, actor, c.Params("practicalId"))
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var patch dto.PracticalPatch
	if err := decodeJSON(c, h.validator, &patch); err != nil {
		return respondError(c, h.logger, err)
	}

	practical, err := h.services.Practicals.Update(c.UserContext(), actor, c.Params("practicalId"), patch)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "practical updated", practical)
}

func (h *TeacherHandler) deletePractical(c *fiber.Ctx) error {
	actor, err := h.owner(c, func(ctx context.Context, actor service.Actor) error {
		return h.services.Access.RequirePracticalOwner(ctx, actor, c.Params("practicalId"))
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if err := h.services.Practicals.Delete(c.UserContext(), actor, c.Params("practicalId")); err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "practical deleted", nil)
}

func (h *TeacherHandler) createNotice(c *fiber.Ctx) error {
	actor, err := h.owner(c, h.ownsLab(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var req dto.NoticeRequest
	if err := decodeJSON(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	notice, err := h.services.Notices.Create(c.UserContext(), actor, c.Params("labId"), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "notice created", notice)
}

func (h *TeacherHandler) updateNotice(c *fiber.Ctx) error {
	actor, err := h.owner(c, func(ctx context.Context, actor service.Actor) error {
		return h.services.Access.RequireNoticeOwner(ctx, actor, c.Params("noticeId"))
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var patch dto.NoticePatch
	if err := decodeJSON(c, h.validator, &patch); err != nil {
		return respondError(c, h.logger, err)
	}

	notice, err := h.services.Notices.Update(c.UserContext(), actor, c.Params("noticeId"), patch)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "notice updated", notice)
}

func (h *TeacherHandler) deleteNotice(c *fiber.Ctx) error {
	actor, err := h.owner(c, func(ctx context.Context, actor service.Actor) error {
		return h.services.Access.RequireNoticeOwner(ctx, actor, c.Params("noticeId"))
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if err := h.services.Notices.Delete(c.UserContext(), actor, c.Params("noticeId")); err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "notice deleted", nil)
}

func (h *TeacherHandler) grade(c *fiber.Ctx) error {
	actor, err := h.owner(c, func(ctx context.Context, actor service.Actor) error {
		return h.services.Access.RequireSubmissionOwner(ctx, actor, c.Params("submissionId"))
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var req dto.GradeSubmissionRequest
	if err := decodeJSON(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	mark, err := h.services.Grading.GradeSubmission(c.UserContext(), actor, c.Params("submissionId"), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "submission graded", mark)
}
