package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lab-manager-api/internal/dto"
	"github.com/noah-isme/lab-manager-api/internal/middleware"
	"github.com/noah-isme/lab-manager-api/internal/models"
	"github.com/noah-isme/lab-manager-api/internal/service"
	"github.com/noah-isme/lab-manager-api/internal/utils"
)

// StudentServices groups the services reachable from student routes.
type StudentServices struct {
	Profiles    service.ProfileService
	Enrollments service.EnrollmentService
	Submissions service.SubmissionService
	Attendance  service.AttendanceService
	Grading     service.GradingService
	Access      service.AccessPolicy
}

// StudentHandler exposes student profiles, enrollment, submissions and standing.
type StudentHandler struct {
	services  StudentServices
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewStudentHandler builds a student handler instance.
func NewStudentHandler(services StudentServices, validator *validator.Validate, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		services:  services,
		validator: validator,
		logger:    logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register wires the routes below /api/students. The group must already require jwt.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("", middleware.WithAuth(h.list, middleware.AuthOptions{Role: middleware.AuthRoleTeacher}))
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Post("/:id/enroll", h.enroll)
	router.Delete("/:id/leave/:labId", h.leave)
	router.Get("/:id/labs", h.labs)
	router.Get("/:id/attendance/:labId", h.attendance)
	router.Get("/:id/submissions", h.submissions)
	router.Post("/:id/submit", h.submit)
	router.Get("/:id/marks/:labId", h.marks)
}

// reader admits the student themselves and staff.
func (h *StudentHandler) reader(c *fiber.Ctx) (string, error) {
	actor, err := actorFromContext(c)
	if err != nil {
		return "", err
	}
	studentID := c.Params("id")
	return studentID, h.services.Access.RequireSelfStudent(actor, studentID)
}

// self admits only the student the path names.
func (h *StudentHandler) self(c *fiber.Ctx) (string, error) {
	actor, err := actorFromContext(c)
	if err != nil {
		return "", err
	}
	studentID := c.Params("id")
	if actor.Role != models.RoleStudent {
		return "", service.ErrForbidden
	}
	return studentID, h.services.Access.RequireSelfStudent(actor, studentID)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	students, err := h.services.Profiles.ListStudents(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "students retrieved", students)
}

func (h *StudentHandler) get(c *fiber.Ctx) error {
	studentID, err := h.reader(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	student, err := h.services.Profiles.GetStudent(c.UserContext(), studentID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *StudentHandler) update(c *fiber.Ctx) error {
	studentID, err := h.self(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var patch dto.StudentPatch
	if err := decodeJSON(c, h.validator, &patch); err != nil {
		return respondError(c, h.logger, err)
	}

	student, err := h.services.Profiles.UpdateStudent(c.UserContext(), studentID, patch)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "student updated", student)
}

func (h *StudentHandler) enroll(c *fiber.Ctx) error {
	studentID, err := h.self(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var req dto.EnrollRequest
	if err := decodeJSON(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	enrollment, err := h.services.Enrollments.Enroll(c.UserContext(), studentID, req.LabID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "enrolled", enrollment)
}

func (h *StudentHandler) leave(c *fiber.Ctx) error {
	studentID, err := h.self(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if err := h.services.Enrollments.Leave(c.UserContext(), studentID, c.Params("labId")); err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "left lab", nil)
}

func (h *StudentHandler) labs(c *fiber.Ctx) error {
	studentID, err := h.reader(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	labs, err := h.services.Enrollments.ListStudentLabs(c.UserContext(), studentID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "labs retrieved", labs)
}

func (h *StudentHandler) attendance(c *fiber.Ctx) error {
	studentID, err := h.reader(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	report, err := h.services.Attendance.StudentAttendance(c.UserContext(), studentID, c.Params("labId"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "attendance retrieved", report)
}

func (h *StudentHandler) submissions(c *fiber.Ctx) error {
	studentID, err := h.reader(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	submissions, err := h.services.Submissions.ListStudentSubmissions(c.UserContext(), studentID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

func (h *StudentHandler) submit(c *fiber.Ctx) error {
	studentID, err := h.self(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var req dto.SubmitRequest
	if err := decodeJSON(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	submission, err := h.services.Submissions.Submit(c.UserContext(), studentID, req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission stored", submission)
}

func (h *StudentHandler) marks(c *fiber.Ctx) error {
	studentID, err := h.reader(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	summary, err := h.services.Grading.StudentLabSummary(c.UserContext(), studentID, c.Params("labId"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "marks retrieved", summary)
}
