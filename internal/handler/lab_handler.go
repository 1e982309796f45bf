package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lab-manager-api/internal/service"
	"github.com/noah-isme/lab-manager-api/internal/utils"
)

// LabServices groups the services behind the public lab catalogue.
type LabServices struct {
	Labs       service.LabService
	Timetables service.TimetableService
	Practicals service.PracticalService
	Notices    service.NoticeService
	Access     service.AccessPolicy
}

// LabHandler serves the lab catalogue and per-lab listings.
type LabHandler struct {
	services LabServices
	logger   zerolog.Logger
}

// NewLabHandler builds a lab handler instance.
func NewLabHandler(services LabServices, logger zerolog.Logger) *LabHandler {
	return &LabHandler{
		services: services,
		logger:   logger.With().Str("component", "lab_handler").Logger(),
	}
}

// Register wires the routes below /api/labs. Roster reads require jwt.
func (h *LabHandler) Register(router fiber.Router, jwt fiber.Handler) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Get("/:id/timetable", h.timetable)
	router.Get("/:id/practicals", h.practicals)
	router.Get("/:id/notices", h.notices)
	router.Get("/:id/students", jwt, h.students)
}

func (h *LabHandler) list(c *fiber.Ctx) error {
	labs, err := h.services.Labs.ListLabs(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "labs retrieved", labs)
}

func (h *LabHandler) get(c *fiber.Ctx) error {
	lab, err := h.services.Labs.GetLab(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "lab retrieved", lab)
}

func (h *LabHandler) timetable(c *fiber.Ctx) error {
	slots, err := h.services.Timetables.ListByLab(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "timetable retrieved", slots)
}

func (h *LabHandler) practicals(c *fiber.Ctx) error {
	practicals, err := h.services.Practicals.ListByLab(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "practicals retrieved", practicals)
}

func (h *LabHandler) notices(c *fiber.Ctx) error {
	notices, err := h.services.Notices.ListByLab(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "notices retrieved", notices)
}

func (h *LabHandler) students(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	labID := c.Params("id")
	if err := h.services.Access.RequireLabOwner(c.UserContext(), actor, labID); err != nil {
		return respondError(c, h.logger, err)
	}

	students, err := h.services.Labs.ListLabStudents(c.UserContext(), labID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "lab students retrieved", students)
}
