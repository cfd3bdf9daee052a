package handlers

import (
	"secret-santa-backend/internal/config"
	"secret-santa-backend/internal/middleware"
	"secret-santa-backend/internal/services"
	"secret-santa-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	matchSvc  services.MatchService
	adminSvc  *services.AdminService
	reportSvc *services.ReportService
	cfg       *config.Config
}

func NewHandler(
	matchSvc services.MatchService,
	adminSvc *services.AdminService,
	reportSvc *services.ReportService,
	cfg *config.Config,
) *Handler {
	return &Handler{
		matchSvc:  matchSvc,
		adminSvc:  adminSvc,
		reportSvc: reportSvc,
		cfg:       cfg,
	}
}

func (h *Handler) RegisterRoutes(router fiber.Router) {
	// Public routes
	router.Post("/match", h.RequestMatch)
	router.Get("/progress", h.GetProgress)

	admin := router.Group("/admin")
	admin.Post("/login", h.AdminLogin)

	// Protected admin routes (JWT required)
	protected := admin.Group("", middleware.JWTMiddleware(h.cfg), middleware.AdminOnly)
	{
		protected.Post("/registrants", h.AddRegistrant)
		protected.Get("/registrants", h.ListRegistrants)
		protected.Post("/santas", h.AddSanta)
		protected.Get("/santas", h.ListSantas)
		protected.Post("/qrcodes", h.IssueQRCode)
		protected.Get("/qrcodes", h.ListQRCodes)
		protected.Delete("/data", h.ClearData)
	}
}

// ErrorHandler handles global errors
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	if code >= 500 {
		logrus.WithError(err).Error("unhandled request error")
		return utils.ErrorWithCode(c, message, string(services.ErrServerError), code)
	}

	return utils.Error(c, message, code)
}
