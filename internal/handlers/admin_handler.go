package handlers

import (
	"errors"

	"secret-santa-backend/internal/middleware"
	"secret-santa-backend/internal/services"
	"secret-santa-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AdminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type AddRegistrantRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type AddSantaRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=100"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
}

// AdminLogin exchanges the organizer password for a session token.
func (h *Handler) AdminLogin(c *fiber.Ctx) error {
	var req AdminLoginRequest
	if err := middleware.ParseAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.adminSvc.Login(req.Password)
	if err != nil {
		return utils.ErrorWithCode(c, "Invalid password", "invalid_password", fiber.StatusUnauthorized)
	}

	return utils.Success(c, resp, "Login successful")
}

func (h *Handler) AddRegistrant(c *fiber.Ctx) error {
	var req AddRegistrantRequest
	if err := middleware.ParseAndValidate(c, &req); err != nil {
		return err
	}

	registrant, err := h.adminSvc.AddRegistrant(req.Email)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEntry) {
			return utils.Error(c, "Email already exists", fiber.StatusConflict)
		}
		return utils.Error(c, err.Error(), fiber.StatusBadRequest)
	}

	return utils.Success(c, registrant, "Email added", fiber.StatusCreated)
}

func (h *Handler) ListRegistrants(c *fiber.Ctx) error {
	registrants, err := h.adminSvc.ListRegistrants()
	if err != nil {
		return utils.Error(c, "Failed to fetch registrants", fiber.StatusInternalServerError)
	}

	return utils.Success(c, registrants, "Registrants retrieved successfully")
}

func (h *Handler) AddSanta(c *fiber.Ctx) error {
	var req AddSantaRequest
	if err := middleware.ParseAndValidate(c, &req); err != nil {
		return err
	}

	santa, err := h.adminSvc.AddSanta(req.Name, req.ContactEmail)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEntry) {
			return utils.Error(c, "Santa name already exists", fiber.StatusConflict)
		}
		return utils.Error(c, err.Error(), fiber.StatusBadRequest)
	}

	return utils.Success(c, santa, "Santa name added", fiber.StatusCreated)
}

func (h *Handler) ListSantas(c *fiber.Ctx) error {
	santas, err := h.adminSvc.ListSantas()
	if err != nil {
		return utils.Error(c, "Failed to fetch santas", fiber.StatusInternalServerError)
	}

	return utils.Success(c, santas, "Santa names retrieved successfully")
}

func (h *Handler) IssueQRCode(c *fiber.Ctx) error {
	token, err := h.adminSvc.IssueQRToken()
	if err != nil {
		return utils.Error(c, "Failed to issue QR code", fiber.StatusInternalServerError)
	}

	return utils.Success(c, token, "QR code issued", fiber.StatusCreated)
}

func (h *Handler) ListQRCodes(c *fiber.Ctx) error {
	tokens, err := h.adminSvc.ListQRTokens()
	if err != nil {
		return utils.Error(c, "Failed to fetch QR codes", fiber.StatusInternalServerError)
	}

	return utils.Success(c, tokens, "QR codes retrieved successfully")
}

// ClearData bulk-resets by scope: emails, santas, matches, or all.
func (h *Handler) ClearData(c *fiber.Ctx) error {
	scope := c.Query("scope")
	if scope == "" {
		return utils.Error(c, "scope is required: emails, santas, matches, or all", fiber.StatusBadRequest)
	}

	if err := h.adminSvc.Clear(scope); err != nil {
		if errors.Is(err, services.ErrInvalidScope) {
			return utils.Error(c, "Invalid scope: must be emails, santas, matches, or all", fiber.StatusBadRequest)
		}
		return utils.Error(c, "Failed to clear data", fiber.StatusInternalServerError)
	}

	return utils.Success(c, nil, "Data cleared")
}
