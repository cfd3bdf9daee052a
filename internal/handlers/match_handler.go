package handlers

import (
	"secret-santa-backend/internal/middleware"
	"secret-santa-backend/internal/services"
	"secret-santa-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// RequestMatchRequest carries no validate tags: the matching engine owns the
// missing-field check so the wire error code stays stable.
type RequestMatchRequest struct {
	Email  string `json:"email"`
	QRCode string `json:"qr_code"`
	QRData string `json:"qr_data"`
}

// RequestMatch reveals the caller's Secret Santa assignment. The QR fields
// are optional: qr_code carries a bare token code, qr_data the URL-encoded
// payload lifted straight from a scanned link.
func (h *Handler) RequestMatch(c *fiber.Ctx) error {
	var req RequestMatchRequest
	if err := middleware.ParseAndValidate(c, &req); err != nil {
		return err
	}

	qrCode := req.QRCode
	if qrCode == "" && req.QRData != "" {
		payload, err := utils.DecodeScanData(req.QRData)
		if err != nil {
			return utils.ErrorWithCode(c, "This QR code could not be read",
				string(services.ErrInvalidQR), fiber.StatusNotFound)
		}
		qrCode = payload.ID
	}

	result, err := h.matchSvc.RequestMatch(services.MatchRequest{
		Email:  req.Email,
		QRCode: qrCode,
	})
	if err != nil {
		return matchErrorResponse(c, err)
	}

	return utils.Success(c, result, "Match recorded successfully")
}

func matchErrorResponse(c *fiber.Ctx, err error) error {
	code := services.GetMatchErrorCode(err)

	status := fiber.StatusInternalServerError
	message := "Something went wrong"

	switch code {
	case services.ErrMissingFields:
		status = fiber.StatusBadRequest
		message = "Missing required fields"
	case services.ErrInvalidEmail:
		status = fiber.StatusNotFound
		message = "This email is not registered for Secret Santa"
	case services.ErrInvalidQR:
		status = fiber.StatusNotFound
		message = "This QR code is not recognized"
	case services.ErrQRUsed:
		status = fiber.StatusForbidden
		message = "This QR code has already been used"
	case services.ErrAlreadyScanned:
		status = fiber.StatusForbidden
		message = "You have already participated in Secret Santa"
	case services.ErrNoSantas:
		status = fiber.StatusConflict
		message = "All Secret Santa matches have been assigned"
	default:
		code = services.ErrServerError
		logrus.WithError(err).Error("match request failed")
	}

	return utils.ErrorWithCode(c, message, string(code), status)
}
