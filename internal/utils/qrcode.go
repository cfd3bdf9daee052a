package utils

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

// ScanPayload is the JSON document embedded in a printed QR code. The scan
// page decodes it and submits the id with the registrant's email.
type ScanPayload struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
}

// NewTokenCode returns a fresh redemption code for a QR token.
func NewTokenCode() string {
	return uuid.New().String()
}

// BuildScanURL URL-encodes the {id, timestamp} payload into the public scan
// page address.
func BuildScanURL(baseURL, code string, issuedAt time.Time) (string, error) {
	payload, err := json.Marshal(ScanPayload{
		ID:        code,
		Timestamp: issuedAt.UnixMilli(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode QR payload: %w", err)
	}

	return fmt.Sprintf("%s/scan?data=%s", baseURL, url.QueryEscape(string(payload))), nil
}

// DecodeScanData parses the URL-encoded payload back into its parts.
func DecodeScanData(data string) (*ScanPayload, error) {
	raw, err := url.QueryUnescape(data)
	if err != nil {
		return nil, fmt.Errorf("invalid QR payload encoding: %w", err)
	}

	var payload ScanPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("invalid QR payload: %w", err)
	}
	if payload.ID == "" {
		return nil, fmt.Errorf("QR payload missing id")
	}

	return &payload, nil
}

func GenerateQRCodeImage(content, dirPath string) (string, error) {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create QR directory: %w", err)
	}

	filename := fmt.Sprintf("%s.png", uuid.New().String())
	fullPath := filepath.Join(dirPath, filename)

	if err := qrcode.WriteFile(content, qrcode.Medium, 256, fullPath); err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}

	return filename, nil
}
