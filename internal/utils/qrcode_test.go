package utils

import (
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestBuildScanURLRoundTrip(t *testing.T) {
	issuedAt := time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC)

	scanURL, err := BuildScanURL("https://santa.example.com", "tok-1", issuedAt)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.HasPrefix(scanURL, "https://santa.example.com/scan?data=") {
		t.Fatalf("unexpected URL %q", scanURL)
	}

	parsed, err := url.Parse(scanURL)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	// The scan page hands the raw data parameter back to the API.
	payload, err := DecodeScanData(url.QueryEscape(parsed.Query().Get("data")))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.ID != "tok-1" {
		t.Errorf("ID: want tok-1, got %q", payload.ID)
	}
	if payload.Timestamp != issuedAt.UnixMilli() {
		t.Errorf("Timestamp: want %d, got %d", issuedAt.UnixMilli(), payload.Timestamp)
	}
}

func TestDecodeScanData_Invalid(t *testing.T) {
	cases := map[string]string{
		"not json":    url.QueryEscape("hello"),
		"missing id":  url.QueryEscape(`{"timestamp":123}`),
		"bad escape":  "%zz",
		"empty input": "",
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeScanData(data); err == nil {
				t.Fatalf("expected error for %q", data)
			}
		})
	}
}
