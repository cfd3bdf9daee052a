package models

import (
	"time"

	"github.com/google/uuid"
)

// RegistrantEmail is an admin-seeded identity that is allowed to request a
// Secret Santa match. Emails are stored trimmed and lower-cased.
type RegistrantEmail struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// SantaIdentity is an assignable giftee identity. Assigned flips to true
// exactly once, when the matching engine claims it for a registrant.
type SantaIdentity struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name         string     `gorm:"uniqueIndex;not null" json:"name"`
	ContactEmail string     `json:"contact_email"`
	Assigned     bool       `gorm:"default:false;not null" json:"assigned"`
	AssignedTo   string     `json:"assigned_to,omitempty"`
	AssignedAt   *time.Time `json:"assigned_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// MatchRecord is the append-only ledger of completed pairings. The unique
// index on RegistrantEmail backs the one-match-per-registrant rule.
type MatchRecord struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RegistrantEmail string    `gorm:"uniqueIndex;not null" json:"registrant_email"`
	SantaID         uuid.UUID `gorm:"type:uuid;index;not null" json:"santa_id"`
	SantaName       string    `gorm:"not null" json:"santa_name"`
	MatchedAt       time.Time `json:"matched_at"`
	CreatedAt       time.Time `json:"created_at"`
}

// QRToken is an admin-issued one-time redemption token embedded in a printed
// QR code. UsedAt is set at most once, by conditional update.
type QRToken struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code      string     `gorm:"uniqueIndex;not null" json:"code"`
	ImagePath string     `json:"image_path"`
	UsedBy    string     `json:"used_by,omitempty"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
