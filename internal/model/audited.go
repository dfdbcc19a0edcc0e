package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditedRecord carries the identity and audit timestamps shared by persisted records.
type AuditedRecord struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	DateCreated time.Time `gorm:"not null;index" json:"dateCreated"`
	LastUpdated time.Time `gorm:"not null" json:"lastUpdated"`
}

// Stamp applies a mutation at the given instant. A missing ID is generated and a
// zero DateCreated is set once; LastUpdated is always refreshed and never earlier
// than DateCreated. Timestamps are kept in UTC with microsecond precision, which is
// what every supported database stores losslessly.
func (a *AuditedRecord) Stamp(now time.Time) {
	now = Timestamp(now)
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.DateCreated.IsZero() {
		a.DateCreated = now
	} else {
		a.DateCreated = Timestamp(a.DateCreated)
	}
	if now.Before(a.DateCreated) {
		now = a.DateCreated
	}
	a.LastUpdated = now
}

// Timestamp normalizes t to the precision persisted for audit fields.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
