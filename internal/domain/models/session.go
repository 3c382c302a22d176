package models

import (
	"time"

	"github.com/Temutjin2k/navigator/internal/domain/types"
)

// SessionSnapshot is a point-in-time view of a session client.
type SessionSnapshot struct {
	State       types.SessionState `json:"state"`
	SessionID   uint64             `json:"session_id"`
	UserID      string             `json:"user_id,omitempty"`
	Connected   bool               `json:"connected"`
	Attempts    int                `json:"attempts"`
	PendingTrip *PendingTrip       `json:"pending_trip,omitempty"`
	LastError   string             `json:"last_error,omitempty"`
}

// PendingTrip is a startTrip that has not been answered with a tripPath yet.
type PendingTrip struct {
	ID        string    `json:"id"`
	Priority  int       `json:"priority"`
	StartedAt time.Time `json:"started_at"`
}
