package models

import (
	"encoding/json"
	"time"
)

// RouteUpdate carries a tripPath payload. Payload is forwarded verbatim and never interpreted.
type RouteUpdate struct {
	Payload    json.RawMessage `json:"route"`
	UserID     string          `json:"user_id,omitempty"`
	TripID     string          `json:"trip_id,omitempty"`
	ReceivedAt time.Time       `json:"received_at"`
}

// RabbitMQ message: navigator → navigation_topic exchange
type NavigationEventMessage struct {
	Type      string          `json:"type"`
	UserID    string          `json:"user_id,omitempty"`
	Loading   *bool           `json:"loading,omitempty"`
	Route     json.RawMessage `json:"route,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}
