package models

import "time"

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusPublished EventStatus = "published"
	EventStatusArchived  EventStatus = "archived"
)

// ValidInitialStatus reports whether a caller may create an event in the
// given status. Published and archived are reachable only through their
// explicit transitions.
func ValidInitialStatus(s EventStatus) bool {
	switch s {
	case EventStatusDraft, EventStatusUpcoming, EventStatusOngoing:
		return true
	}
	return false
}

type Event struct {
	ID            int64
	Name          string
	Description   *string
	StartDatetime time.Time
	EndDatetime   time.Time
	Status        EventStatus
	HostUserID    int64
	CreatedAt     time.Time
	Sessions      []Session
}

type Session struct {
	ID         int64
	EventID    int64
	Topic      *string
	SpeakerID  *int64
	Date       time.Time
	StartTime  string
	EndTime    string
	BuildingID int64
	FloorID    int64
	RoomID     int64
	Room       *Room
}
