package models

import "time"

type MessageType string

const (
	MessageTypeAnnouncement MessageType = "announcement"
	MessageTypeAlert        MessageType = "alert"
	MessageTypeReminder     MessageType = "reminder"
	MessageTypeWarning      MessageType = "warning"
)

func ValidMessageType(t MessageType) bool {
	switch t {
	case MessageTypeAnnouncement, MessageTypeAlert, MessageTypeReminder, MessageTypeWarning:
		return true
	}
	return false
}

type TargetType string

const (
	TargetAll     TargetType = "all"
	TargetEvent   TargetType = "event"
	TargetSession TargetType = "session"
	TargetUser    TargetType = "user"
)

func ValidTargetType(t TargetType) bool {
	switch t {
	case TargetAll, TargetEvent, TargetSession, TargetUser:
		return true
	}
	return false
}

// Notification mirrors a nu_notifications row. Exactly one of EventID,
// SessionID and TargetUserID is set, matching TargetType (none for "all").
// Once IsActive is true the row is immutable.
type Notification struct {
	ID              int64
	FromAdminUserID int64
	Title           string
	Content         string
	MessageType     MessageType
	TargetType      TargetType
	EventID         *int64
	SessionID       *int64
	TargetUserID    *int64
	IsActive        bool
	PublishedAt     *time.Time
	CreatedAt       time.Time
}
