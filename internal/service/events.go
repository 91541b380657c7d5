package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"eventdesk/api/internal/models"
	"eventdesk/api/internal/repository"
)

type EventStore interface {
	Create(ctx context.Context, event models.Event, sessions []models.Session) (int64, error)
	ListActive(ctx context.Context) ([]models.Event, error)
	GetActive(ctx context.Context, id int64) (models.Event, error)
	GetStatus(ctx context.Context, id int64) (models.EventStatus, error)
	TransitionStatus(ctx context.Context, id int64, to models.EventStatus) (bool, error)
	SessionsWithVenue(ctx context.Context, eventID int64) ([]models.Session, error)
}

type UserDirectory interface {
	ListByIDs(ctx context.Context, ids []int64) ([]models.User, error)
}

type EventService struct {
	events EventStore
	users  UserDirectory
	log    zerolog.Logger
}

func NewEventService(events EventStore, users UserDirectory, log zerolog.Logger) *EventService {
	return &EventService{events: events, users: users, log: log}
}

type SessionInput struct {
	Topic      *string
	SpeakerID  *int64
	Date       time.Time
	StartTime  string
	EndTime    string
	BuildingID int64
	FloorID    int64
	RoomID     int64
}

type CreateEventInput struct {
	Name          string
	Description   *string
	StartDatetime time.Time
	EndDatetime   time.Time
	Status        models.EventStatus
	Sessions      []SessionInput
}

func (s *EventService) Create(ctx context.Context, input CreateEventInput, actor models.User) (int64, error) {
	status := input.Status
	if status == "" {
		status = models.EventStatusDraft
	}
	if !models.ValidInitialStatus(status) {
		return 0, fmt.Errorf("%w: invalid initial status %q", ErrValidation, status)
	}

	event := models.Event{
		Name:          input.Name,
		Description:   input.Description,
		StartDatetime: input.StartDatetime,
		EndDatetime:   input.EndDatetime,
		Status:        status,
		HostUserID:    actor.ID,
	}

	sessions := make([]models.Session, 0, len(input.Sessions))
	for _, in := range input.Sessions {
		sessions = append(sessions, models.Session{
			Topic:      in.Topic,
			SpeakerID:  in.SpeakerID,
			Date:       in.Date,
			StartTime:  in.StartTime,
			EndTime:    in.EndTime,
			BuildingID: in.BuildingID,
			FloorID:    in.FloorID,
			RoomID:     in.RoomID,
		})
	}

	id, err := s.events.Create(ctx, event, sessions)
	if err != nil {
		s.log.Warn().Err(err).Str("event_name", input.Name).Msg("event create rejected")
		return 0, fmt.Errorf("%w: %v", ErrCreateRejected, err)
	}
	return id, nil
}

type EventSummary struct {
	ID            int64
	Name          string
	Description   *string
	StartDatetime time.Time
	EndDatetime   time.Time
	Status        models.EventStatus
	SessionsCount int
	Venue         *string
}

// List returns non-archived events with their session count and best-effort
// venue: the building name of the first session whose location chain fully
// resolves, or nil when none does.
func (s *EventService) List(ctx context.Context) ([]EventSummary, error) {
	events, err := s.events.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]EventSummary, 0, len(events))
	for _, e := range events {
		summary := EventSummary{
			ID:            e.ID,
			Name:          e.Name,
			Description:   e.Description,
			StartDatetime: e.StartDatetime,
			EndDatetime:   e.EndDatetime,
			Status:        e.Status,
			SessionsCount: len(e.Sessions),
		}
		for _, session := range e.Sessions {
			if name, ok := session.BuildingName(); ok {
				summary.Venue = &name
				break
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

type SpeakerInfo struct {
	ID    int64
	Name  string
	Email string
}

type SessionDetails struct {
	ID        int64
	Topic     *string
	Date      time.Time
	StartTime string
	EndTime   string
	Speaker   *SpeakerInfo
	Venue     *models.Venue
}

type EventDetails struct {
	ID            int64
	Name          string
	Description   *string
	StartDatetime time.Time
	EndDatetime   time.Time
	Status        models.EventStatus
	Sessions      []SessionDetails
}

// View assembles one non-archived event with denormalized sessions: speaker
// contact details batch-fetched by id and a per-session venue. A speaker id
// without a matching user row yields a nil speaker, not an error.
func (s *EventService) View(ctx context.Context, eventID int64) (EventDetails, error) {
	event, err := s.events.GetActive(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return EventDetails{}, fmt.Errorf("%w: event %d", ErrNotFound, eventID)
		}
		return EventDetails{}, err
	}

	sessions, err := s.events.SessionsWithVenue(ctx, eventID)
	if err != nil {
		return EventDetails{}, err
	}

	speakers, err := s.speakersByID(ctx, sessions)
	if err != nil {
		return EventDetails{}, err
	}

	details := EventDetails{
		ID:            event.ID,
		Name:          event.Name,
		Description:   event.Description,
		StartDatetime: event.StartDatetime,
		EndDatetime:   event.EndDatetime,
		Status:        event.Status,
		Sessions:      make([]SessionDetails, 0, len(sessions)),
	}

	for _, session := range sessions {
		detail := SessionDetails{
			ID:        session.ID,
			Topic:     session.Topic,
			Date:      session.Date,
			StartTime: session.StartTime,
			EndTime:   session.EndTime,
		}
		if venue, ok := session.Venue(); ok {
			detail.Venue = &venue
		}
		if session.SpeakerID != nil {
			if info, ok := speakers[*session.SpeakerID]; ok {
				speaker := info
				detail.Speaker = &speaker
			}
		}
		details.Sessions = append(details.Sessions, detail)
	}
	return details, nil
}

func (s *EventService) speakersByID(ctx context.Context, sessions []models.Session) (map[int64]SpeakerInfo, error) {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, session := range sessions {
		if session.SpeakerID == nil {
			continue
		}
		if _, ok := seen[*session.SpeakerID]; ok {
			continue
		}
		seen[*session.SpeakerID] = struct{}{}
		ids = append(ids, *session.SpeakerID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	speakers := make(map[int64]SpeakerInfo, len(users))
	for _, user := range users {
		speakers[user.ID] = SpeakerInfo{
			ID:    user.ID,
			Name:  user.FullName(),
			Email: user.Email,
		}
	}
	return speakers, nil
}

// Publish moves an event to published. Archived events cannot leave that
// state, so they conflict; any other status is fair game.
func (s *EventService) Publish(ctx context.Context, eventID int64) error {
	return s.transition(ctx, eventID, models.EventStatusPublished, "archived events cannot be published")
}

// Archive is the soft delete. Re-archiving conflicts rather than being
// silently idempotent.
func (s *EventService) Archive(ctx context.Context, eventID int64) error {
	return s.transition(ctx, eventID, models.EventStatusArchived, "event is already archived")
}

func (s *EventService) transition(ctx context.Context, eventID int64, to models.EventStatus, conflictMsg string) error {
	status, err := s.events.GetStatus(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return fmt.Errorf("%w: event %d", ErrNotFound, eventID)
		}
		return err
	}
	if status == models.EventStatusArchived {
		return fmt.Errorf("%w: %s", ErrConflict, conflictMsg)
	}

	ok, err := s.events.TransitionStatus(ctx, eventID, to)
	if err != nil {
		return err
	}
	if !ok {
		// Lost a race against a concurrent archive.
		return fmt.Errorf("%w: %s", ErrConflict, conflictMsg)
	}

	s.log.Info().Int64("event_id", eventID).Str("status", string(to)).Msg("event status changed")
	return nil
}
