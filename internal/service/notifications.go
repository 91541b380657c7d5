package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"eventdesk/api/internal/models"
	"eventdesk/api/internal/repository"
)

// PublishedStream is the redis stream downstream senders (mail, push) read
// from. Delivery rows in the store are the source of truth; the stream is
// only a wake-up signal.
const PublishedStream = "notifications:published"

type NotificationStore interface {
	InsertDrafts(ctx context.Context, drafts []models.Notification) ([]int64, error)
	List(ctx context.Context) ([]models.Notification, error)
	Get(ctx context.Context, id int64) (models.Notification, error)
	UpdateDraft(ctx context.Context, id int64, n models.Notification) error
	PublishWithDeliveries(ctx context.Context, id int64, recipientIDs []int64, at time.Time) (bool, error)
}

type AttendeeDirectory interface {
	AllUserIDs(ctx context.Context) ([]int64, error)
	UserIDsByEvent(ctx context.Context, eventID int64) ([]int64, error)
	UserIDsBySession(ctx context.Context, sessionID int64) ([]int64, error)
}

type NotificationService struct {
	notifications NotificationStore
	attendees     AttendeeDirectory
	stream        *redis.Client
	log           zerolog.Logger
}

// NewNotificationService wires the manager; stream may be nil, which
// disables published-event emission.
func NewNotificationService(notifications NotificationStore, attendees AttendeeDirectory, stream *redis.Client, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		attendees:     attendees,
		stream:        stream,
		log:           log,
	}
}

type DraftInput struct {
	Title         string
	Content       string
	MessageType   models.MessageType
	TargetType    models.TargetType
	EventIDs      []int64
	SessionIDs    []int64
	TargetUserIDs []int64
}

// validateTarget enforces the target table: exactly the id list matching the
// target type must be populated, none for "all".
func validateTarget(in DraftInput) error {
	if !models.ValidMessageType(in.MessageType) {
		return fmt.Errorf("%w: unknown message type %q", ErrValidation, in.MessageType)
	}
	if !models.ValidTargetType(in.TargetType) {
		return fmt.Errorf("%w: unknown target type %q", ErrValidation, in.TargetType)
	}

	switch in.TargetType {
	case models.TargetAll:
		if len(in.EventIDs) > 0 || len(in.SessionIDs) > 0 || len(in.TargetUserIDs) > 0 {
			return fmt.Errorf("%w: target type 'all' must not include target ids", ErrValidation)
		}
	case models.TargetEvent:
		if len(in.EventIDs) == 0 || len(in.SessionIDs) > 0 || len(in.TargetUserIDs) > 0 {
			return fmt.Errorf("%w: invalid target fields for 'event'", ErrValidation)
		}
	case models.TargetSession:
		if len(in.SessionIDs) == 0 || len(in.EventIDs) > 0 || len(in.TargetUserIDs) > 0 {
			return fmt.Errorf("%w: invalid target fields for 'session'", ErrValidation)
		}
	case models.TargetUser:
		if len(in.TargetUserIDs) == 0 || len(in.EventIDs) > 0 || len(in.SessionIDs) > 0 {
			return fmt.Errorf("%w: invalid target fields for 'user'", ErrValidation)
		}
	}
	return nil
}

type CreateDraftsResult struct {
	CreatedCount    int
	NotificationIDs []int64
}

// CreateDrafts fans a multi-id request out into one draft row per target id
// (a single row for "all") in one insert.
func (s *NotificationService) CreateDrafts(ctx context.Context, input DraftInput, actor models.User) (CreateDraftsResult, error) {
	if err := validateTarget(input); err != nil {
		return CreateDraftsResult{}, err
	}

	base := models.Notification{
		FromAdminUserID: actor.ID,
		Title:           input.Title,
		Content:         input.Content,
		MessageType:     input.MessageType,
		TargetType:      input.TargetType,
	}

	var drafts []models.Notification
	switch input.TargetType {
	case models.TargetAll:
		drafts = append(drafts, base)
	case models.TargetEvent:
		for _, id := range input.EventIDs {
			draft := base
			eventID := id
			draft.EventID = &eventID
			drafts = append(drafts, draft)
		}
	case models.TargetSession:
		for _, id := range input.SessionIDs {
			draft := base
			sessionID := id
			draft.SessionID = &sessionID
			drafts = append(drafts, draft)
		}
	case models.TargetUser:
		for _, id := range input.TargetUserIDs {
			draft := base
			userID := id
			draft.TargetUserID = &userID
			drafts = append(drafts, draft)
		}
	}

	ids, err := s.notifications.InsertDrafts(ctx, drafts)
	if err != nil {
		s.log.Warn().Err(err).Msg("notification draft insert rejected")
		return CreateDraftsResult{}, fmt.Errorf("%w: %v", ErrCreateRejected, err)
	}

	return CreateDraftsResult{CreatedCount: len(ids), NotificationIDs: ids}, nil
}

func (s *NotificationService) List(ctx context.Context) ([]models.Notification, error) {
	return s.notifications.List(ctx)
}

type PublishResult struct {
	Published []int64
	Skipped   []int64
	Failed    []int64
}

// Publish processes each id independently: a missing row or a failed remote
// call lands the id in Failed and the loop moves on, an already-active row is
// Skipped, and everything else gets its recipient fan-out and activation in
// one per-item transaction. Every input id ends up in exactly one bucket.
func (s *NotificationService) Publish(ctx context.Context, ids []int64) PublishResult {
	result := PublishResult{
		Published: []int64{},
		Skipped:   []int64{},
		Failed:    []int64{},
	}

	now := time.Now().UTC()

	for _, id := range ids {
		notification, err := s.notifications.Get(ctx, id)
		if err != nil {
			if !errors.Is(err, repository.ErrNotificationNotFound) {
				s.log.Error().Err(err).Int64("notification_id", id).Msg("notification lookup failed")
			}
			result.Failed = append(result.Failed, id)
			continue
		}

		if notification.IsActive {
			result.Skipped = append(result.Skipped, id)
			continue
		}

		recipients, err := s.resolveRecipients(ctx, notification)
		if err != nil {
			s.log.Error().Err(err).Int64("notification_id", id).Msg("recipient resolution failed")
			result.Failed = append(result.Failed, id)
			continue
		}

		published, err := s.notifications.PublishWithDeliveries(ctx, id, recipients, now)
		if err != nil {
			s.log.Error().Err(err).Int64("notification_id", id).Msg("publish failed")
			result.Failed = append(result.Failed, id)
			continue
		}
		if !published {
			result.Skipped = append(result.Skipped, id)
			continue
		}

		result.Published = append(result.Published, id)
		s.emitPublished(ctx, notification, len(recipients))
	}

	return result
}

// resolveRecipients computes the deduplicated recipient set for a
// notification's target. An empty set is fine: the notification still
// publishes, it just has nobody to deliver to.
func (s *NotificationService) resolveRecipients(ctx context.Context, n models.Notification) ([]int64, error) {
	var (
		ids []int64
		err error
	)

	switch n.TargetType {
	case models.TargetAll:
		ids, err = s.attendees.AllUserIDs(ctx)
	case models.TargetEvent:
		if n.EventID == nil {
			return nil, fmt.Errorf("notification %d has target type 'event' but no event id", n.ID)
		}
		ids, err = s.attendees.UserIDsByEvent(ctx, *n.EventID)
	case models.TargetSession:
		if n.SessionID == nil {
			return nil, fmt.Errorf("notification %d has target type 'session' but no session id", n.ID)
		}
		ids, err = s.attendees.UserIDsBySession(ctx, *n.SessionID)
	case models.TargetUser:
		if n.TargetUserID == nil {
			return nil, fmt.Errorf("notification %d has target type 'user' but no target user id", n.ID)
		}
		return []int64{*n.TargetUserID}, nil
	default:
		return nil, fmt.Errorf("notification %d has unknown target type %q", n.ID, n.TargetType)
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique, nil
}

func (s *NotificationService) emitPublished(ctx context.Context, n models.Notification, recipients int) {
	if s.stream == nil {
		return
	}

	err := s.stream.XAdd(ctx, &redis.XAddArgs{
		Stream: PublishedStream,
		Values: map[string]any{
			"notification_id": n.ID,
			"target_type":     string(n.TargetType),
			"recipients":      recipients,
		},
	}).Err()
	if err != nil {
		s.log.Warn().Err(err).Int64("notification_id", n.ID).Msg("publish stream emit failed")
	}
}

// UpdateDraft edits a draft in place. Multi-id target lists are rejected
// here: unlike creation there is a single row to point somewhere, and
// silently taking the first id would drop the rest.
func (s *NotificationService) UpdateDraft(ctx context.Context, id int64, input DraftInput) error {
	notification, err := s.notifications.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return fmt.Errorf("%w: notification %d", ErrNotFound, id)
		}
		return err
	}
	if notification.IsActive {
		return fmt.Errorf("%w: published notifications cannot be edited", ErrConflict)
	}

	if err := validateTarget(input); err != nil {
		return err
	}
	if len(input.EventIDs) > 1 || len(input.SessionIDs) > 1 || len(input.TargetUserIDs) > 1 {
		return fmt.Errorf("%w: update accepts a single target id per list", ErrValidation)
	}

	updated := models.Notification{
		Title:       input.Title,
		Content:     input.Content,
		MessageType: input.MessageType,
		TargetType:  input.TargetType,
	}
	switch input.TargetType {
	case models.TargetEvent:
		updated.EventID = &input.EventIDs[0]
	case models.TargetSession:
		updated.SessionID = &input.SessionIDs[0]
	case models.TargetUser:
		updated.TargetUserID = &input.TargetUserIDs[0]
	}

	if err := s.notifications.UpdateDraft(ctx, id, updated); err != nil {
		if errors.Is(err, repository.ErrNotificationActive) {
			return fmt.Errorf("%w: published notifications cannot be edited", ErrConflict)
		}
		return fmt.Errorf("%w: %v", ErrUpdateRejected, err)
	}
	return nil
}
