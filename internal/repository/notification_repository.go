package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventdesk/api/internal/models"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotificationActive   = errors.New("notification already published")
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

const notificationColumns = `
	id, from_admin_user_id, title, content, message_type, target_type,
	event_id, session_id, target_user_id, is_active, published_at, created_at
`

// InsertDrafts writes one row per notification in a single statement and
// returns the generated ids in insertion order.
func (r *NotificationRepository) InsertDrafts(ctx context.Context, drafts []models.Notification) ([]int64, error) {
	if len(drafts) == 0 {
		return nil, nil
	}

	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`
		INSERT INTO nu_notifications (
			from_admin_user_id, title, content, message_type, target_type,
			event_id, session_id, target_user_id, is_active, created_at
		) VALUES `)

	for i, n := range drafts {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 8
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, false, NOW())",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8)
		args = append(args,
			n.FromAdminUserID,
			n.Title,
			n.Content,
			n.MessageType,
			n.TargetType,
			n.EventID,
			n.SessionID,
			n.TargetUserID,
		)
	}
	sb.WriteString(" RETURNING id")

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *NotificationRepository) List(ctx context.Context) ([]models.Notification, error) {
	query := `SELECT ` + notificationColumns + `
		FROM nu_notifications
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) Get(ctx context.Context, id int64) (models.Notification, error) {
	query := `SELECT ` + notificationColumns + `
		FROM nu_notifications
		WHERE id = $1`

	n, err := scanNotification(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Notification{}, ErrNotificationNotFound
		}
		return models.Notification{}, err
	}
	return n, nil
}

// UpdateDraft overwrites the mutable fields of a draft. The is_active guard
// keeps a concurrently published row immutable; zero rows affected on an
// existing row means the draft was published underneath us.
func (r *NotificationRepository) UpdateDraft(ctx context.Context, id int64, n models.Notification) error {
	const query = `
		UPDATE nu_notifications
		SET title = $2, content = $3, message_type = $4, target_type = $5,
		    event_id = $6, session_id = $7, target_user_id = $8
		WHERE id = $1 AND is_active = false
	`

	cmd, err := r.pool.Exec(ctx, query,
		id,
		n.Title,
		n.Content,
		n.MessageType,
		n.TargetType,
		n.EventID,
		n.SessionID,
		n.TargetUserID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotificationActive
	}
	return nil
}

// PublishWithDeliveries atomically flips a draft to active and fans out one
// delivery row per recipient. The conditional activation doubles as the
// guard against two callers publishing the same id: the loser sees ok=false
// and must report the id as skipped, with no delivery rows written.
func (r *NotificationRepository) PublishWithDeliveries(ctx context.Context, id int64, recipientIDs []int64, at time.Time) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const activate = `
		UPDATE nu_notifications
		SET is_active = true, published_at = $2
		WHERE id = $1 AND is_active = false
	`

	cmd, err := tx.Exec(ctx, activate, id, at)
	if err != nil {
		return false, fmt.Errorf("activate: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return false, nil
	}

	if len(recipientIDs) > 0 {
		rows := make([][]any, 0, len(recipientIDs))
		for _, uid := range recipientIDs {
			rows = append(rows, []any{id, uid})
		}

		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"nu_notification_status"},
			[]string{"notif_id", "user_id_receiver"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return false, fmt.Errorf("insert deliveries: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

func scanNotification(row pgx.Row) (models.Notification, error) {
	var n models.Notification
	err := row.Scan(
		&n.ID,
		&n.FromAdminUserID,
		&n.Title,
		&n.Content,
		&n.MessageType,
		&n.TargetType,
		&n.EventID,
		&n.SessionID,
		&n.TargetUserID,
		&n.IsActive,
		&n.PublishedAt,
		&n.CreatedAt,
	)
	if err != nil {
		return models.Notification{}, err
	}
	return n, nil
}
