package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AttendeeRepository resolves notification recipients from the registration
// table. DISTINCT matters: an attendee registered for several sessions of the
// same event must receive a single delivery row.
type AttendeeRepository struct {
	pool *pgxpool.Pool
}

func NewAttendeeRepository(pool *pgxpool.Pool) *AttendeeRepository {
	return &AttendeeRepository{pool: pool}
}

func (r *AttendeeRepository) AllUserIDs(ctx context.Context) ([]int64, error) {
	const query = `
		SELECT DISTINCT user_id FROM nu_event_attendees
	`
	return r.queryIDs(ctx, query)
}

func (r *AttendeeRepository) UserIDsByEvent(ctx context.Context, eventID int64) ([]int64, error) {
	const query = `
		SELECT DISTINCT user_id FROM nu_event_attendees WHERE event_id = $1
	`
	return r.queryIDs(ctx, query, eventID)
}

func (r *AttendeeRepository) UserIDsBySession(ctx context.Context, sessionID int64) ([]int64, error) {
	const query = `
		SELECT DISTINCT user_id FROM nu_event_attendees WHERE session_id = $1
	`
	return r.queryIDs(ctx, query, sessionID)
}

func (r *AttendeeRepository) queryIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := r.pool.Query(ctx, query, args...)
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
