package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventdesk/api/internal/models"
)

var ErrEventNotFound = errors.New("event not found")

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// Create inserts the event and its sessions in one transaction so a rejected
// session write cannot leave an orphaned event behind.
func (r *EventRepository) Create(ctx context.Context, event models.Event, sessions []models.Session) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const eventQuery = `
		INSERT INTO nu_events (
			event_name, event_description, start_datetime, end_datetime, status, event_host_user_id, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW()
		)
		RETURNING id
	`

	var eventID int64
	if err := tx.QueryRow(ctx, eventQuery,
		event.Name,
		event.Description,
		event.StartDatetime,
		event.EndDatetime,
		event.Status,
		event.HostUserID,
	).Scan(&eventID); err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}

	if len(sessions) > 0 {
		const sessionQuery = `
			INSERT INTO nu_event_sessions (
				session_event_id, session_topic, session_speaker_id, session_date,
				session_start_time, session_end_time,
				session_building_id, session_floor_id, session_room_id
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`

		batch := &pgx.Batch{}
		for _, s := range sessions {
			batch.Queue(sessionQuery,
				eventID,
				s.Topic,
				s.SpeakerID,
				s.Date,
				s.StartTime,
				s.EndTime,
				s.BuildingID,
				s.FloorID,
				s.RoomID,
			)
		}

		results := tx.SendBatch(ctx, batch)
		for range sessions {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return 0, fmt.Errorf("insert session: %w", err)
			}
		}
		if err := results.Close(); err != nil {
			return 0, fmt.Errorf("close batch: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return eventID, nil
}

// ListActive returns non-archived events newest first, each with its sessions
// carrying whatever part of the room->floor->building chain still resolves.
func (r *EventRepository) ListActive(ctx context.Context) ([]models.Event, error) {
	const query = `
		SELECT e.id, e.event_name, e.event_description, e.start_datetime, e.end_datetime,
		       e.status, e.created_at,
		       s.id, rm.room_no, fl.floor_name, bl.building_name
		FROM nu_events e
		LEFT JOIN nu_event_sessions s ON s.session_event_id = e.id
		LEFT JOIN nu_rooms rm ON rm.id = s.session_room_id
		LEFT JOIN nu_floors fl ON fl.id = rm.floor_id
		LEFT JOIN nu_buildings bl ON bl.id = fl.building_id
		WHERE e.status <> 'archived'
		ORDER BY e.created_at DESC, e.id DESC, s.id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	index := make(map[int64]int)

	for rows.Next() {
		var (
			event     models.Event
			sessionID *int64
			roomNo    *string
			floorName *string
			building  *string
		)
		if err := rows.Scan(
			&event.ID,
			&event.Name,
			&event.Description,
			&event.StartDatetime,
			&event.EndDatetime,
			&event.Status,
			&event.CreatedAt,
			&sessionID,
			&roomNo,
			&floorName,
			&building,
		); err != nil {
			return nil, err
		}

		pos, seen := index[event.ID]
		if !seen {
			pos = len(events)
			index[event.ID] = pos
			events = append(events, event)
		}

		if sessionID != nil {
			session := models.Session{ID: *sessionID, EventID: event.ID}
			session.Room = venueChain(roomNo, floorName, building)
			events[pos].Sessions = append(events[pos].Sessions, session)
		}
	}
	return events, rows.Err()
}

// GetActive fetches a single non-archived event; archived rows report
// ErrEventNotFound just like missing ones.
func (r *EventRepository) GetActive(ctx context.Context, id int64) (models.Event, error) {
	const query = `
		SELECT id, event_name, event_description, start_datetime, end_datetime, status, created_at
		FROM nu_events
		WHERE id = $1 AND status <> 'archived'
	`

	row := r.pool.QueryRow(ctx, query, id)
	var event models.Event
	if err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Description,
		&event.StartDatetime,
		&event.EndDatetime,
		&event.Status,
		&event.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Event{}, ErrEventNotFound
		}
		return models.Event{}, err
	}
	return event, nil
}

func (r *EventRepository) GetStatus(ctx context.Context, id int64) (models.EventStatus, error) {
	const query = `
		SELECT status FROM nu_events WHERE id = $1
	`

	var status models.EventStatus
	if err := r.pool.QueryRow(ctx, query, id).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrEventNotFound
		}
		return "", err
	}
	return status, nil
}

// TransitionStatus performs the status change as a single conditional write.
// Archived rows never match, so a concurrent archive cannot be overwritten;
// zero rows affected is the conflict signal.
func (r *EventRepository) TransitionStatus(ctx context.Context, id int64, to models.EventStatus) (bool, error) {
	const query = `
		UPDATE nu_events SET status = $2
		WHERE id = $1 AND status <> 'archived'
	`

	cmd, err := r.pool.Exec(ctx, query, id, to)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// SessionsWithVenue returns an event's sessions in date order with speaker id
// and the null-tolerant venue chain attached.
func (r *EventRepository) SessionsWithVenue(ctx context.Context, eventID int64) ([]models.Session, error) {
	const query = `
		SELECT s.id, s.session_topic, s.session_speaker_id, s.session_date,
		       s.session_start_time::text, s.session_end_time::text,
		       rm.room_no, fl.floor_name, bl.building_name
		FROM nu_event_sessions s
		LEFT JOIN nu_rooms rm ON rm.id = s.session_room_id
		LEFT JOIN nu_floors fl ON fl.id = rm.floor_id
		LEFT JOIN nu_buildings bl ON bl.id = fl.building_id
		WHERE s.session_event_id = $1
		ORDER BY s.session_date
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var (
			session   models.Session
			roomNo    *string
			floorName *string
			building  *string
		)
		if err := rows.Scan(
			&session.ID,
			&session.Topic,
			&session.SpeakerID,
			&session.Date,
			&session.StartTime,
			&session.EndTime,
			&roomNo,
			&floorName,
			&building,
		); err != nil {
			return nil, err
		}
		session.EventID = eventID
		session.Room = venueChain(roomNo, floorName, building)
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// venueChain rebuilds the optional room->floor->building links from the
// left-joined columns, stopping at the first missing one.
func venueChain(roomNo, floorName, buildingName *string) *models.Room {
	if roomNo == nil {
		return nil
	}
	room := &models.Room{RoomNo: *roomNo}
	if floorName == nil {
		return room
	}
	room.Floor = &models.Floor{Name: *floorName}
	if buildingName == nil {
		return room
	}
	room.Floor.Building = &models.Building{Name: *buildingName}
	return room
}
