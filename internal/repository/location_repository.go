package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"eventdesk/api/internal/models"
)

// LocationRepository reads the building/floor/room/place reference tables.
// The hierarchy is maintained in the hosted store; this side never writes it.
type LocationRepository struct {
	pool *pgxpool.Pool
}

func NewLocationRepository(pool *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{pool: pool}
}

func (r *LocationRepository) Buildings(ctx context.Context) ([]models.Building, error) {
	const query = `
		SELECT id, building_name FROM nu_buildings ORDER BY building_name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buildings []models.Building
	for rows.Next() {
		var b models.Building
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, err
		}
		buildings = append(buildings, b)
	}
	return buildings, rows.Err()
}

func (r *LocationRepository) Floors(ctx context.Context, buildingID int64) ([]models.Floor, error) {
	const query = `
		SELECT id, floor_name FROM nu_floors
		WHERE building_id = $1
		ORDER BY floor_name
	`

	rows, err := r.pool.Query(ctx, query, buildingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var floors []models.Floor
	for rows.Next() {
		var f models.Floor
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, err
		}
		floors = append(floors, f)
	}
	return floors, rows.Err()
}

func (r *LocationRepository) Rooms(ctx context.Context, floorID int64) ([]models.Room, error) {
	const query = `
		SELECT id, room_no FROM nu_rooms
		WHERE floor_id = $1
		ORDER BY room_no
	`

	rows, err := r.pool.Query(ctx, query, floorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []models.Room
	for rows.Next() {
		var room models.Room
		if err := rows.Scan(&room.ID, &room.RoomNo); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (r *LocationRepository) Places(ctx context.Context, roomID int64) ([]models.Place, error) {
	const query = `
		SELECT id, place_name FROM nu_places
		WHERE room_id = $1
		ORDER BY place_name
	`
	return r.queryPlaces(ctx, query, roomID)
}

func (r *LocationRepository) AllPlaces(ctx context.Context) ([]models.Place, error) {
	const query = `
		SELECT id, place_name FROM nu_places ORDER BY place_name
	`
	return r.queryPlaces(ctx, query)
}

func (r *LocationRepository) queryPlaces(ctx context.Context, query string, args ...any) ([]models.Place, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var places []models.Place
	for rows.Next() {
		var p models.Place
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		places = append(places, p)
	}
	return places, rows.Err()
}
