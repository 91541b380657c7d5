package models

type Building struct {
	ID   int64
	Name string
}

type Floor struct {
	ID       int64
	Name     string
	Building *Building
}

type Room struct {
	ID     int64
	RoomNo string
	Floor  *Floor
}

type Place struct {
	ID   int64
	Name string
}

// Venue is the resolved naming of a session's location.
type Venue struct {
	Building string
	Floor    string
	Room     string
}

// Venue walks the optional room->floor->building chain and reports
// ok=false at the first missing link. Location rows are reference data
// maintained in the hosted store; a session can legitimately point at a
// room whose floor or building link has gone away.
func (s Session) Venue() (Venue, bool) {
	if s.Room == nil || s.Room.Floor == nil || s.Room.Floor.Building == nil {
		return Venue{}, false
	}
	return Venue{
		Building: s.Room.Floor.Building.Name,
		Floor:    s.Room.Floor.Name,
		Room:     s.Room.RoomNo,
	}, true
}

// BuildingName resolves just the building link of the chain.
func (s Session) BuildingName() (string, bool) {
	v, ok := s.Venue()
	if !ok || v.Building == "" {
		return "", false
	}
	return v.Building, true
}
