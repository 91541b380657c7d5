package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVenueResolution(t *testing.T) {
	full := Session{Room: &Room{
		RoomNo: "204",
		Floor:  &Floor{Name: "2nd Floor", Building: &Building{Name: "Engineering"}},
	}}

	venue, ok := full.Venue()
	assert.True(t, ok)
	assert.Equal(t, Venue{Building: "Engineering", Floor: "2nd Floor", Room: "204"}, venue)

	name, ok := full.BuildingName()
	assert.True(t, ok)
	assert.Equal(t, "Engineering", name)
}

func TestVenueStopsAtFirstMissingLink(t *testing.T) {
	cases := []struct {
		name    string
		session Session
	}{
		{"no room", Session{}},
		{"room without floor", Session{Room: &Room{RoomNo: "1"}}},
		{"floor without building", Session{Room: &Room{RoomNo: "1", Floor: &Floor{Name: "G"}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := tc.session.Venue()
			assert.False(t, ok)
			_, ok = tc.session.BuildingName()
			assert.False(t, ok)
		})
	}
}

func TestFullNameTrims(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", User{FirstName: "Ada", LastName: "Lovelace"}.FullName())
	assert.Equal(t, "Ada", User{FirstName: "Ada"}.FullName())
	assert.Equal(t, "Lovelace", User{LastName: "Lovelace"}.FullName())
	assert.Equal(t, "", User{}.FullName())
}
