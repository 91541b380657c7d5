package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eventdesk/api/internal/models"
)

func (h HandlerSet) ListBuildings(c *gin.Context) {
	buildings, err := h.locations.Buildings(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := make([]gin.H, 0, len(buildings))
	for _, b := range buildings {
		resp = append(resp, gin.H{"id": b.ID, "building_name": b.Name})
	}
	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) ListFloors(c *gin.Context) {
	buildingID, ok := pathID(c)
	if !ok {
		return
	}

	floors, err := h.locations.Floors(c.Request.Context(), buildingID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := make([]gin.H, 0, len(floors))
	for _, f := range floors {
		resp = append(resp, gin.H{"id": f.ID, "floor_name": f.Name})
	}
	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) ListRooms(c *gin.Context) {
	floorID, ok := pathID(c)
	if !ok {
		return
	}

	rooms, err := h.locations.Rooms(c.Request.Context(), floorID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := make([]gin.H, 0, len(rooms))
	for _, room := range rooms {
		resp = append(resp, gin.H{"id": room.ID, "room_no": room.RoomNo})
	}
	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) ListRoomPlaces(c *gin.Context) {
	roomID, ok := pathID(c)
	if !ok {
		return
	}

	places, err := h.locations.Places(c.Request.Context(), roomID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, placesResponse(places))
}

func (h HandlerSet) ListPlaces(c *gin.Context) {
	places, err := h.locations.AllPlaces(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, placesResponse(places))
}

func placesResponse(places []models.Place) []gin.H {
	resp := make([]gin.H, 0, len(places))
	for _, p := range places {
		resp = append(resp, gin.H{"id": p.ID, "place_name": p.Name})
	}
	return resp
}
