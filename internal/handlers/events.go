package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"eventdesk/api/internal/middleware"
	"eventdesk/api/internal/models"
	"eventdesk/api/internal/service"
)

const sessionDateLayout = "2006-01-02"

type sessionRequest struct {
	SessionTopic      *string `json:"session_topic"`
	SessionSpeakerID  *int64  `json:"session_speaker_id"`
	SessionDate       string  `json:"session_date" binding:"required"`
	SessionStartTime  string  `json:"session_start_time" binding:"required"`
	SessionEndTime    string  `json:"session_end_time" binding:"required"`
	SessionBuildingID int64   `json:"session_building_id" binding:"required"`
	SessionFloorID    int64   `json:"session_floor_id" binding:"required"`
	SessionRoomID     int64   `json:"session_room_id" binding:"required"`
}

type createEventRequest struct {
	EventName        string           `json:"event_name" binding:"required"`
	EventDescription *string          `json:"event_description"`
	StartDatetime    time.Time        `json:"start_datetime" binding:"required"`
	EndDatetime      time.Time        `json:"end_datetime" binding:"required"`
	Status           string           `json:"status" binding:"omitempty,oneof=draft upcoming ongoing"`
	Sessions         []sessionRequest `json:"sessions"`
}

func (h HandlerSet) CreateEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	input := service.CreateEventInput{
		Name:          req.EventName,
		Description:   req.EventDescription,
		StartDatetime: req.StartDatetime,
		EndDatetime:   req.EndDatetime,
		Status:        models.EventStatus(req.Status),
		Sessions:      make([]service.SessionInput, 0, len(req.Sessions)),
	}

	for _, s := range req.Sessions {
		date, err := time.Parse(sessionDateLayout, s.SessionDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session_date, expected YYYY-MM-DD"})
			return
		}
		input.Sessions = append(input.Sessions, service.SessionInput{
			Topic:      s.SessionTopic,
			SpeakerID:  s.SessionSpeakerID,
			Date:       date,
			StartTime:  s.SessionStartTime,
			EndTime:    s.SessionEndTime,
			BuildingID: s.SessionBuildingID,
			FloorID:    s.SessionFloorID,
			RoomID:     s.SessionRoomID,
		})
	}

	id, err := h.events.Create(c.Request.Context(), input, actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

type eventSummaryResponse struct {
	ID               int64     `json:"id"`
	EventName        string    `json:"event_name"`
	EventDescription *string   `json:"event_description"`
	StartDatetime    time.Time `json:"start_datetime"`
	EndDatetime      time.Time `json:"end_datetime"`
	Status           string    `json:"status"`
	SessionsCount    int       `json:"sessions_count"`
	Venue            *string   `json:"venue"`
}

func (h HandlerSet) ListEvents(c *gin.Context) {
	summaries, err := h.events.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := make([]eventSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, eventSummaryResponse{
			ID:               s.ID,
			EventName:        s.Name,
			EventDescription: s.Description,
			StartDatetime:    s.StartDatetime,
			EndDatetime:      s.EndDatetime,
			Status:           string(s.Status),
			SessionsCount:    s.SessionsCount,
			Venue:            s.Venue,
		})
	}

	c.JSON(http.StatusOK, resp)
}

type speakerResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type venueResponse struct {
	Building string `json:"building"`
	Floor    string `json:"floor"`
	Room     string `json:"room"`
}

type sessionDetailResponse struct {
	ID        int64            `json:"id"`
	Topic     *string          `json:"topic"`
	Date      string           `json:"date"`
	StartTime string           `json:"start_time"`
	EndTime   string           `json:"end_time"`
	Speaker   *speakerResponse `json:"speaker"`
	Venue     *venueResponse   `json:"venue"`
}

type eventDetailResponse struct {
	ID               int64                   `json:"id"`
	EventName        string                  `json:"event_name"`
	EventDescription *string                 `json:"event_description"`
	StartDatetime    time.Time               `json:"start_datetime"`
	EndDatetime      time.Time               `json:"end_datetime"`
	Status           string                  `json:"status"`
	Sessions         []sessionDetailResponse `json:"sessions"`
}

func (h HandlerSet) ViewEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	details, err := h.events.View(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := eventDetailResponse{
		ID:               details.ID,
		EventName:        details.Name,
		EventDescription: details.Description,
		StartDatetime:    details.StartDatetime,
		EndDatetime:      details.EndDatetime,
		Status:           string(details.Status),
		Sessions:         make([]sessionDetailResponse, 0, len(details.Sessions)),
	}

	for _, s := range details.Sessions {
		session := sessionDetailResponse{
			ID:        s.ID,
			Topic:     s.Topic,
			Date:      s.Date.Format(sessionDateLayout),
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		}
		if s.Speaker != nil {
			session.Speaker = &speakerResponse{
				ID:    s.Speaker.ID,
				Name:  s.Speaker.Name,
				Email: s.Speaker.Email,
			}
		}
		if s.Venue != nil {
			session.Venue = &venueResponse{
				Building: s.Venue.Building,
				Floor:    s.Venue.Floor,
				Room:     s.Venue.Room,
			}
		}
		resp.Sessions = append(resp.Sessions, session)
	}

	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) PublishEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.events.Publish(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "status": string(models.EventStatusPublished)})
}

func (h HandlerSet) ArchiveEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.events.Archive(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "status": string(models.EventStatusArchived)})
}
