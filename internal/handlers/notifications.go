package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"eventdesk/api/internal/middleware"
	"eventdesk/api/internal/models"
	"eventdesk/api/internal/service"
)

type notificationResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	TargetType  string     `json:"target_type"`
	MessageType string     `json:"message_type"`
	IsActive    bool       `json:"is_active"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (h HandlerSet) ListNotifications(c *gin.Context) {
	notifications, err := h.notifications.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		resp = append(resp, notificationResponse{
			ID:          n.ID,
			Title:       n.Title,
			Content:     n.Content,
			TargetType:  string(n.TargetType),
			MessageType: string(n.MessageType),
			IsActive:    n.IsActive,
			PublishedAt: n.PublishedAt,
			CreatedAt:   n.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, resp)
}

type draftRequest struct {
	Title         string  `json:"title" binding:"required"`
	Content       string  `json:"content" binding:"required"`
	MessageType   string  `json:"message_type" binding:"required,oneof=announcement alert reminder warning"`
	TargetType    string  `json:"target_type" binding:"required,oneof=all event session user"`
	EventIDs      []int64 `json:"event_ids"`
	SessionIDs    []int64 `json:"session_ids"`
	TargetUserIDs []int64 `json:"target_user_ids"`
}

func (r draftRequest) toInput() service.DraftInput {
	return service.DraftInput{
		Title:         r.Title,
		Content:       r.Content,
		MessageType:   models.MessageType(r.MessageType),
		TargetType:    models.TargetType(r.TargetType),
		EventIDs:      r.EventIDs,
		SessionIDs:    r.SessionIDs,
		TargetUserIDs: r.TargetUserIDs,
	}
}

func (h HandlerSet) CreateNotificationDrafts(c *gin.Context) {
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.notifications.CreateDrafts(c.Request.Context(), req.toInput(), actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"created_count":    result.CreatedCount,
		"notification_ids": result.NotificationIDs,
	})
}

type publishRequest struct {
	NotificationIDs []int64 `json:"notification_ids" binding:"required,min=1"`
}

func (h HandlerSet) PublishNotifications(c *gin.Context) {
	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.notifications.Publish(c.Request.Context(), req.NotificationIDs)

	c.JSON(http.StatusOK, gin.H{
		"published": result.Published,
		"skipped":   result.Skipped,
		"failed":    result.Failed,
	})
}

func (h HandlerSet) UpdateNotificationDraft(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.notifications.UpdateDraft(c.Request.Context(), id, req.toInput()); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}
