package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eventdesk/api/internal/middleware"
)

type speakerListItem struct {
	ID         int64   `json:"id"`
	FirstName  string  `json:"firstname"`
	MiddleName *string `json:"middlename"`
	LastName   string  `json:"lastname"`
	Ext        *string `json:"ext"`
}

func (h HandlerSet) ListSpeakers(c *gin.Context) {
	speakers, err := h.users.ListSpeakerEligible(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := make([]speakerListItem, 0, len(speakers))
	for _, u := range speakers {
		resp = append(resp, speakerListItem{
			ID:         u.ID,
			FirstName:  u.FirstName,
			MiddleName: u.MiddleName,
			LastName:   u.LastName,
			Ext:        u.Ext,
		})
	}

	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"firstname":  user.FirstName,
		"middlename": user.MiddleName,
		"lastname":   user.LastName,
		"ext":        user.Ext,
		"email":      user.Email,
		"role":       user.Role,
	})
}
