package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"eventdesk/api/internal/config"
	"eventdesk/api/internal/identity"
	"eventdesk/api/internal/middleware"
	"eventdesk/api/internal/repository"
	"eventdesk/api/internal/service"
)

type HandlerSet struct {
	log           zerolog.Logger
	cfg           *config.AppConfig
	db            *pgxpool.Pool
	cache         *redis.Client
	identity      *identity.Client
	users         *repository.UserRepository
	locations     *repository.LocationRepository
	events        *service.EventService
	notifications *service.NotificationService
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, idClient *identity.Client, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	eventRepo := repository.NewEventRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	attendeeRepo := repository.NewAttendeeRepository(db)

	return HandlerSet{
		log:           log,
		cfg:           cfg,
		db:            db,
		cache:         cache,
		identity:      idClient,
		users:         userRepo,
		locations:     locationRepo,
		events:        service.NewEventService(eventRepo, userRepo, log),
		notifications: service.NewNotificationService(notificationRepo, attendeeRepo, cache, log),
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")

	// Location directory and places are public reads.
	locations := v1.Group("/locations")
	locations.GET("/buildings", h.ListBuildings)
	locations.GET("/buildings/:id/floors", h.ListFloors)
	locations.GET("/floors/:id/rooms", h.ListRooms)
	locations.GET("/rooms/:id/places", h.ListRoomPlaces)
	v1.GET("/places", h.ListPlaces)

	authed := v1.Group("")
	authed.Use(middleware.Auth(h.identity, h.users, h.log))
	authed.GET("/me", h.Me)
	authed.GET("/users/speakers", h.ListSpeakers)
	authed.GET("/events", h.ListEvents)
	authed.GET("/events/:id", h.ViewEvent)
	authed.GET("/notifications", h.ListNotifications)

	admin := authed.Group("")
	admin.Use(middleware.RequireAdmin())
	admin.POST("/events", h.CreateEvent)
	admin.PATCH("/events/:id/publish", h.PublishEvent)
	admin.PATCH("/events/:id/archive", h.ArchiveEvent)
	admin.POST("/notifications", h.CreateNotificationDrafts)
	admin.POST("/notifications/publish", h.PublishNotifications)
	admin.PUT("/notifications/:id", h.UpdateNotificationDraft)
}
