package handlers

import (
	"log/slog"

	"linknest/internal/config"
	"linknest/internal/services"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Handler struct {
	cfg             config.Config
	logger          *slog.Logger
	db              *gorm.DB
	rdb             *redis.Client
	linkService     *services.LinkService
	bookmarkService *services.BookmarkService
	tracker         *services.TrackerService
	auditService    *services.AuditService
	qrService       *services.QRService
}

func NewHandler(
	cfg config.Config,
	logger *slog.Logger,
	db *gorm.DB,
	rdb *redis.Client,
	linkService *services.LinkService,
	bookmarkService *services.BookmarkService,
	tracker *services.TrackerService,
	auditService *services.AuditService,
	qrService *services.QRService,
) *Handler {
	return &Handler{
		cfg:             cfg,
		logger:          logger,
		db:              db,
		rdb:             rdb,
		linkService:     linkService,
		bookmarkService: bookmarkService,
		tracker:         tracker,
		auditService:    auditService,
		qrService:       qrService,
	}
}
