package services

import (
	"context"
	"log/slog"

	"linknest/internal/models"

	"github.com/mssola/user_agent"
	"gorm.io/gorm"
)

// TrackerService persists click events off the request path. Handlers
// call Record and return immediately; a full channel drops the event
// rather than slow a redirect down.
type TrackerService struct {
	db           *gorm.DB
	logger       *slog.Logger
	clickChannel chan models.Click
	geoIPService *GeoIPService
}

func NewTrackerService(db *gorm.DB, logger *slog.Logger, geoIPService *GeoIPService) *TrackerService {
	return &TrackerService{
		db:           db,
		logger:       logger,
		clickChannel: make(chan models.Click, 1000),
		geoIPService: geoIPService,
	}
}

func (s *TrackerService) Start(ctx context.Context) {
	s.logger.Info("Click tracker starting")
	for {
		select {
		case click := <-s.clickChannel:
			s.enrichClick(&click)

			if err := s.db.Create(&click).Error; err != nil {
				s.logger.Error("Failed to record click", "error", err)
				continue
			}

			if click.TargetType == models.ClickTargetLink {
				if err := s.db.Model(&models.Link{}).Where("id = ?", click.TargetID).
					Update("clicks", gorm.Expr("clicks + 1")).Error; err != nil {
					s.logger.Error("Failed to bump click counter", "link_id", click.TargetID, "error", err)
				}
			}
		case <-ctx.Done():
			s.logger.Info("Click tracker stopping")
			return
		}
	}
}

// Record queues a click without blocking.
func (s *TrackerService) Record(click models.Click) {
	select {
	case s.clickChannel <- click:
	default:
		s.logger.Warn("Click channel full, dropping event",
			"target_type", click.TargetType, "target_id", click.TargetID)
	}
}

func (s *TrackerService) enrichClick(click *models.Click) {
	ua := user_agent.New(click.UserAgent)
	browserName, browserVer := ua.Browser()
	click.Browser = browserName + " " + browserVer
	click.OS = ua.OS()

	if ua.Mobile() {
		click.DeviceType = "Mobile"
	} else if ua.Bot() {
		click.DeviceType = "Bot"
	} else {
		click.DeviceType = "Desktop"
	}

	if click.Referrer == "" {
		click.Referrer = "Direct"
	}

	country, region, city := s.geoIPService.GetLocation(click.IPAddress)
	click.Country = country
	click.Region = region
	click.City = city

	// Mask IP for privacy (GDPR)
	click.IPAddress = s.maskIP(click.IPAddress)
}

func (s *TrackerService) maskIP(ip string) string {
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == '.' {
			return ip[:i] + ".0"
		}
		if ip[i] == ':' {
			return "IPv6 (Masked)"
		}
	}
	return ip
}
