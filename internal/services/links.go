package services

import (
	"errors"

	"linknest/internal/models"
	"linknest/pkg/utils"

	"gorm.io/gorm"
)

type CreateLinkDTO struct {
	UserID    uint
	Name      string
	Slug      string // empty means "pick one for me"
	URL       string
	IPAddress string // for the audit log
}

type LinkService struct {
	db            *gorm.DB
	auditService  *AuditService
	slugGenerator func(int) string
}

func NewLinkService(db *gorm.DB, auditService *AuditService) *LinkService {
	return &LinkService{
		db:            db,
		auditService:  auditService,
		slugGenerator: utils.GenerateSlug,
	}
}

func (s *LinkService) CreateLink(dto CreateLinkDTO) (*models.Link, error) {
	if err := ValidateDestination(dto.URL); err != nil {
		return nil, err
	}

	var slug string
	if dto.Slug != "" {
		if err := ValidateSlug(dto.Slug); err != nil {
			return nil, err
		}
		taken, err := s.slugTaken(dto.Slug)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrSlugTaken
		}
		slug = dto.Slug
	} else {
		for {
			slug = s.slugGenerator(6)
			if ValidateSlug(slug) != nil {
				continue // generated something reserved or profane, roll again
			}
			taken, err := s.slugTaken(slug)
			if err != nil {
				return nil, err
			}
			if !taken {
				break
			}
		}
	}

	link := models.Link{
		UserID: dto.UserID,
		Name:   dto.Name,
		Slug:   slug,
		URL:    dto.URL,
	}
	if err := s.db.Create(&link).Error; err != nil {
		return nil, err
	}

	s.auditService.LogAction(&dto.UserID, "CREATE_LINK", link.Slug, map[string]interface{}{
		"url": dto.URL,
	}, dto.IPAddress)

	return &link, nil
}

func (s *LinkService) slugTaken(slug string) (bool, error) {
	var existing models.Link
	err := s.db.Where("slug = ?", slug).First(&existing).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}
