// Package content manages the site content singleton: one mutable
// configuration blob under the fixed site/content document id, with
// per-section baked-in defaults.
package content

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/maximahome/garage/internal/domain/models"
	"github.com/maximahome/garage/internal/store"
)

// Service is the site content service.
type Service struct {
	store  store.Store
	logger *zap.Logger
}

// NewService wires the content service onto the active store.
func NewService(st store.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: st, logger: logger}
}

// Load fetches the singleton and fills absent sections with their defaults,
// so callers always see a complete document even on a fresh install.
func (s *Service) Load(ctx context.Context) (models.SiteContent, error) {
	var c models.SiteContent
	found, err := s.store.GetSingleton(ctx, store.CollectionSite, store.SiteContentID, &c)
	if err != nil {
		return models.SiteContent{}, fmt.Errorf("load site content: %w", err)
	}
	if !found {
		s.logger.Debug("site content not saved yet, serving defaults")
	}

	c.FillDefaults()
	return c, nil
}

// Save replaces the whole singleton with the provided document.
func (s *Service) Save(ctx context.Context, c models.SiteContent) error {
	if err := s.store.SetSingleton(ctx, store.CollectionSite, store.SiteContentID, c); err != nil {
		return fmt.Errorf("save site content: %w", err)
	}
	s.logger.Info("site content saved")
	return nil
}
