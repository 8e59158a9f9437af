package display

import (
	"fmt"
	"log/slog"

	"github.com/dsrosen6/nvdisplay/internal/nvapi"
)

// Service queries and applies display configurations. It keeps no state
// between calls; the driver is the source of truth.
type Service struct {
	drv nvapi.Driver
}

func NewService(drv nvapi.Driver) *Service {
	return &Service{drv: drv}
}

// GetDisplayConfig returns a fresh snapshot of the active configuration.
func (s *Service) GetDisplayConfig() ([]Path, error) {
	paths, err := fetchSnapshot(s.drv)
	if err != nil {
		return nil, fmt.Errorf("fetching display config: %w", err)
	}

	slog.Debug("fetched display config", "paths", len(paths))
	return paths, nil
}

// SetDisplayConfig applies the snapshot. The snapshot is consumed; fetch a new
// one before applying again.
func (s *Service) SetDisplayConfig(paths []Path) error {
	slog.Debug("applying display config", "paths", len(paths))
	if err := applySnapshot(s.drv, paths); err != nil {
		return err
	}
	return nil
}
