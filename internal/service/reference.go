package service

import (
	"context"

	"github.com/akeen90/nutrasafe-beta-sub001/internal/logger"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/reference"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/types"
)

// ReferenceService exposes the live reference table to the admin endpoints.
type ReferenceService struct {
	holder *reference.Holder
	log    *logger.Logger
}

func NewReferenceService(holder *reference.Holder, log *logger.Logger) *ReferenceService {
	return &ReferenceService{holder: holder, log: log}
}

// Current describes the live table.
func (s *ReferenceService) Current() types.ReferenceVersionResponse {
	table := s.holder.Current()
	additives, ultra := table.Len()
	return types.ReferenceVersionResponse{
		Version:        table.Version(),
		Additives:      additives,
		UltraProcessed: ultra,
	}
}

// Reload re-reads reference data and swaps it in when the version changed.
func (s *ReferenceService) Reload(ctx context.Context) (*types.ReloadResponse, error) {
	version, changed, err := s.holder.Reload(ctx)
	if err != nil {
		s.log.Error("[ReferenceService] Reload failed", "error", err, "live_version", version)
		return nil, err
	}
	if changed {
		s.log.Info("[ReferenceService] Reference data reloaded", "version", version)
	}
	return &types.ReloadResponse{Version: version, Changed: changed}, nil
}
