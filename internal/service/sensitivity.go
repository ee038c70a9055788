package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akeen90/nutrasafe-beta-sub001/internal/models"
)

const (
	maxSensitivities = 20
	maxKeywordLength = 50
)

var ErrInvalidSensitivity = errors.New("invalid sensitivity")

// SensitivityService stores the sensitivity keywords each user declares.
type SensitivityService struct {
	db *gorm.DB
}

func NewSensitivityService(db *gorm.DB) *SensitivityService {
	return &SensitivityService{db: db}
}

// List returns the user's keywords in lexical order.
func (s *SensitivityService) List(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var rows []models.UserSensitivity
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("keyword ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list sensitivities: %w", err)
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Keyword)
	}
	return out, nil
}

// Replace overwrites the user's keywords and returns the normalised set that was stored.
func (s *SensitivityService) Replace(ctx context.Context, userID uuid.UUID, keywords []string) ([]string, error) {
	normalized, err := NormalizeSensitivities(keywords)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserSensitivity{}).Error; err != nil {
			return fmt.Errorf("failed to clear sensitivities: %w", err)
		}
		if len(normalized) == 0 {
			return nil
		}
		rows := make([]models.UserSensitivity, 0, len(normalized))
		for _, k := range normalized {
			rows = append(rows, models.UserSensitivity{ID: uuid.New(), UserID: userID, Keyword: k})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to save sensitivities: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return normalized, nil
}

// NormalizeSensitivities lower-cases, trims, dedupes and sorts keywords. Blank entries are
// dropped.
func NormalizeSensitivities(keywords []string) ([]string, error) {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if len(k) > maxKeywordLength {
			return nil, fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidSensitivity, k, maxKeywordLength)
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	if len(out) > maxSensitivities {
		return nil, fmt.Errorf("%w: at most %d sensitivities are allowed", ErrInvalidSensitivity, maxSensitivities)
	}
	sort.Strings(out)
	return out, nil
}
