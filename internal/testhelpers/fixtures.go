package testhelpers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akeen90/nutrasafe-beta-sub001/internal/logger"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/reference"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/types"
)

// TestJWTSecret signs every token issued by TokenFor.
const TestJWTSecret = "test-jwt-secret"

func boolPtr(b bool) *bool { return &b }

// ReferenceSnapshot is a small but representative reference data set.
func ReferenceSnapshot() *reference.Snapshot {
	return &reference.Snapshot{
		Version: "fixture-1",
		Additives: []reference.AdditiveEntry{
			{ENumber: "E102", Name: "Tartrazine", Tier: "high", Origin: "synthetic", ChildWarning: true,
				FullDescription: "Synthetic lemon yellow azo dye. Linked to hyperactivity."},
			{ENumber: "E211", Name: "Sodium benzoate", Tier: "moderate", Origin: "synthetic"},
			{ENumber: "E221", Name: "Sodium sulphite", Tier: "moderate", Origin: "synthetic", SulphiteAllergen: true},
			{ENumber: "E250", Name: "Sodium nitrite", Tier: "high", Origin: "synthetic",
				ShortDescription: "Preservative used in cured meats."},
			{ENumber: "E300", Name: "Ascorbic acid", Synonyms: []string{"vitamin c"}, Tier: "none", Origin: "natural/synthetic", IsVitaminOrMineral: true},
			{ENumber: "E322", Name: "Lecithin", Synonyms: []string{"soy lecithin"}, Tier: "none", Origin: "natural"},
			{ENumber: "E330", Name: "Citric acid", Tier: "low", Origin: "natural"},
			{ENumber: "E621", Name: "Monosodium glutamate", Synonyms: []string{"msg"}, Tier: "moderate", Origin: "synthetic"},
		},
		Overrides: []reference.OverrideEntry{
			{ENumber: "E330", ShortDescription: "Acidity regulator found naturally in citrus fruit.", ChildWarning: boolPtr(false)},
		},
		UltraProcessed: []reference.UltraProcessedEntry{
			{Name: "Maltodextrin", Category: "Sugar", NovaGroup: 4, ProcessingPenalty: 6, Concerns: "Rapidly absorbed"},
			{Name: "Glucose syrup", Category: "Sugar", NovaGroup: 4, ProcessingPenalty: 5},
			{Name: "Modified starch", Category: "Thickener", NovaGroup: 3, ProcessingPenalty: 5},
			{Name: "Yeast extract", Category: "Flavour", NovaGroup: 3, ProcessingPenalty: 2},
		},
	}
}

// ReferenceTable builds the fixture snapshot into a table.
func ReferenceTable() *reference.Table {
	return ReferenceSnapshot().Table()
}

// SeedReference writes the fixture snapshot into db and returns the loaded table.
func SeedReference(t *testing.T, db *gorm.DB) *reference.Table {
	t.Helper()
	store := reference.NewStore(db)
	if _, err := store.Replace(context.Background(), ReferenceSnapshot(), "fixture"); err != nil {
		t.Fatalf("failed to seed reference data: %v", err)
	}
	table, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("failed to load reference data: %v", err)
	}
	return table
}

// Logger returns a logger that discards output.
func Logger() *logger.Logger {
	return logger.Nop()
}

// TokenFor issues a signed token for userID, valid for one hour.
func TokenFor(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID.String(),
		},
		UserID:   userID,
		Username: "tester",
		Role:     role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(TestJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

// PerformRequest sends body to handler and returns the recorded response. An empty token
// sends no Authorization header.
func PerformRequest(handler http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}
