package reference

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/akeen90/nutrasafe-beta-sub001/internal/models"
)

func loadTestSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	f, err := os.Open("testdata/reference.yaml")
	require.NoError(t, err)
	defer f.Close()

	snap, err := DecodeSnapshot(f.Name(), f)
	require.NoError(t, err)
	return snap
}

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	// Every pooled connection would otherwise get its own empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Additive{},
		&models.AdditiveOverride{},
		&models.UltraProcessedIngredient{},
		&models.ReferenceVersion{},
	))
	return NewStore(db)
}

func boolPtr(b bool) *bool { return &b }
