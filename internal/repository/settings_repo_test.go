package repository

import (
	"context"
	"testing"

	"lashstudio/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_GetSetUpsert(t *testing.T) {
	db := setupDB(t)
	repo := NewSettingsRepository(db)
	ctx := context.Background()

	_, found, err := repo.Get(ctx, domain.SettingTightWindowDays)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Set(ctx, domain.SettingTightWindowDays, "5"))
	v, found, err := repo.Get(ctx, domain.SettingTightWindowDays)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "5", v)

	// second Set overwrites
	require.NoError(t, repo.Set(ctx, domain.SettingTightWindowDays, "2"))
	v, _, err = repo.Get(ctx, domain.SettingTightWindowDays)
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}
