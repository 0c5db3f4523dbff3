package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/winelog/internal/bot/models"
	"github.com/dmitrijs2005/winelog/internal/common"
)

func newSQLiteStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sessions.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestSQLiteStore_Lifecycle(t *testing.T) {
	s, _ := newSQLiteStore(t)
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	_, err := s.Get(ctx, 1)
	require.ErrorIs(t, err, common.ErrorNotFound)

	sess, err := s.Create(ctx, 1, at)
	require.NoError(t, err)
	require.Equal(t, models.StepPhoto, sess.Step)

	_, err = s.Create(ctx, 1, at)
	require.ErrorIs(t, err, common.ErrSessionExists)

	year := int64(2019)
	err = s.Update(ctx, 1, func(sess *models.Session) error {
		sess.Data.WineName = "Malbec"
		sess.Data.VintageYear = &year
		sess.Step = models.StepExperience
		return nil
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Malbec", got.Data.WineName)
	require.NotNil(t, got.Data.VintageYear)
	require.Equal(t, int64(2019), *got.Data.VintageYear)
	require.Equal(t, models.StepExperience, got.Step)
	require.Equal(t, at, got.CreatedAt)

	existed, err := s.Clear(ctx, 1)
	require.NoError(t, err)
	require.True(t, existed)

	existed, err = s.Clear(ctx, 1)
	require.NoError(t, err)
	require.False(t, existed)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	s, path := newSQLiteStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, 42, time.Now().UTC())
	require.NoError(t, err)
	err = s.Update(ctx, 42, func(sess *models.Session) error {
		sess.Data.Region = "Douro"
		sess.Step = models.StepGrapes
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, "Douro", got.Data.Region)
	require.Equal(t, models.StepGrapes, got.Step)
}

func TestSQLiteStore_ClearOlderThan(t *testing.T) {
	s, _ := newSQLiteStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := s.Create(ctx, 1, now.Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = s.Create(ctx, 2, now)
	require.NoError(t, err)

	n, err := s.ClearOlderThan(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, err = s.Get(ctx, 1)
	require.ErrorIs(t, err, common.ErrorNotFound)
	_, err = s.Get(ctx, 2)
	require.NoError(t, err)
}
