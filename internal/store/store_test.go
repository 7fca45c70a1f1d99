package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "save.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDefaultsOnFreshFile(t *testing.T) {
	s := openTestStore(t)

	hs, err := s.HighScore()
	require.NoError(t, err)
	assert.Equal(t, 0.0, hs)

	level, exp, err := s.AccountLevel()
	require.NoError(t, err)
	assert.Equal(t, 0, level)
	assert.Equal(t, int64(0), exp)

	seen, err := s.TutorialSeen()
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestValuesRoundTrip(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SetHighScore(1_234_567))
	require.NoError(t, s.SetAccountLevel(7, 550))
	require.NoError(t, s.SetTutorialSeen(true))

	hs, err := s.HighScore()
	require.NoError(t, err)
	assert.Equal(t, 1_234_567.0, hs)

	level, exp, err := s.AccountLevel()
	require.NoError(t, err)
	assert.Equal(t, 7, level)
	assert.Equal(t, int64(550), exp)

	seen, err := s.TutorialSeen()
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestSetOverwrites(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.SetHighScore(100))
	require.NoError(t, s.SetHighScore(250))
	hs, err := s.HighScore()
	require.NoError(t, err)
	assert.Equal(t, 250.0, hs)
}

func TestScoreHistoryOrdering(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.RecordScore(500_000, 2, 1))
	require.NoError(t, s.RecordScore(2_000_000, 5, 3))
	require.NoError(t, s.RecordScore(1_000_000, 3, 2))

	scores, err := s.TopScores(10)
	require.NoError(t, err)
	require.Len(t, scores, 3)
	assert.Equal(t, 2_000_000.0, scores[0].FinalAsset)
	assert.Equal(t, 5, scores[0].Stage)
	assert.Equal(t, 1_000_000.0, scores[1].FinalAsset)
	assert.Equal(t, 500_000.0, scores[2].FinalAsset)
	assert.NotEmpty(t, scores[0].ID)
}

func TestTopScoresLimit(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.RecordScore(float64(i)*1000, 1, 1))
	}
	scores, err := s.TopScores(3)
	require.NoError(t, err)
	assert.Len(t, scores, 3)
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.SetHighScore(999))
	require.NoError(t, s.RecordScore(999, 1, 1))
	require.NoError(t, s.Reset())

	hs, err := s.HighScore()
	require.NoError(t, err)
	assert.Equal(t, 0.0, hs)

	scores, err := s.TopScores(10)
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetHighScore(777))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	hs, err := s.HighScore()
	require.NoError(t, err)
	assert.Equal(t, 777.0, hs)
}
