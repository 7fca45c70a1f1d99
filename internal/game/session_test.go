package game

import (
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	highScore    float64
	level        int
	exp          int64
	tutorialSeen bool
	recorded     []float64
}

func (m *memStore) HighScore() (float64, error)       { return m.highScore, nil }
func (m *memStore) SetHighScore(v float64) error      { m.highScore = v; return nil }
func (m *memStore) AccountLevel() (int, int64, error) { return m.level, m.exp, nil }
func (m *memStore) SetAccountLevel(level int, exp int64) error {
	m.level, m.exp = level, exp
	return nil
}
func (m *memStore) TutorialSeen() (bool, error)  { return m.tutorialSeen, nil }
func (m *memStore) SetTutorialSeen(v bool) error { m.tutorialSeen = v; return nil }
func (m *memStore) RecordScore(finalAsset float64, stage, level int) error {
	m.recorded = append(m.recorded, finalAsset)
	return nil
}

func newTestSession(store *memStore) *Session {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSession(log, rand.New(rand.NewSource(1)), store)
}

// step runs one frame, release-then-press, so every signal lands as an edge.
func press(s *Session, in Input) {
	s.Update(FrameMs, Input{})
	s.Update(FrameMs, in)
}

// settle burns off the post-transition input cooldown.
func settle(s *Session) {
	s.Update(InputCooldownMs+50, Input{})
}

func TestSessionStartsOnTitle(t *testing.T) {
	store := &memStore{highScore: 42_000, level: 3, exp: 100}
	s := newTestSession(store)
	assert.Equal(t, StateTitle, s.State())

	snap := s.Snapshot()
	assert.Equal(t, 42_000.0, snap.HighScore)
	assert.Equal(t, 3, snap.Progress.Level)
	assert.Equal(t, int64(100), snap.Progress.Exp)
}

func TestFirstRunShowsTutorial(t *testing.T) {
	store := &memStore{}
	s := newTestSession(store)
	press(s, Input{Confirm: true})
	assert.Equal(t, StateTutorial, s.State())

	settle(s)
	press(s, Input{Confirm: true})
	assert.Equal(t, StatePlaying, s.State())
	assert.True(t, store.tutorialSeen)
}

func TestReturningPlayerSkipsTutorial(t *testing.T) {
	s := newTestSession(&memStore{tutorialSeen: true})
	press(s, Input{Confirm: true})
	assert.Equal(t, StatePlaying, s.State())
}

func TestStartRunResetsProgression(t *testing.T) {
	// The persisted level shows on the title screen, but bonuses apply
	// per run: a new run starts back at level 1.
	s := newTestSession(&memStore{tutorialSeen: true, level: 11, exp: 900})
	assert.Equal(t, 11, s.Snapshot().Progress.Level)

	press(s, Input{Confirm: true})
	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Progress.Level)
	assert.Equal(t, int64(0), snap.Progress.Exp)
	assert.Equal(t, 1_000_000.0, snap.Player.Balance)
	assert.Equal(t, ItemBaseCharges, snap.Items.Slow.Count)
	assert.Equal(t, InitialTarget, snap.Target)
	assert.Equal(t, StageTimeStart, snap.TimeLeft)
}

func TestEnterWhileOpenClosesFirst(t *testing.T) {
	s := newTestSession(&memStore{tutorialSeen: true})
	press(s, Input{Confirm: true})
	settle(s)

	press(s, Input{Buy: true})
	require.Equal(t, DirLong, s.ledger.Player.Position)

	press(s, Input{Sell: true})
	assert.Equal(t, DirShort, s.ledger.Player.Position)

	// Same direction re-enters too: the old position settles through the
	// normal close path and a fresh one opens at the current price.
	for i := 0; i < 30; i++ {
		s.Update(FrameMs, Input{})
	}
	press(s, Input{Sell: true})
	assert.Equal(t, DirShort, s.ledger.Player.Position)
	assert.Equal(t, s.chart.Price(), s.ledger.Player.EntryPrice)
}

func TestTimerExpiryEndsRun(t *testing.T) {
	store := &memStore{tutorialSeen: true}
	s := newTestSession(store)
	press(s, Input{Confirm: true})
	settle(s)

	for i := 0; i < 120 && s.State() == StatePlaying; i++ {
		s.Update(1_000, Input{})
	}
	require.Equal(t, StateResult, s.State())
	require.Len(t, store.recorded, 1)
	assert.Equal(t, 1_000_000.0, store.recorded[0])
	assert.Equal(t, 1_000_000.0, store.highScore)

	settle(s)
	press(s, Input{Confirm: true})
	assert.Equal(t, StateTitle, s.State())
}

func TestHighScoreOnlyImproves(t *testing.T) {
	store := &memStore{tutorialSeen: true, highScore: 5_000_000}
	s := newTestSession(store)
	press(s, Input{Confirm: true})
	settle(s)
	for i := 0; i < 120 && s.State() == StatePlaying; i++ {
		s.Update(1_000, Input{})
	}
	require.Equal(t, StateResult, s.State())
	assert.Equal(t, 5_000_000.0, store.highScore)
}

func TestMissionCompleteFlow(t *testing.T) {
	s := newTestSession(&memStore{tutorialSeen: true})
	press(s, Input{Confirm: true})
	settle(s)

	s.ledger.Player.StageProfit = s.target
	s.Update(FrameMs, Input{})
	require.Equal(t, StateMissionComplete, s.State())

	settle(s)
	press(s, Input{Confirm: true})
	require.Equal(t, StateRealEstate, s.State())

	settle(s)
	press(s, Input{Next: true})
	require.Equal(t, StatePlaying, s.State())

	snap := s.Snapshot()
	assert.Equal(t, 2, snap.Stage)
	assert.Equal(t, 120_000.0, snap.Target)
	assert.Equal(t, 85_000.0, snap.StageTime)
	assert.Equal(t, 0.0, snap.Player.StageProfit)
}

func TestMissionCompleteForceClosesPosition(t *testing.T) {
	s := newTestSession(&memStore{tutorialSeen: true})
	press(s, Input{Confirm: true})
	settle(s)

	press(s, Input{Buy: true})
	require.Equal(t, DirLong, s.ledger.Player.Position)

	s.ledger.Player.StageProfit = s.target
	s.Update(FrameMs, Input{})
	require.Equal(t, StateMissionComplete, s.State())
	assert.Equal(t, DirNone, s.ledger.Player.Position)
	assert.Equal(t, 0, s.ledger.Combo.Count)
}

func TestRealEstateCursorAndPurchase(t *testing.T) {
	s := newTestSession(&memStore{tutorialSeen: true})
	press(s, Input{Confirm: true})
	settle(s)
	s.ledger.Player.StageProfit = s.target
	s.Update(FrameMs, Input{})
	settle(s)
	press(s, Input{Confirm: true})
	require.Equal(t, StateRealEstate, s.State())
	settle(s)

	press(s, Input{CursorDown: true})
	assert.Equal(t, 1, s.Snapshot().RealEstate.Cursor)
	press(s, Input{CursorUp: true})
	press(s, Input{CursorUp: true})
	assert.Equal(t, 0, s.Snapshot().RealEstate.Cursor)

	balance := s.ledger.Player.Balance
	cost := s.estate.Cost(Catalog[0])
	press(s, Input{Buy: true})
	assert.Equal(t, []string{"house"}, s.Snapshot().RealEstate.Holdings)
	assert.Equal(t, balance-cost, s.ledger.Player.Balance)

	press(s, Input{Sell: true})
	assert.Empty(t, s.Snapshot().RealEstate.Holdings)
	assert.Equal(t, balance, s.ledger.Player.Balance)
}

func TestBetCycleOnlyWhenFlat(t *testing.T) {
	s := newTestSession(&memStore{tutorialSeen: true})
	press(s, Input{Confirm: true})
	settle(s)

	press(s, Input{Bet: true})
	assert.Equal(t, 0.1, s.ledger.Player.BetScale)

	press(s, Input{Buy: true})
	require.Equal(t, DirLong, s.ledger.Player.Position)
	press(s, Input{Bet: true})
	assert.Equal(t, 0.1, s.ledger.Player.BetScale)
}

func TestItemActivationConsumesCharge(t *testing.T) {
	s := newTestSession(&memStore{tutorialSeen: true})
	press(s, Input{Confirm: true})
	settle(s)

	press(s, Input{SlowItem: true})
	snap := s.Snapshot()
	assert.Equal(t, ItemBaseCharges-1, snap.Items.Slow.Count)
	assert.True(t, snap.Items.Slow.Active())

	// A second press while active is ignored.
	press(s, Input{SlowItem: true})
	assert.Equal(t, ItemBaseCharges-1, s.Snapshot().Items.Slow.Count)

	s.Update(ItemDuration+100, Input{})
	assert.False(t, s.Snapshot().Items.Slow.Active())
}

func TestHeldButtonFiresOnce(t *testing.T) {
	s := newTestSession(&memStore{tutorialSeen: true})
	press(s, Input{Confirm: true})
	settle(s)

	press(s, Input{Buy: true})
	invested := s.ledger.Player.Invested
	require.Greater(t, invested, 0.0)

	// Holding buy across frames must not re-enter.
	for i := 0; i < 10; i++ {
		s.Update(FrameMs, Input{Buy: true})
	}
	assert.Equal(t, invested, s.ledger.Player.Invested)
	assert.Equal(t, DirLong, s.ledger.Player.Position)
}

func TestDrainNotificationsOrdersByPriority(t *testing.T) {
	s := newTestSession(&memStore{tutorialSeen: true})
	s.push(Notification{Kind: NoteBetCycled, Priority: 0})
	s.push(Notification{Kind: NoteNews, Priority: 3})
	s.push(Notification{Kind: NoteRent, Priority: 1})

	notes := s.DrainNotifications()
	require.Len(t, notes, 3)
	assert.Equal(t, NoteNews, notes[0].Kind)
	assert.Equal(t, NoteRent, notes[1].Kind)
	assert.Equal(t, NoteBetCycled, notes[2].Kind)
	assert.Nil(t, s.DrainNotifications())
}

func TestWarningFiresInFinalSeconds(t *testing.T) {
	s := newTestSession(&memStore{tutorialSeen: true})
	press(s, Input{Confirm: true})
	settle(s)

	s.timer = WarningWindowMs - 100
	s.DrainNotifications()
	s.Update(FrameMs, Input{})

	var warned bool
	for _, n := range s.DrainNotifications() {
		if n.Kind == NoteWarning {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestRentPaysOnCycle(t *testing.T) {
	s := newTestSession(&memStore{tutorialSeen: true})
	press(s, Input{Confirm: true})
	settle(s)

	s.estate.Holdings = append(s.estate.Holdings, "house")
	balance := s.ledger.Player.Balance
	s.Update(RentIntervalMs+100, Input{})
	assert.Equal(t, balance+20_000, s.ledger.Player.Balance)
}

func TestSnapshotIsDetached(t *testing.T) {
	s := newTestSession(&memStore{tutorialSeen: true})
	press(s, Input{Confirm: true})
	snap := s.Snapshot()
	if len(snap.Candles) > 0 {
		snap.Candles[0].Close = -1
	}
	assert.NotEqual(t, -1.0, s.Snapshot().Candles[0].Close)
}
