package game

import (
	"log/slog"
	"math"
	"math/rand"
	"sort"
)

// Store persists the account between runs. The session reads once at start
// and writes on game over; it never blocks the frame loop on storage.
type Store interface {
	HighScore() (float64, error)
	SetHighScore(v float64) error
	AccountLevel() (int, int64, error)
	SetAccountLevel(level int, exp int64) error
	TutorialSeen() (bool, error)
	SetTutorialSeen(v bool) error
	RecordScore(finalAsset float64, stage, level int) error
}

// Session is the frame-driven game core. One Update call per frame with the
// elapsed milliseconds and the current input state. Rendering, sound and key
// decoding live in collaborators that consume the Snapshot and the
// notification queue.
type Session struct {
	log   *slog.Logger
	rand  *rand.Rand
	store Store

	chart    *Chart
	ledger   Ledger
	progress Progress
	estate   *RealEstate

	state State
	stage int

	// Countdown timers, all in remaining milliseconds.
	stageTime     float64
	timer         float64
	inputCooldown float64
	warningTimer  float64
	rentTimer     float64

	target      float64
	highScore   float64
	tickCounter float64
	items       Items
	reCursor    int

	prev  Input
	notes []Notification

	tutorialSeen bool
}

// NewSession loads the persisted account and puts the session on the title
// screen. rnd drives every random draw so runs are reproducible under a
// fixed seed.
func NewSession(log *slog.Logger, rnd *rand.Rand, store Store) *Session {
	s := &Session{
		log:   log,
		rand:  rnd,
		store: store,
		chart: NewChart(rnd),
		state: StateTitle,
	}
	s.progress = NewProgress()
	s.estate = NewRealEstate()
	s.ledger = NewLedger(StartingBalance)

	if hs, err := store.HighScore(); err == nil {
		s.highScore = hs
	} else {
		log.Warn("load high score", "err", err)
	}
	if level, exp, err := store.AccountLevel(); err == nil && level >= 1 {
		s.progress.Level = level
		s.progress.Exp = exp
		s.progress.ReqExp = requiredExp(level)
	} else if err != nil {
		log.Warn("load account level", "err", err)
	}
	if seen, err := store.TutorialSeen(); err == nil {
		s.tutorialSeen = seen
	}
	return s
}

func (s *Session) State() State { return s.state }

// Update advances the session by delta milliseconds under the given input.
// It is the single mutation point; callers must not interleave concurrent
// calls.
func (s *Session) Update(delta float64, in Input) {
	edges := in.edges(s.prev)
	s.prev = in

	if s.inputCooldown > 0 {
		s.inputCooldown -= delta
		edges = Input{}
	}

	switch s.state {
	case StateTitle:
		// Ambient ticker behind the title screen.
		s.tickCounter += delta / FrameMs
		for s.tickCounter >= TickInterval {
			s.tickCounter -= TickInterval
			s.chart.Advance()
		}
		if edges.Confirm || edges.Buy || edges.Sell {
			s.startRun()
		}

	case StateTutorial:
		if edges.Confirm || edges.Close {
			s.tutorialSeen = true
			if err := s.store.SetTutorialSeen(true); err != nil {
				s.log.Warn("persist tutorial flag", "err", err)
			}
			s.enterPlay()
		}

	case StatePlaying:
		s.updatePlaying(delta, edges)

	case StateResult:
		if edges.Confirm {
			s.toTitle()
		}

	case StateMissionComplete:
		if edges.Confirm {
			s.enterRealEstate()
		}

	case StateRealEstate:
		s.updateRealEstate(edges)
	}
}

func (s *Session) startRun() {
	// Progression bonuses apply per run; the persisted level is for the
	// title screen only.
	s.progress = NewProgress()
	s.stage = 1
	s.target = InitialTarget
	s.stageTime = StageTimeStart
	s.timer = s.stageTime
	s.warningTimer = 0
	s.rentTimer = RentIntervalMs
	s.tickCounter = 0
	s.reCursor = 0

	s.ledger = NewLedger(math.Floor(StartingBalance * s.progress.StartBalanceMultiplier()))
	s.estate.Reset()
	s.chart.Reset()
	s.chart.SetStage(1)

	charges := s.progress.ItemChargeCap()
	s.items = Items{Slow: Item{Count: charges}, View: Item{Count: charges}}

	s.inputCooldown = InputCooldownMs
	if s.tutorialSeen {
		s.state = StatePlaying
	} else {
		s.state = StateTutorial
	}
	s.log.Info("run started", "level", s.progress.Level, "balance", s.ledger.Player.Balance)
}

func (s *Session) enterPlay() {
	s.state = StatePlaying
	s.inputCooldown = InputCooldownMs
}

func (s *Session) updatePlaying(delta float64, edges Input) {
	s.timer -= delta
	if s.timer <= 0 {
		s.timer = 0
		s.gameOver()
		return
	}

	// One warning cue per remaining second inside the final ten.
	if s.timer <= WarningWindowMs {
		s.warningTimer -= delta
		if s.warningTimer <= 0 {
			s.warningTimer = 1000
			s.push(Notification{Kind: NoteWarning, Text: "Time running out!", Priority: 2})
		}
	}

	// Rent pays out on a fixed cycle while actually trading.
	if s.estate.RentDue() > 0 {
		s.rentTimer -= delta
		if s.rentTimer <= 0 {
			s.rentTimer += RentIntervalMs
			rent := s.estate.RentDue()
			s.ledger.Player.Balance += rent
			s.push(Notification{Kind: NoteRent, Text: "Rent collected", Amount: rent, Priority: 1})
		}
	}

	// Chart ticks at the frame-derived rate; the slow power-up widens the
	// interval rather than scaling delta, so timers keep real time.
	interval := float64(TickInterval)
	if s.items.Slow.Active() {
		interval = SlowTickInterval
	}
	s.tickCounter += delta / FrameMs
	for s.tickCounter >= interval {
		s.tickCounter -= interval
		s.chart.Advance()
		s.maybeTriggerNews()
	}

	s.tickItems(delta)
	s.ledger.TickCombo(delta)

	if edges.SlowItem && s.items.Slow.Count > 0 && !s.items.Slow.Active() {
		s.items.Slow.Count--
		s.items.Slow.Remaining = ItemDuration
	}
	if edges.ViewItem && s.items.View.Count > 0 && !s.items.View.Active() {
		s.items.View.Count--
		s.items.View.Remaining = ItemDuration
	}

	if edges.Bet && s.ledger.Player.Position == DirNone {
		scale := s.ledger.CycleBetScale(1.0)
		s.push(Notification{Kind: NoteBetCycled, Amount: scale, Priority: 0})
	}

	switch {
	case edges.Buy:
		s.enterPosition(DirLong)
	case edges.Sell:
		s.enterPosition(DirShort)
	case edges.Close && s.ledger.Player.Position != DirNone:
		s.closePosition()
	}

	s.ledger.Recalculate(s.chart.Price())

	if s.ledger.Player.StageProfit >= s.target {
		s.completeMission()
	}
}

func (s *Session) maybeTriggerNews() {
	if s.chart.News() != nil || s.rand.Float64() >= NewsChancePerTick {
		return
	}
	r := s.rand.Float64()
	var kind NewsKind
	switch {
	case r < 0.05:
		kind = NewsCrash
	case r < 0.525:
		kind = NewsBull
	default:
		kind = NewsBear
	}
	if ev := s.chart.TriggerNews(kind); ev != nil {
		s.push(Notification{Kind: NoteNews, Text: ev.Text, Priority: 3})
		s.log.Info("news", "kind", ev.Kind.String())
	}
}

func (s *Session) tickItems(delta float64) {
	if s.items.Slow.Remaining > 0 {
		s.items.Slow.Remaining = math.Max(0, s.items.Slow.Remaining-delta)
	}
	if s.items.View.Remaining > 0 {
		s.items.View.Remaining = math.Max(0, s.items.View.Remaining-delta)
	}
}

// enterPosition closes any open position through the normal realization path
// before opening the new one, so flipping direction still settles profit.
func (s *Session) enterPosition(dir Direction) {
	if s.ledger.Player.Position != DirNone {
		s.closePosition()
	}
	if !s.ledger.Open(dir, s.chart.Price()) {
		s.push(Notification{Kind: NoteRejected, Text: "Not enough cash", Priority: 1})
		return
	}
	s.push(Notification{
		Kind:   NoteTradeOpened,
		Text:   dir.String(),
		Amount: s.ledger.Player.Invested,
	})
}

func (s *Session) closePosition() {
	res := s.ledger.Close(s.chart.Price(), s.progress.ComboDurationBonus())
	s.push(Notification{
		Kind:     NoteTradeClosed,
		Text:     closeText(res),
		Amount:   res.Profit,
		Priority: 1,
	})
	if res.Exp > 0 {
		prevCap := s.progress.ItemChargeCap()
		if gained := s.progress.AddExperience(res.Exp); gained > 0 {
			text := "Level up!"
			if s.progress.ItemChargeCap() > prevCap {
				text = "Level up! Power-up cap increased"
			}
			s.push(Notification{Kind: NoteLevelUp, Text: text, Amount: float64(s.progress.Level), Priority: 2})
			s.log.Info("level up", "level", s.progress.Level)
		}
	}
}

func closeText(res CloseResult) string {
	if !res.Win {
		return "Position closed"
	}
	if res.ComboCount >= 2 {
		return "FEVER win!"
	}
	return "Winning close"
}

func (s *Session) completeMission() {
	if s.ledger.Player.Position != DirNone {
		s.closePosition()
	}
	s.ledger.Combo = Combo{}
	s.estate.RollTrend(s.rand)
	s.push(Notification{Kind: NoteMissionComplete, Text: "Mission complete!", Amount: float64(s.stage), Priority: 3})
	s.log.Info("mission complete", "stage", s.stage, "stage_profit", s.ledger.Player.StageProfit)
	s.state = StateMissionComplete
	s.inputCooldown = InputCooldownMs
}

func (s *Session) enterRealEstate() {
	s.reCursor = 0
	s.state = StateRealEstate
	s.inputCooldown = InputCooldownMs
	if s.estate.TrendText != "" {
		s.push(Notification{Kind: NoteNews, Text: s.estate.TrendText, Priority: 1})
	}
}

func (s *Session) updateRealEstate(edges Input) {
	if edges.CursorUp && s.reCursor > 0 {
		s.reCursor--
	}
	if edges.CursorDown && s.reCursor < len(Catalog)-1 {
		s.reCursor++
	}

	switch {
	case edges.Buy || edges.Confirm:
		b := Catalog[s.reCursor]
		if s.estate.Buy(&s.ledger.Player, s.reCursor) {
			s.push(Notification{Kind: NoteBuildingBought, Text: b.Name, Amount: s.estate.Cost(b), Priority: 1})
		} else {
			s.push(Notification{Kind: NoteRejected, Text: "Not enough cash", Priority: 1})
		}
	case edges.Sell:
		b := Catalog[s.reCursor]
		if s.estate.Sell(&s.ledger.Player, s.reCursor) {
			s.push(Notification{Kind: NoteBuildingSold, Text: b.Name, Amount: s.estate.Cost(b), Priority: 1})
		} else {
			s.push(Notification{Kind: NoteRejected, Text: "Nothing to sell", Priority: 1})
		}
	case edges.Next:
		s.nextStage()
	}
}

func (s *Session) nextStage() {
	s.stage++
	s.chart.SetStage(s.stage)

	extra := s.estate.ApplyStageEffects(&s.ledger.Player)
	charges := s.progress.ItemChargeCap()
	s.items = Items{Slow: Item{Count: charges}, View: Item{Count: charges + extra}}

	s.target = math.Floor(s.target * TargetGrowth)
	s.stageTime = math.Max(StageTimeFloor, s.stageTime-StageTimeStep)
	s.timer = s.stageTime
	s.warningTimer = 0
	s.rentTimer = RentIntervalMs
	s.tickCounter = 0

	s.ledger.ResetStage()
	s.state = StatePlaying
	s.inputCooldown = InputCooldownMs
	s.log.Info("stage started", "stage", s.stage, "target", s.target, "stage_time_ms", s.stageTime)
}

func (s *Session) gameOver() {
	final := math.Floor(s.ledger.TotalAsset())
	if final > s.highScore {
		s.highScore = final
		if err := s.store.SetHighScore(final); err != nil {
			s.log.Warn("persist high score", "err", err)
		}
	}
	if err := s.store.SetAccountLevel(s.progress.Level, s.progress.Exp); err != nil {
		s.log.Warn("persist account level", "err", err)
	}
	if err := s.store.RecordScore(final, s.stage, s.progress.Level); err != nil {
		s.log.Warn("record score", "err", err)
	}

	s.push(Notification{Kind: NoteGameOver, Text: "Time's up", Amount: final, Priority: 3})
	s.log.Info("game over", "final_asset", final, "stage", s.stage, "level", s.progress.Level)
	s.state = StateResult
	s.inputCooldown = InputCooldownMs
}

func (s *Session) toTitle() {
	s.state = StateTitle
	s.chart.Reset()
	s.tickCounter = 0
	s.inputCooldown = InputCooldownMs
}

func (s *Session) push(n Notification) {
	s.notes = append(s.notes, n)
}

// DrainNotifications returns pending notifications ordered by priority
// (highest first, stable within a priority) and clears the queue.
func (s *Session) DrainNotifications() []Notification {
	if len(s.notes) == 0 {
		return nil
	}
	out := make([]Notification, len(s.notes))
	copy(out, s.notes)
	s.notes = s.notes[:0]
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}

// Snapshot copies the observable state for the presentation and observer
// collaborators. Mutating the result never touches the session.
func (s *Session) Snapshot() Snapshot {
	holdings := make([]string, len(s.estate.Holdings))
	copy(holdings, s.estate.Holdings)

	return Snapshot{
		State:       s.state,
		StateName:   s.state.String(),
		Stage:       s.stage,
		Target:      s.target,
		TimeLeft:    s.timer,
		StageTime:   s.stageTime,
		Candles:     s.chart.Candles(),
		Price:       s.chart.Price(),
		Trend:       s.chart.Trend(),
		News:        s.chart.News(),
		CrashActive: s.chart.CrashActive(),
		Player:      s.ledger.Player,
		Combo:       s.ledger.Combo,
		Progress:    s.progress,
		Items:       s.items,
		RealEstate: RealEstateView{
			Holdings:  holdings,
			Trend:     s.estate.Trend,
			TrendText: s.estate.TrendText,
			Valuation: s.estate.Valuation(),
			Cursor:    s.reCursor,
		},
		TotalAsset: s.ledger.TotalAsset(),
		HighScore:  s.highScore,
	}
}
