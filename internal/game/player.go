package game

import "math"

// Direction of an open position. The numeric values are the profit sign.
type Direction int

const (
	DirNone  Direction = 0
	DirLong  Direction = 1
	DirShort Direction = -1
)

func (d Direction) String() string {
	switch d {
	case DirLong:
		return "long"
	case DirShort:
		return "short"
	}
	return "none"
}

// Player carries the run economy: cash balance, the open position, and the
// per-stage profit accumulator used for the mission target.
type Player struct {
	Balance    float64 `json:"balance"`
	BetScale   float64 `json:"bet_scale"`
	Position   Direction
	Invested   float64 `json:"invested"`
	EntryPrice float64 `json:"entry_price"`
	// Profit is the mark-to-market profit of the open position, refreshed
	// every tick by Recalculate.
	Profit float64 `json:"profit"`
	// ProfitMultiplier is the real-estate buff applied on winning closes.
	ProfitMultiplier float64 `json:"profit_multiplier"`
	// StageProfit accumulates positive realized profit toward the stage
	// target; it resets on every stage transition.
	StageProfit float64 `json:"stage_profit"`
}

// Combo is the consecutive-win counter with its hold countdown.
type Combo struct {
	Count        int     `json:"count"`
	Remaining    float64 `json:"remaining"`
	MaxRemaining float64 `json:"max_remaining"`
}

// CloseResult reports what a close realized, for notifications and
// experience gain.
type CloseResult struct {
	Win        bool
	RawProfit  float64
	Profit     float64
	Multiplier float64
	Invested   float64
	ComboCount int
	Exp        int64
}

// Ledger owns the player economy and combo state. All mutation goes through
// the session's single update step.
type Ledger struct {
	Player Player
	Combo  Combo
}

func NewLedger(balance float64) Ledger {
	return Ledger{Player: Player{
		Balance:          balance,
		BetScale:         1.0,
		ProfitMultiplier: 1.0,
	}}
}

// Open debits balance*betScale and opens a position at price. Returns false
// without mutating anything when the computed invest amount is not positive.
// The caller closes any prior position first so the profit realization runs
// through the normal close path.
func (l *Ledger) Open(dir Direction, price float64) bool {
	if dir == DirNone {
		return false
	}
	invest := math.Floor(l.Player.Balance * l.Player.BetScale)
	if invest <= 0 {
		return false
	}
	l.Player.Balance -= invest
	l.Player.Invested = invest
	l.Player.Position = dir
	l.Player.EntryPrice = price
	l.Player.Profit = 0
	return true
}

// Close realizes the open position at price. A strictly positive raw profit
// extends the combo and is scaled by the combo, fever and real-estate
// multipliers; anything else resets the combo and returns capital plus the
// (non-positive) raw profit. comboBonus is the level-derived hold extension
// in milliseconds.
func (l *Ledger) Close(price float64, comboBonus float64) CloseResult {
	l.Recalculate(price)
	raw := l.Player.Profit
	res := CloseResult{
		RawProfit: raw,
		Profit:    raw,
		Invested:  l.Player.Invested,
	}

	if raw > 0 {
		res.Win = true
		l.Combo.Count++

		hold := ComboHoldBase
		if l.Combo.Count >= 3 {
			hold = math.Max(ComboHoldFloor, ComboHoldBase-float64(l.Combo.Count-2)*1000)
		}
		hold += comboBonus
		l.Combo.Remaining = hold
		l.Combo.MaxRemaining = hold

		mult := 1 + float64(l.Combo.Count)*0.1
		if l.Combo.Count >= 2 {
			mult *= 2
		}
		mult *= l.Player.ProfitMultiplier
		res.Multiplier = mult
		res.Profit = raw * mult
		if res.Profit > 0 {
			l.Player.StageProfit += res.Profit
		}
		res.Exp = int64(math.Floor(res.Profit * 0.01))
	} else {
		l.Combo = Combo{}
	}
	res.ComboCount = l.Combo.Count

	l.Player.Balance += l.Player.Invested + res.Profit
	l.Player.Invested = 0
	l.Player.Position = DirNone
	l.Player.EntryPrice = 0
	l.Player.Profit = 0
	return res
}

// Recalculate refreshes mark-to-market profit against the current price.
func (l *Ledger) Recalculate(price float64) {
	if l.Player.Position == DirNone || l.Player.EntryPrice == 0 {
		l.Player.Profit = 0
		return
	}
	diff := (price - l.Player.EntryPrice) / l.Player.EntryPrice
	l.Player.Profit = l.Player.Invested * diff * float64(l.Player.Position)
}

// TickCombo counts the hold window down; expiry resets the combo.
func (l *Ledger) TickCombo(delta float64) {
	if l.Combo.Count == 0 {
		return
	}
	l.Combo.Remaining -= delta
	if l.Combo.Remaining <= 0 {
		l.Combo = Combo{}
	}
}

// ResetStage clears the per-stage counters when a new stage begins. Balance,
// bet scale and the real-estate multiplier persist for the run.
func (l *Ledger) ResetStage() {
	l.Player.StageProfit = 0
	l.Player.Invested = 0
	l.Player.Position = DirNone
	l.Player.EntryPrice = 0
	l.Player.Profit = 0
	l.Combo = Combo{}
}

// TotalAsset is the score basis: cash plus invested capital plus
// mark-to-market profit.
func (l *Ledger) TotalAsset() float64 {
	return l.Player.Balance + l.Player.Invested + l.Player.Profit
}

var betScales = []float64{0.1, 0.25, 0.5, 1.0}

// CycleBetScale advances to the next allowed bet fraction, wrapping around.
// Fractions above max are filtered out; max comes from the caller's
// level gate.
func (l *Ledger) CycleBetScale(max float64) float64 {
	allowed := make([]float64, 0, len(betScales))
	for _, s := range betScales {
		if s <= max {
			allowed = append(allowed, s)
		}
	}
	if len(allowed) == 0 {
		return l.Player.BetScale
	}
	idx := -1
	for i, s := range allowed {
		if s == l.Player.BetScale {
			idx = i
			break
		}
	}
	l.Player.BetScale = allowed[(idx+1)%len(allowed)]
	return l.Player.BetScale
}
