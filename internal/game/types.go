package game

// State is the session phase.
type State int

const (
	StateTitle State = iota
	StateTutorial
	StatePlaying
	StateResult
	StateMissionComplete
	StateRealEstate
)

var stateNames = [...]string{"title", "tutorial", "playing", "result", "mission_complete", "real_estate"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Input is the per-frame signal set from the input collaborator. Fields are
// held-state; the session derives press edges itself, so a button held
// across frames fires once.
type Input struct {
	Buy      bool
	Sell     bool
	Close    bool
	Bet      bool
	SlowItem bool
	ViewItem bool
	Confirm  bool
	// Next is the dedicated confirm-2 that leaves the real-estate screen.
	Next       bool
	CursorUp   bool
	CursorDown bool
}

// edges returns the signals that were pressed this frame.
func (in Input) edges(prev Input) Input {
	return Input{
		Buy:        in.Buy && !prev.Buy,
		Sell:       in.Sell && !prev.Sell,
		Close:      in.Close && !prev.Close,
		Bet:        in.Bet && !prev.Bet,
		SlowItem:   in.SlowItem && !prev.SlowItem,
		ViewItem:   in.ViewItem && !prev.ViewItem,
		Confirm:    in.Confirm && !prev.Confirm,
		Next:       in.Next && !prev.Next,
		CursorUp:   in.CursorUp && !prev.CursorUp,
		CursorDown: in.CursorDown && !prev.CursorDown,
	}
}

// NoteKind classifies a one-shot notification for the presentation layer.
type NoteKind int

const (
	NoteTradeOpened NoteKind = iota
	NoteTradeClosed
	NoteNews
	NoteLevelUp
	NoteBuildingBought
	NoteBuildingSold
	NoteRent
	NoteBetCycled
	NoteRejected
	NoteWarning
	NoteMissionComplete
	NoteGameOver
)

// Notification is a pending presentation intent. The core only enqueues;
// sounds and animation belong to the collaborator that drains the queue.
type Notification struct {
	Kind     NoteKind
	Text     string
	Amount   float64
	Priority int
}

// Item is one power-up slot: remaining charges and the active-effect
// countdown in milliseconds.
type Item struct {
	Count     int     `json:"count"`
	Remaining float64 `json:"remaining"`
}

func (it Item) Active() bool { return it.Remaining > 0 }

// Items bundles the two power-ups.
type Items struct {
	Slow Item `json:"slow"`
	View Item `json:"view"`
}

// RealEstateView is the read-only real-estate slice of a snapshot.
type RealEstateView struct {
	Holdings  []string `json:"holdings"`
	Trend     float64  `json:"trend"`
	TrendText string   `json:"trend_text"`
	Valuation float64  `json:"valuation"`
	Cursor    int      `json:"cursor"`
}

// Snapshot is the read-only copy of session state handed to the
// presentation, input and observer collaborators each frame.
type Snapshot struct {
	State       State          `json:"-"`
	StateName   string         `json:"state"`
	Stage       int            `json:"stage"`
	Target      float64        `json:"target"`
	TimeLeft    float64        `json:"time_left_ms"`
	StageTime   float64        `json:"stage_time_ms"`
	Candles     []Candle       `json:"candles"`
	Price       float64        `json:"price"`
	Trend       Trend          `json:"trend"`
	News        *NewsEvent     `json:"news,omitempty"`
	CrashActive bool           `json:"crash_active"`
	Player      Player         `json:"player"`
	Combo       Combo          `json:"combo"`
	Progress    Progress       `json:"progress"`
	Items       Items          `json:"items"`
	RealEstate  RealEstateView `json:"real_estate"`
	TotalAsset  float64        `json:"total_asset"`
	HighScore   float64        `json:"high_score"`
}
