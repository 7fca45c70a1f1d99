package game

import (
	"fmt"
	"math/rand"
)

// Candle is one OHLC bar. Immutable once appended to the chart.
type Candle struct {
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
	Seq   int64   `json:"seq"`
	Time  string  `json:"time"`
}

// Regime names a (drift, volatility) pair that governs price evolution until
// its duration runs out or a news event interrupts it.
type Regime int

const (
	RegimeFlat Regime = iota
	RegimeBull
	RegimeBear
	RegimeVolatile
	RegimeFear
	RegimeGreed
	RegimeRebound
)

var regimeNames = [...]string{"flat", "bull", "bear", "volatile", "fear", "greed", "rebound"}

func (r Regime) String() string {
	if r < 0 || int(r) >= len(regimeNames) {
		return "unknown"
	}
	return regimeNames[r]
}

// Trend is the coarse direction derived from the active drift, used by the
// view power-up.
type Trend int

const (
	TrendFlat Trend = iota
	TrendUp
	TrendDown
)

type NewsKind int

const (
	NewsBull NewsKind = iota
	NewsBear
	NewsCrash
)

func (k NewsKind) String() string {
	switch k {
	case NewsBull:
		return "bull"
	case NewsBear:
		return "bear"
	case NewsCrash:
		return "crash"
	}
	return "unknown"
}

// NewsEvent is a discrete shock overriding the regime until it expires.
// A crash carries a one-tick pending impulse followed by a frozen-drift
// cooldown.
type NewsEvent struct {
	Kind         NewsKind `json:"kind"`
	Text         string   `json:"text"`
	TicksLeft    int      `json:"ticks_left"`
	crashPending bool
}

var bullHeadlines = []string{
	"BREAKING: Monster rally under way!",
	"BREAKING: Breakthrough tech unveiled!",
	"BREAKING: Whale accumulation spotted!",
	"BREAKING: Market outlook upgraded!",
}

var bearHeadlines = []string{
	"BREAKING: Bad news hits the tape!",
	"BREAKING: Major exchange hacked!",
	"BREAKING: Regulators crack down!",
	"BREAKING: Insiders dumping size!",
}

var crashHeadlines = []string{
	"BREAKING: Black swan! Markets in freefall!",
	"BREAKING: Exchange insolvent! Bank run!",
	"BREAKING: The crash is here. Get out!",
}

// Chart produces the procedural price series: a fixed-capacity rolling window
// of candles driven by the active regime plus discrete news shocks.
type Chart struct {
	rand *rand.Rand

	candles    []Candle
	price      float64
	drift      float64
	volatility float64
	regime     Regime
	regimeLeft int
	news       *NewsEvent
	stage      int

	seq      int64
	clockMin int
}

// NewChart seeds the rolling window with flat candles at the start price.
func NewChart(rnd *rand.Rand) *Chart {
	c := &Chart{rand: rnd}
	c.Reset()
	return c
}

// Reset reinitializes the window, regime, news and clock state.
func (c *Chart) Reset() {
	c.candles = c.candles[:0]
	c.price = StartPrice
	c.drift = 0
	c.volatility = 0
	c.regimeLeft = 0
	c.news = nil
	c.stage = 1
	c.seq = 0
	c.clockMin = 9 * 60
	for i := 0; i < MaxCandles; i++ {
		c.append(Candle{Open: c.price, High: c.price, Low: c.price, Close: c.price})
	}
}

func (c *Chart) SetStage(stage int) {
	if stage < 1 {
		stage = 1
	}
	c.stage = stage
}

func (c *Chart) Price() float64 { return c.price }

func (c *Chart) Regime() Regime { return c.regime }

// News returns a copy of the active event, or nil.
func (c *Chart) News() *NewsEvent {
	if c.news == nil {
		return nil
	}
	n := *c.news
	return &n
}

// CrashActive reports whether a crash shock is in flight, for the
// presentation layer's screen shake.
func (c *Chart) CrashActive() bool {
	return c.news != nil && c.news.Kind == NewsCrash
}

// Trend thresholds the current drift at +/-1.0.
func (c *Chart) Trend() Trend {
	switch {
	case c.drift > 1.0:
		return TrendUp
	case c.drift < -1.0:
		return TrendDown
	default:
		return TrendFlat
	}
}

// Candles returns a copy of the rolling window, oldest first.
func (c *Chart) Candles() []Candle {
	out := make([]Candle, len(c.candles))
	copy(out, c.candles)
	return out
}

func (c *Chart) stageMult() float64 {
	return 1 + float64(c.stage-1)*0.1
}

// Advance runs one simulation tick and appends the resulting candle. The
// caller gates the tick rate (slow mode included); every call produces
// exactly one candle.
func (c *Chart) Advance() Candle {
	if c.news != nil {
		if c.news.Kind == NewsCrash {
			if c.news.crashPending {
				// One-tick collapse of 45-60% of the current price,
				// then the market freezes until the event expires.
				c.drift = -c.price * (0.45 + c.rand.Float64()*0.15)
				c.news.crashPending = false
			} else {
				c.drift = 0
			}
		}
		c.news.TicksLeft--
		if c.news.TicksLeft <= 0 {
			c.news = nil
			c.pickRegime()
		}
	} else {
		if c.regimeLeft <= 0 {
			c.pickRegime()
		}
		c.regimeLeft--
	}

	open := c.price
	noise := (c.rand.Float64() - 0.5) * c.volatility
	c.price += c.drift + noise
	if c.price < PriceFloor {
		c.price = PriceFloor
	}
	close := c.price

	high := maxf(open, close) + c.rand.Float64()*c.volatility*0.5
	low := minf(open, close) - c.rand.Float64()*c.volatility*0.5
	if low < 0 {
		low = 0
	}

	candle := Candle{Open: open, High: high, Low: low, Close: close}
	c.append(candle)
	return c.candles[len(c.candles)-1]
}

func (c *Chart) append(candle Candle) {
	candle.Seq = c.seq
	candle.Time = clockLabel(c.clockMin)
	c.seq++
	c.clockMin = (c.clockMin + MinutesPerTick) % (24 * 60)
	c.candles = append(c.candles, candle)
	if len(c.candles) > MaxCandles {
		c.candles = c.candles[1:]
	}
}

// pickRegime rolls a new regime uniformly with a 120-240 tick duration.
// The stage multiplier widens volatility only; drift stays at the fixed
// per-regime values so the trend thresholds keep their meaning.
func (c *Chart) pickRegime() {
	c.regime = Regime(c.rand.Intn(len(regimeNames)))
	c.regimeLeft = 120 + c.rand.Intn(121)
	mult := c.stageMult()

	switch c.regime {
	case RegimeFlat:
		c.drift, c.volatility = 0, 5*mult
	case RegimeBull:
		c.drift, c.volatility = 3.5, 10*mult
	case RegimeBear:
		c.drift, c.volatility = -3.5, 10*mult
	case RegimeVolatile:
		c.drift, c.volatility = 0, 30*mult
	case RegimeFear:
		c.drift, c.volatility = -5.0, 25*mult
	case RegimeGreed:
		c.drift, c.volatility = 5.0, 15*mult
	case RegimeRebound:
		c.drift, c.volatility = 2.0, 20*mult
	}
}

// TriggerNews interrupts the regime with a shock event. Ignored while another
// event is active.
func (c *Chart) TriggerNews(kind NewsKind) *NewsEvent {
	if c.news != nil {
		return nil
	}
	mult := c.stageMult()
	ev := &NewsEvent{Kind: kind, TicksLeft: NewsDurationTicks}
	switch kind {
	case NewsCrash:
		ev.Text = crashHeadlines[c.rand.Intn(len(crashHeadlines))]
		ev.crashPending = true
		c.drift = 0
		c.volatility = 50 * mult
	case NewsBull:
		ev.Text = bullHeadlines[c.rand.Intn(len(bullHeadlines))]
		c.drift = 6.0
		c.volatility = 20 * mult
	case NewsBear:
		ev.Text = bearHeadlines[c.rand.Intn(len(bearHeadlines))]
		c.drift = -6.0
		c.volatility = 20 * mult
	}
	c.news = ev
	n := *ev
	return &n
}

func clockLabel(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
