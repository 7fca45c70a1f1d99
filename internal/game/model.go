package game

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// Economy.
	StartingBalance = 1_000_000.0
	InitialTarget   = 100_000.0
	TargetGrowth    = 1.2

	// Stage clock, milliseconds.
	StageTimeStart  = 90_000.0
	StageTimeStep   = 5_000.0
	StageTimeFloor  = 30_000.0
	WarningWindowMs = 10_000.0
	RentIntervalMs  = 5_000.0
	InputCooldownMs = 500.0

	// FrameMs is the nominal frame duration the tick rates are calibrated
	// against. Update accepts any real delta; tick accumulation divides by
	// this so a chart tick lands every TickInterval frames at 60 FPS.
	FrameMs = 1000.0 / 60.0

	// Chart.
	MaxCandles        = 50
	StartPrice        = 10_000.0
	PriceFloor        = 10.0
	TickInterval      = 2
	SlowTickInterval  = 10
	MinutesPerTick    = 10
	NewsDurationTicks = 50
	NewsChancePerTick = 0.002

	// Items.
	ItemBaseCharges = 3
	ItemDuration    = 5_000.0

	// Combo hold windows, milliseconds.
	ComboHoldBase  = 10_000.0
	ComboHoldFloor = 2_000.0
)

// FormatMoney renders a game-currency amount with comma grouping and no
// fractional part; amounts are floored the same way the HUD displays them.
func FormatMoney(v float64) string {
	n := int64(math.Floor(math.Abs(v)))
	s := comma(n)
	if v < 0 {
		return "-" + s
	}
	return s
}

// FormatSignedMoney is FormatMoney with an explicit sign for gains.
func FormatSignedMoney(v float64) string {
	if v > 0 {
		return "+" + FormatMoney(v)
	}
	return FormatMoney(v)
}

func comma(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
		b.WriteByte(',')
	}
	for i := pre; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

// FormatClock renders a remaining-milliseconds countdown as M:SS.t for the HUD.
func FormatClock(ms float64) string {
	if ms < 0 {
		ms = 0
	}
	total := int64(ms)
	m := total / 60_000
	sec := (total % 60_000) / 1000
	tenth := (total % 1000) / 100
	return fmt.Sprintf("%d:%02d.%d", m, sec, tenth)
}
