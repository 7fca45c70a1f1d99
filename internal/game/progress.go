package game

import "math"

// Progress is the per-run leveling state. Level starts at 1 and only goes up,
// so the experience requirement is always positive.
type Progress struct {
	Level  int   `json:"level"`
	Exp    int64 `json:"exp"`
	ReqExp int64 `json:"req_exp"`
}

func NewProgress() Progress {
	return Progress{Level: 1, ReqExp: requiredExp(1)}
}

func requiredExp(level int) int64 {
	return int64(math.Floor(2000 * float64(level) * (1 + float64(level)*0.05)))
}

// AddExperience accumulates exp and applies as many level-ups as the total
// covers, carrying the remainder. Returns the number of levels gained.
func (p *Progress) AddExperience(amount int64) int {
	if amount <= 0 {
		return 0
	}
	p.Exp += amount
	gained := 0
	for p.Exp >= p.ReqExp {
		p.Exp -= p.ReqExp
		p.Level++
		p.ReqExp = requiredExp(p.Level)
		gained++
	}
	return gained
}

// StartBalanceMultiplier scales the starting capital of a run.
func (p Progress) StartBalanceMultiplier() float64 {
	return 1 + float64(p.Level-1)*0.01
}

// ComboDurationBonus extends the combo hold window, in milliseconds.
func (p Progress) ComboDurationBonus() float64 {
	return float64(p.Level-1) * 100
}

// ItemChargeCap is the power-up charge count granted at stage start.
func (p Progress) ItemChargeCap() int {
	return ItemBaseCharges + (p.Level-1)/10
}
