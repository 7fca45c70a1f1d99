package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProgress(t *testing.T) {
	p := NewProgress()
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, int64(0), p.Exp)
	assert.Equal(t, int64(2100), p.ReqExp)
}

func TestAddExperienceIgnoresNonPositive(t *testing.T) {
	p := NewProgress()
	assert.Equal(t, 0, p.AddExperience(0))
	assert.Equal(t, 0, p.AddExperience(-500))
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, int64(0), p.Exp)
}

func TestAddExperienceSingleLevel(t *testing.T) {
	p := NewProgress()
	assert.Equal(t, 1, p.AddExperience(2100))
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, int64(0), p.Exp)
	assert.Equal(t, int64(4400), p.ReqExp)
}

func TestAddExperienceCarriesRemainder(t *testing.T) {
	p := NewProgress()
	// Enough for two levels with 100 left over.
	assert.Equal(t, 2, p.AddExperience(2100+4400+100))
	assert.Equal(t, 3, p.Level)
	assert.Equal(t, int64(100), p.Exp)
	assert.Equal(t, int64(6900), p.ReqExp)
}

func TestLevelBonuses(t *testing.T) {
	p := Progress{Level: 1}
	assert.Equal(t, 1.0, p.StartBalanceMultiplier())
	assert.Equal(t, 0.0, p.ComboDurationBonus())
	assert.Equal(t, 3, p.ItemChargeCap())

	p = Progress{Level: 11}
	assert.InDelta(t, 1.10, p.StartBalanceMultiplier(), 1e-9)
	assert.Equal(t, 1000.0, p.ComboDurationBonus())
	assert.Equal(t, 4, p.ItemChargeCap())
}
