package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuyDebitsAndRecords(t *testing.T) {
	re := NewRealEstate()
	p := &Player{Balance: 250_000}
	require.True(t, re.Buy(p, 0))
	assert.Equal(t, 50_000.0, p.Balance)
	assert.Equal(t, []string{"house"}, re.Holdings)
}

func TestBuyRejectsInsufficientBalance(t *testing.T) {
	re := NewRealEstate()
	p := &Player{Balance: 100_000}
	assert.False(t, re.Buy(p, 0))
	assert.Equal(t, 100_000.0, p.Balance)
	assert.Empty(t, re.Holdings)
}

func TestSellCreditsCurrentPrice(t *testing.T) {
	re := NewRealEstate()
	p := &Player{Balance: 250_000}
	require.True(t, re.Buy(p, 0))

	// Market boomed between purchase and sale.
	re.Trend = MarketBoom
	require.True(t, re.Sell(p, 0))
	assert.Equal(t, 50_000.0+260_000.0, p.Balance)
	assert.Empty(t, re.Holdings)
}

func TestSellRejectsUnowned(t *testing.T) {
	re := NewRealEstate()
	p := &Player{Balance: 1_000_000}
	assert.False(t, re.Sell(p, 0))
	assert.Equal(t, 1_000_000.0, p.Balance)
}

func TestTrendScalesCostAndRent(t *testing.T) {
	re := NewRealEstate()
	house := Catalog[0]

	re.Trend = MarketDecline
	assert.Equal(t, 160_000.0, re.Cost(house))
	assert.Equal(t, 16_000.0, re.Rent(house))

	re.Trend = MarketBoom
	assert.Equal(t, 260_000.0, re.Cost(house))
	assert.Equal(t, 26_000.0, re.Rent(house))
}

func TestRollTrendStaysInRange(t *testing.T) {
	re := NewRealEstate()
	rnd := rand.New(rand.NewSource(11))
	seen := map[float64]bool{}
	for i := 0; i < 200; i++ {
		v := re.RollTrend(rnd)
		assert.Contains(t, []float64{MarketDecline, MarketStable, MarketBoom}, v)
		assert.NotEmpty(t, re.TrendText)
		seen[v] = true
	}
	assert.Len(t, seen, 3)
}

func TestRentDueSumsHoldings(t *testing.T) {
	re := NewRealEstate()
	re.Holdings = []string{"house", "house", "factory"}
	assert.Equal(t, 140_000.0, re.RentDue())
}

func TestValuation(t *testing.T) {
	re := NewRealEstate()
	re.Holdings = []string{"house", "factory"}
	assert.Equal(t, 1_200_000.0, re.Valuation())

	re.Trend = MarketDecline
	assert.Equal(t, 960_000.0, re.Valuation())
}

func TestApplyStageEffects(t *testing.T) {
	re := NewRealEstate()
	re.Holdings = []string{"firm", "firm", "data", "house"}
	p := &Player{ProfitMultiplier: 1.0}
	extra := re.ApplyStageEffects(p)
	assert.Equal(t, 1, extra)
	assert.InDelta(t, 1.10, p.ProfitMultiplier, 1e-9)
}

func TestApplyStageEffectsClearsStaleBuff(t *testing.T) {
	re := NewRealEstate()
	p := &Player{ProfitMultiplier: 1.15}
	re.ApplyStageEffects(p)
	assert.Equal(t, 1.0, p.ProfitMultiplier)
}
