package game

import (
	"math"
	"math/rand"
)

// BuildingEffect classifies what a catalog entry does besides paying rent.
type BuildingEffect int

const (
	EffectIncome BuildingEffect = iota
	EffectProfitBuff
	EffectItemBuff
)

// Building is a catalog entry. Effective cost and rent are the base values
// scaled by the current market trend and floored.
type Building struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	BaseCost float64        `json:"base_cost"`
	BaseRent float64        `json:"base_rent"`
	Effect   BuildingEffect `json:"effect"`
	Desc     string         `json:"desc"`
}

// Catalog is the fixed building list, cheapest first.
var Catalog = []Building{
	{ID: "house", Name: "House", BaseCost: 200_000, BaseRent: 20_000, Effect: EffectIncome, Desc: "rent +20k"},
	{ID: "market", Name: "Supermarket", BaseCost: 400_000, BaseRent: 40_000, Effect: EffectIncome, Desc: "rent +40k"},
	{ID: "studio", Name: "Officetel", BaseCost: 600_000, BaseRent: 60_000, Effect: EffectIncome, Desc: "rent +60k"},
	{ID: "factory", Name: "Factory", BaseCost: 1_000_000, BaseRent: 100_000, Effect: EffectIncome, Desc: "rent +100k"},
	{ID: "firm", Name: "Brokerage", BaseCost: 1_500_000, BaseRent: 150_000, Effect: EffectProfitBuff, Desc: "profit +5%"},
	{ID: "data", Name: "Data Center", BaseCost: 3_500_000, BaseRent: 350_000, Effect: EffectItemBuff, Desc: "+1 VIEW charge"},
	{ID: "hotel", Name: "Hotel", BaseCost: 7_500_000, BaseRent: 750_000, Effect: EffectIncome, Desc: "rent +750k"},
	{ID: "landmark", Name: "Landmark", BaseCost: 10_000_000, BaseRent: 1_000_000, Effect: EffectIncome, Desc: "rent +1m"},
}

// Market trend states rolled at every mission completion.
const (
	MarketDecline = 0.8
	MarketStable  = 1.0
	MarketBoom    = 1.3
)

// RealEstate tracks owned building instances (a type may be held several
// times) and the market trend modifier applied to every cost and rent.
type RealEstate struct {
	Holdings  []string `json:"holdings"`
	Trend     float64  `json:"trend"`
	TrendText string   `json:"trend_text"`
}

func NewRealEstate() *RealEstate {
	return &RealEstate{Trend: MarketStable}
}

func (re *RealEstate) Reset() {
	re.Holdings = re.Holdings[:0]
	re.Trend = MarketStable
	re.TrendText = ""
}

// RollTrend re-rolls the market modifier: 20% decline, 60% stable, 20% boom.
func (re *RealEstate) RollTrend(rnd *rand.Rand) float64 {
	r := rnd.Float64()
	switch {
	case r < 0.2:
		re.Trend = MarketDecline
		re.TrendText = "Property slump: prices and rent down"
	case r > 0.8:
		re.Trend = MarketBoom
		re.TrendText = "New-town development: prices soar!"
	default:
		re.Trend = MarketStable
		re.TrendText = "Property market steady"
	}
	return re.Trend
}

// Cost is the effective purchase (and resale) price under the current trend.
func (re *RealEstate) Cost(b Building) float64 {
	return math.Floor(b.BaseCost * re.Trend)
}

// Rent is the effective per-interval rent under the current trend.
func (re *RealEstate) Rent(b Building) float64 {
	return math.Floor(b.BaseRent * re.Trend)
}

// Buy debits the player and adds one holding instance. No-op on
// insufficient balance.
func (re *RealEstate) Buy(p *Player, index int) bool {
	if index < 0 || index >= len(Catalog) {
		return false
	}
	b := Catalog[index]
	cost := re.Cost(b)
	if p.Balance < cost {
		return false
	}
	p.Balance -= cost
	re.Holdings = append(re.Holdings, b.ID)
	return true
}

// Sell credits the player at the current effective cost and removes the
// first matching holding. No-op when the building is not owned.
func (re *RealEstate) Sell(p *Player, index int) bool {
	if index < 0 || index >= len(Catalog) {
		return false
	}
	b := Catalog[index]
	for i, id := range re.Holdings {
		if id == b.ID {
			p.Balance += re.Cost(b)
			re.Holdings = append(re.Holdings[:i], re.Holdings[i+1:]...)
			return true
		}
	}
	return false
}

func (re *RealEstate) CountOwned(id string) int {
	n := 0
	for _, h := range re.Holdings {
		if h == id {
			n++
		}
	}
	return n
}

// RentDue sums effective rent over every held instance.
func (re *RealEstate) RentDue() float64 {
	total := 0.0
	for _, id := range re.Holdings {
		if b, ok := catalogByID(id); ok {
			total += re.Rent(b)
		}
	}
	return total
}

// Valuation sums effective cost over every held instance.
func (re *RealEstate) Valuation() float64 {
	total := 0.0
	for _, id := range re.Holdings {
		if b, ok := catalogByID(id); ok {
			total += re.Cost(b)
		}
	}
	return total
}

// ApplyStageEffects recomputes the profit multiplier from profit-buff
// holdings and returns the number of extra power-up charges granted by
// item-buff holdings. Called on every stage transition.
func (re *RealEstate) ApplyStageEffects(p *Player) (extraCharges int) {
	bonus := 0.0
	for _, id := range re.Holdings {
		b, ok := catalogByID(id)
		if !ok {
			continue
		}
		switch b.Effect {
		case EffectProfitBuff:
			bonus += 0.05
		case EffectItemBuff:
			extraCharges++
		}
	}
	p.ProfitMultiplier = 1.0 + bonus
	return extraCharges
}

func catalogByID(id string) (Building, bool) {
	for _, b := range Catalog {
		if b.ID == id {
			return b, true
		}
	}
	return Building{}, false
}
