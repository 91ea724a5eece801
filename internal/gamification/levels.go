package gamification

import "math"

// Tier is a named band of lifetime points; Max is exclusive
type Tier struct {
	Name string
	Min  int
	Max  int
}

// Unbounded reports whether the tier has no upper limit
func (t Tier) Unbounded() bool {
	return t.Max == math.MaxInt
}

var tiers = []Tier{
	{Name: "Novice", Min: 0, Max: 50},
	{Name: "Beginner", Min: 50, Max: 150},
	{Name: "Intermediate", Min: 150, Max: 300},
	{Name: "Advanced", Min: 300, Max: 500},
	{Name: "Expert", Min: 500, Max: 800},
	{Name: "Master", Min: 800, Max: 1200},
	{Name: "Legend", Min: 1200, Max: math.MaxInt},
}

// Tiers returns a copy of the level table, lowest first
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// LevelFor returns the tier containing points. Negative totals fall in the first tier.
func LevelFor(points int) Tier {
	for _, tier := range tiers {
		if points < tier.Max {
			return tier
		}
	}
	return tiers[len(tiers)-1]
}

// PointsToNextLevel is how many more points are needed to leave the current tier,
// or zero at the top tier
func PointsToNextLevel(points int) int {
	tier := LevelFor(points)
	if tier.Unbounded() {
		return 0
	}
	return tier.Max - points
}
