// Package opinion turns numeric performance tiers into scouting phrases.
//
// All functions are pure. Thresholds are strict ">" except world rank, which
// is "<=". A value sitting exactly on a boundary falls to the lower tier.
package opinion

import (
	"strings"

	"github.com/okian/frcscout/internal/domain/model"
)

// Tier thresholds on the overall EPA scale.
const (
	TopTierAbove     = 95.0
	StrongAbove      = 85.0
	ReliableAbove    = 65.0
	MiddleTierAbove  = 40.0
	TopRankCutoff    = 20
	ExcellentAuto    = 20.0
	SolidAuto        = 12.0
	HighTeleop       = 35.0
	GoodTeleop       = 20.0
	MultipleAwards   = 3
	RecognizedAwards = 1
)

// UnrankedSentinel stands in for a missing world rank so the top-20 check fails closed.
const UnrankedSentinel = 1 << 30

// Phrases emitted by the generator.
const (
	PhraseTopTier       = "🚀 They are a top-tier team based on EPA."
	PhraseStrong        = "💪 They show strong overall performance."
	PhraseReliable      = "✅ They are a reliable scorer."
	PhraseMiddleTier    = "🔎 They are a middle-tier team."
	PhraseDevelopmental = "🌱 They look like a developmental team this season."
	PhraseTop20         = "🔥 They are ranked in the top 20 worldwide!"
	PhraseExcellentAuto = "🤖 They run an excellent autonomous."
	PhraseSolidAuto     = "🤖 They have a solid auto."
	PhraseHighTeleop    = "⚡ They are a high teleop threat."
	PhraseGoodTeleop    = "⚡ They are a good teleop contributor."
	PhraseManyAwards    = "🏆 They have picked up multiple awards this season."
	PhraseOneAward      = "🏅 They have been recognized with an award this season."
	PhraseNoAwards      = "💡 They are an underdog, no awards yet."
)

// Input is the numeric view the generator works from.
type Input struct {
	Overall float64
	Auto    float64
	Teleop  float64
	Rank    int
}

// FromMetrics builds an Input, substituting defaults when metrics are absent:
// zero scoring rates and an unranked sentinel.
func FromMetrics(m model.PerformanceMetrics, available bool) Input {
	if !available {
		return Input{Rank: UnrankedSentinel}
	}
	in := Input{Overall: m.Overall, Auto: m.Auto, Teleop: m.Teleop, Rank: m.WorldRank}
	if in.Rank <= 0 {
		in.Rank = UnrankedSentinel
	}
	return in
}

// Tier returns the single overall-performance phrase.
func Tier(overall float64) string {
	switch {
	case overall > TopTierAbove:
		return PhraseTopTier
	case overall > StrongAbove:
		return PhraseStrong
	case overall > ReliableAbove:
		return PhraseReliable
	case overall > MiddleTierAbove:
		return PhraseMiddleTier
	default:
		return PhraseDevelopmental
	}
}

// Performance returns the ordered performance phrases: tier, then rank,
// auto and teleop bonuses when earned.
func Performance(in Input) []string {
	out := []string{Tier(in.Overall)}
	if in.Rank <= TopRankCutoff {
		out = append(out, PhraseTop20)
	}
	switch {
	case in.Auto > ExcellentAuto:
		out = append(out, PhraseExcellentAuto)
	case in.Auto > SolidAuto:
		out = append(out, PhraseSolidAuto)
	}
	switch {
	case in.Teleop > HighTeleop:
		out = append(out, PhraseHighTeleop)
	case in.Teleop > GoodTeleop:
		out = append(out, PhraseGoodTeleop)
	}
	return out
}

// Awards returns the single award-count phrase.
func Awards(count int) string {
	switch {
	case count >= MultipleAwards:
		return PhraseManyAwards
	case count >= RecognizedAwards:
		return PhraseOneAward
	default:
		return PhraseNoAwards
	}
}

// Opinion joins performance and award phrases with single spaces.
func Opinion(in Input, awards int) string {
	return strings.Join(append(Performance(in), Awards(awards)), " ")
}
