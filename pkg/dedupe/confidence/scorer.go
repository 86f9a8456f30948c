// Package confidence computes the 0-100 demand score for an idea from its
// vote, contributor, age and duplicate-cluster signals. Compute is pure: the
// caller assembles the Signals bundle from storage.
package confidence

import (
	"math"
	"sort"
	"time"
)

// Labels ordered by signal strength.
const (
	LabelStrong    = "strong"
	LabelEmerging  = "emerging"
	LabelAnecdotal = "anecdotal"
)

// Known frequency/impact tag values that carry bonus weight.
const (
	tagFrequencyDaily  = "daily"
	tagFrequencyWeekly = "weekly"
	tagImpactBlocker   = "blocker"
	tagImpactMajor     = "major"
)

// Config holds the scoring weights and thresholds. It is immutable and
// injected so tests can vary thresholds without global state.
type Config struct {
	// Weights per sub-signal; they should sum to 100 so IntraScore lands
	// on a 0-100 scale.
	WeightOrganicVotes   float64
	WeightContributors   float64
	WeightRecency        float64
	WeightAgeVelocity    float64
	WeightDupeStrength   float64
	WeightRichness       float64
	WeightFrequency      float64
	WeightImpact         float64
	WeightInheritedVotes float64

	StrongThreshold   float64
	EmergingThreshold float64

	// Loud-minority guard: when the top contributor email domain holds more
	// than ConcentrationRatio of organic votes and the idea has more than
	// ConcentrationMinVotes votes, the label is capped at emerging.
	ConcentrationRatio    float64
	ConcentrationMinVotes int

	RecencyHalfLife time.Duration
}

func DefaultConfig() Config {
	return Config{
		WeightOrganicVotes:    30,
		WeightContributors:    20,
		WeightRecency:         10,
		WeightAgeVelocity:     10,
		WeightDupeStrength:    10,
		WeightRichness:        5,
		WeightFrequency:       5,
		WeightImpact:          5,
		WeightInheritedVotes:  5,
		StrongThreshold:       70,
		EmergingThreshold:     40,
		ConcentrationRatio:    0.60,
		ConcentrationMinVotes: 10,
		RecencyHalfLife:       30 * 24 * time.Hour,
	}
}

// Signals is the per-idea input bundle.
type Signals struct {
	OrganicVotes         int
	InheritedVotes       int
	DistinctContributors int
	LastVoteAt           *time.Time
	CreatedAt            time.Time
	Now                  time.Time
	// DupeSimilarities holds the similarity of each suggestion edge in the
	// cluster the idea anchors; empty when the idea anchors no cluster.
	DupeSimilarities []float64
	HasProblemText   bool
	FrequencyTag     string
	ImpactTag        string
	// OrganicVotesByDomain counts organic votes per contributor email domain.
	OrganicVotesByDomain map[string]int
}

// ConcentrationWarning flags a vote distribution dominated by one domain.
type ConcentrationWarning struct {
	Domain       string  `json:"domain"`
	Share        float64 `json:"share"`
	BlocksStrong bool    `json:"blocksStrong"`
}

// Score is the computed result.
type Score struct {
	IntraScore    float64               `json:"intraScore"`
	Label         string                `json:"label"`
	Breakdown     map[string]float64    `json:"breakdown"`
	Concentration *ConcentrationWarning `json:"concentration,omitempty"`
}

// Compute derives the score. It performs no I/O.
func Compute(s Signals, cfg Config) Score {
	breakdown := map[string]float64{
		"organicVotes":   saturate(float64(s.OrganicVotes), 25),
		"contributors":   saturate(float64(s.DistinctContributors), 10),
		"recency":        recency(s, cfg.RecencyHalfLife),
		"ageVelocity":    ageVelocity(s),
		"dupeStrength":   dupeStrength(s.DupeSimilarities),
		"richness":       boolSignal(s.HasProblemText),
		"frequency":      frequencySignal(s.FrequencyTag),
		"impact":         impactSignal(s.ImpactTag),
		"inheritedVotes": saturate(float64(s.InheritedVotes), 25),
	}

	intra := breakdown["organicVotes"]*cfg.WeightOrganicVotes +
		breakdown["contributors"]*cfg.WeightContributors +
		breakdown["recency"]*cfg.WeightRecency +
		breakdown["ageVelocity"]*cfg.WeightAgeVelocity +
		breakdown["dupeStrength"]*cfg.WeightDupeStrength +
		breakdown["richness"]*cfg.WeightRichness +
		breakdown["frequency"]*cfg.WeightFrequency +
		breakdown["impact"]*cfg.WeightImpact +
		breakdown["inheritedVotes"]*cfg.WeightInheritedVotes

	warning := concentration(s, cfg)

	label := LabelAnecdotal
	switch {
	case intra >= cfg.StrongThreshold:
		label = LabelStrong
	case intra >= cfg.EmergingThreshold:
		label = LabelEmerging
	}

	// A concentrated vote base cannot earn "strong" no matter the raw score.
	if warning != nil && warning.BlocksStrong && label == LabelStrong {
		label = LabelEmerging
	}

	return Score{
		IntraScore:    intra,
		Label:         label,
		Breakdown:     breakdown,
		Concentration: warning,
	}
}

// saturate maps a non-negative count to [0,1) with diminishing returns:
// v/(v+k). k is the half-saturation point.
func saturate(v, k float64) float64 {
	if v <= 0 {
		return 0
	}
	return v / (v + k)
}

// recency decays exponentially with the time since the last vote.
func recency(s Signals, halfLife time.Duration) float64 {
	if s.LastVoteAt == nil || halfLife <= 0 {
		return 0
	}
	age := s.Now.Sub(*s.LastVoteAt)
	if age < 0 {
		age = 0
	}
	return math.Exp2(-age.Hours() / halfLife.Hours())
}

// ageVelocity rewards ideas accumulating votes quickly since creation.
func ageVelocity(s Signals) float64 {
	total := s.OrganicVotes + s.InheritedVotes
	if total == 0 {
		return 0
	}
	days := s.Now.Sub(s.CreatedAt).Hours() / 24
	if days < 1 {
		days = 1
	}
	perDay := float64(total) / days
	return saturate(perDay, 3)
}

// dupeStrength aggregates cluster edge similarities; every extra duplicate
// report reinforces the signal with diminishing returns.
func dupeStrength(similarities []float64) float64 {
	var sum float64
	for _, sim := range similarities {
		if sim > 0 {
			sum += sim
		}
	}
	return saturate(sum, 2)
}

func boolSignal(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func frequencySignal(tag string) float64 {
	switch tag {
	case tagFrequencyDaily:
		return 1
	case tagFrequencyWeekly:
		return 0.5
	default:
		return 0
	}
}

func impactSignal(tag string) float64 {
	switch tag {
	case tagImpactBlocker:
		return 1
	case tagImpactMajor:
		return 0.6
	default:
		return 0
	}
}

// concentration finds the single most common contributor email domain among
// organic votes and flags it when it dominates.
func concentration(s Signals, cfg Config) *ConcentrationWarning {
	total := 0
	for _, n := range s.OrganicVotesByDomain {
		total += n
	}
	if total == 0 || total <= cfg.ConcentrationMinVotes {
		return nil
	}

	domains := make([]string, 0, len(s.OrganicVotesByDomain))
	for d := range s.OrganicVotesByDomain {
		domains = append(domains, d)
	}
	sort.Strings(domains) // deterministic winner on equal counts

	topDomain := ""
	topCount := 0
	for _, d := range domains {
		if s.OrganicVotesByDomain[d] > topCount {
			topDomain = d
			topCount = s.OrganicVotesByDomain[d]
		}
	}

	share := float64(topCount) / float64(total)
	if share < cfg.ConcentrationRatio {
		return nil
	}

	return &ConcentrationWarning{
		Domain:       topDomain,
		Share:        share,
		BlocksStrong: true,
	}
}
