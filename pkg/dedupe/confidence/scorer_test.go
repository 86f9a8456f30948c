package confidence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseSignals(now time.Time) Signals {
	lastVote := now.Add(-24 * time.Hour)
	return Signals{
		OrganicVotes:         50,
		InheritedVotes:       5,
		DistinctContributors: 40,
		LastVoteAt:           &lastVote,
		CreatedAt:            now.Add(-10 * 24 * time.Hour),
		Now:                  now,
		DupeSimilarities:     []float64{0.92, 0.88},
		HasProblemText:       true,
		FrequencyTag:         tagFrequencyDaily,
		ImpactTag:            tagImpactBlocker,
		OrganicVotesByDomain: map[string]int{
			"alpha.com": 20, "beta.io": 15, "gamma.dev": 15,
		},
	}
}

func TestComputeStrongLabel(t *testing.T) {
	now := time.Now()
	score := Compute(baseSignals(now), DefaultConfig())

	assert.Equal(t, LabelStrong, score.Label)
	assert.Greater(t, score.IntraScore, 70.0)
	assert.Nil(t, score.Concentration)
}

func TestComputeAnecdotalForEmptySignals(t *testing.T) {
	now := time.Now()
	score := Compute(Signals{CreatedAt: now, Now: now}, DefaultConfig())

	assert.Equal(t, LabelAnecdotal, score.Label)
	assert.Less(t, score.IntraScore, 40.0)
}

func TestConcentrationGuardCapsStrong(t *testing.T) {
	now := time.Now()
	s := baseSignals(now)
	// 48 of 50 organic votes come from one customer domain
	s.OrganicVotesByDomain = map[string]int{"acme.com": 48, "other.com": 2}

	score := Compute(s, DefaultConfig())

	require.NotNil(t, score.Concentration)
	assert.Equal(t, "acme.com", score.Concentration.Domain)
	assert.InDelta(t, 0.96, score.Concentration.Share, 1e-9)
	assert.True(t, score.Concentration.BlocksStrong)
	// raw score qualifies as strong, the guard caps it at emerging
	assert.GreaterOrEqual(t, score.IntraScore, DefaultConfig().StrongThreshold)
	assert.Equal(t, LabelEmerging, score.Label)
}

func TestConcentrationGuardNeedsMinimumVotes(t *testing.T) {
	now := time.Now()
	s := baseSignals(now)
	// dominated, but too few votes to matter
	s.OrganicVotesByDomain = map[string]int{"acme.com": 5}

	score := Compute(s, DefaultConfig())
	assert.Nil(t, score.Concentration)
}

func TestConcentrationGuardBelowRatio(t *testing.T) {
	now := time.Now()
	s := baseSignals(now)
	s.OrganicVotesByDomain = map[string]int{"acme.com": 11, "other.com": 11}

	score := Compute(s, DefaultConfig())
	assert.Nil(t, score.Concentration)
}

func TestRecencyDecay(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Now()

	fresh := baseSignals(now)
	lastVote := now
	fresh.LastVoteAt = &lastVote

	stale := baseSignals(now)
	oldVote := now.Add(-365 * 24 * time.Hour)
	stale.LastVoteAt = &oldVote

	freshScore := Compute(fresh, cfg)
	staleScore := Compute(stale, cfg)

	assert.Greater(t, freshScore.Breakdown["recency"], staleScore.Breakdown["recency"])
	assert.InDelta(t, 1.0, freshScore.Breakdown["recency"], 1e-6)
	assert.Less(t, staleScore.Breakdown["recency"], 0.01)
}

func TestInheritedVotesCountedSeparately(t *testing.T) {
	now := time.Now()
	s := baseSignals(now)
	s.OrganicVotes = 0
	s.DistinctContributors = 0
	s.InheritedVotes = 100

	score := Compute(s, DefaultConfig())

	// inherited volume alone cannot manufacture contributor breadth
	assert.Equal(t, 0.0, score.Breakdown["organicVotes"])
	assert.Equal(t, 0.0, score.Breakdown["contributors"])
	assert.Greater(t, score.Breakdown["inheritedVotes"], 0.0)
}

func TestDupeStrengthGrowsWithReports(t *testing.T) {
	now := time.Now()
	one := baseSignals(now)
	one.DupeSimilarities = []float64{0.9}

	many := baseSignals(now)
	many.DupeSimilarities = []float64{0.9, 0.9, 0.9, 0.9}

	assert.Greater(t,
		Compute(many, DefaultConfig()).Breakdown["dupeStrength"],
		Compute(one, DefaultConfig()).Breakdown["dupeStrength"],
	)
}

func TestTagBonuses(t *testing.T) {
	now := time.Now()
	s := baseSignals(now)
	s.FrequencyTag = ""
	s.ImpactTag = ""

	withoutTags := Compute(s, DefaultConfig())

	s.FrequencyTag = tagFrequencyWeekly
	s.ImpactTag = tagImpactMajor
	withTags := Compute(s, DefaultConfig())

	assert.Greater(t, withTags.IntraScore, withoutTags.IntraScore)
	assert.Equal(t, 0.5, withTags.Breakdown["frequency"])
	assert.Equal(t, 0.6, withTags.Breakdown["impact"])
}
