package cluster

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func member(votes int, createdAt time.Time) Member {
	return Member{Id: uuid.New(), VoteCount: votes, CreatedAt: createdAt}
}

func edge(a, b uuid.UUID, similarity float64) Edge {
	return Edge{
		SuggestionId:    uuid.New(),
		SourceIdeaId:    a,
		DuplicateIdeaId: b,
		Similarity:      similarity,
	}
}

func TestBuildSingleCluster(t *testing.T) {
	now := time.Now()
	a := member(10, now)
	b := member(4, now)
	c := member(2, now)

	// fully connected triangle
	clusters := Build(
		[]Member{a, b, c},
		[]Edge{edge(a.Id, b.Id, 0.95), edge(b.Id, c.Id, 0.9), edge(a.Id, c.Id, 0.88)},
	)

	require.Len(t, clusters, 1)
	got := clusters[0]
	assert.Equal(t, a.Id, got.CanonicalId)
	require.Len(t, got.Members, 3)
	assert.Equal(t, []uuid.UUID{a.Id, b.Id, c.Id}, []uuid.UUID{got.Members[0].Id, got.Members[1].Id, got.Members[2].Id})
	assert.Len(t, got.Edges, 3)
}

func TestBuildDisjointComponents(t *testing.T) {
	now := time.Now()
	a, b := member(5, now), member(1, now)
	c, d := member(3, now), member(7, now)
	lone := member(9, now)

	clusters := Build(
		[]Member{a, b, c, d, lone},
		[]Edge{edge(a.Id, b.Id, 0.9), edge(c.Id, d.Id, 0.87)},
	)

	require.Len(t, clusters, 2)
	canonicals := []uuid.UUID{clusters[0].CanonicalId, clusters[1].CanonicalId}
	assert.Contains(t, canonicals, a.Id)
	assert.Contains(t, canonicals, d.Id)
	// unconnected ideas never form a cluster
	assert.NotContains(t, canonicals, lone.Id)
}

func TestBuildVoteTieBreaksOnCreatedAt(t *testing.T) {
	now := time.Now()
	older := member(5, now.Add(-time.Hour))
	newer := member(5, now)

	clusters := Build([]Member{newer, older}, []Edge{edge(newer.Id, older.Id, 0.9)})

	require.Len(t, clusters, 1)
	assert.Equal(t, older.Id, clusters[0].CanonicalId)
}

func TestBuildIgnoresEdgesOutsideMembers(t *testing.T) {
	now := time.Now()
	a, b := member(2, now), member(1, now)
	mergedAway := uuid.New() // not in members, e.g. already merged

	clusters := Build([]Member{a, b}, []Edge{edge(a.Id, mergedAway, 0.99)})
	assert.Empty(t, clusters)

	clusters = Build([]Member{a, b}, []Edge{edge(a.Id, b.Id, 0.9), edge(b.Id, mergedAway, 0.95)})
	require.Len(t, clusters, 1)
	assert.Len(t, clusters[0].Edges, 1)
}

func TestBuildChainFormsSingleComponent(t *testing.T) {
	now := time.Now()
	ms := []Member{member(1, now), member(2, now), member(3, now), member(4, now)}

	// chain m0-m1-m2-m3, no triangle
	clusters := Build(ms, []Edge{
		edge(ms[0].Id, ms[1].Id, 0.9),
		edge(ms[1].Id, ms[2].Id, 0.9),
		edge(ms[2].Id, ms[3].Id, 0.9),
	})

	require.Len(t, clusters, 1)
	assert.Len(t, clusters[0].Members, 4)
	assert.Equal(t, ms[3].Id, clusters[0].CanonicalId)
}

func TestBuildEdgesSortedBySimilarity(t *testing.T) {
	now := time.Now()
	a, b, c := member(3, now), member(2, now), member(1, now)

	clusters := Build(
		[]Member{a, b, c},
		[]Edge{edge(a.Id, b.Id, 0.87), edge(b.Id, c.Id, 0.95)},
	)

	require.Len(t, clusters, 1)
	require.Len(t, clusters[0].Edges, 2)
	assert.Equal(t, 0.95, clusters[0].Edges[0].Similarity)
	assert.Equal(t, 0.87, clusters[0].Edges[1].Similarity)
}
