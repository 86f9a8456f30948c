// Package cluster groups pending duplicate suggestions into connected
// components over idea ids. Clusters are a derived view: they are rebuilt on
// every read because any suggestion status change invalidates them.
package cluster

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Member is one idea participating in clustering.
type Member struct {
	Id        uuid.UUID
	VoteCount int
	CreatedAt time.Time
}

// Edge is a pending suggestion connecting two ideas.
type Edge struct {
	SuggestionId    uuid.UUID
	SourceIdeaId    uuid.UUID
	DuplicateIdeaId uuid.UUID
	Similarity      float64
}

// Cluster is a connected component with at least two members. Members is
// ordered canonical first, then by vote count descending.
type Cluster struct {
	CanonicalId uuid.UUID
	Members     []Member
	Edges       []Edge
}

type unionFind struct {
	parent map[uuid.UUID]uuid.UUID
	rank   map[uuid.UUID]int
}

func newUnionFind() *unionFind {
	return &unionFind{
		parent: make(map[uuid.UUID]uuid.UUID),
		rank:   make(map[uuid.UUID]int),
	}
}

func (u *unionFind) add(id uuid.UUID) {
	if _, ok := u.parent[id]; !ok {
		u.parent[id] = id
		u.rank[id] = 0
	}
}

// find with path compression.
func (u *unionFind) find(id uuid.UUID) uuid.UUID {
	root := id
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[id] != root {
		next := u.parent[id]
		u.parent[id] = root
		id = next
	}
	return root
}

// union by rank.
func (u *unionFind) union(a, b uuid.UUID) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if u.rank[ra] < u.rank[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	if u.rank[ra] == u.rank[rb] {
		u.rank[ra]++
	}
}

// Build computes clusters from the given members and pending-suggestion
// edges. Edges referencing ideas outside members (e.g. already merged) are
// ignored. Output ordering is deterministic.
func Build(members []Member, edges []Edge) []Cluster {
	byId := make(map[uuid.UUID]Member, len(members))
	for _, m := range members {
		byId[m.Id] = m
	}

	uf := newUnionFind()
	for _, m := range members {
		uf.add(m.Id)
	}

	for _, e := range edges {
		if _, ok := byId[e.SourceIdeaId]; !ok {
			continue
		}
		if _, ok := byId[e.DuplicateIdeaId]; !ok {
			continue
		}
		uf.union(e.SourceIdeaId, e.DuplicateIdeaId)
	}

	componentMembers := make(map[uuid.UUID][]Member)
	for _, m := range members {
		root := uf.find(m.Id)
		componentMembers[root] = append(componentMembers[root], m)
	}

	componentEdges := make(map[uuid.UUID][]Edge)
	for _, e := range edges {
		if _, ok := byId[e.SourceIdeaId]; !ok {
			continue
		}
		if _, ok := byId[e.DuplicateIdeaId]; !ok {
			continue
		}
		root := uf.find(e.SourceIdeaId)
		componentEdges[root] = append(componentEdges[root], e)
	}

	var clusters []Cluster
	for root, cms := range componentMembers {
		if len(cms) < 2 {
			continue
		}

		canonical := pickCanonical(cms)
		ordered := orderMembers(cms, canonical.Id)

		edgeList := componentEdges[root]
		sort.Slice(edgeList, func(i, j int) bool {
			if edgeList[i].Similarity != edgeList[j].Similarity {
				return edgeList[i].Similarity > edgeList[j].Similarity
			}
			return edgeList[i].SuggestionId.String() < edgeList[j].SuggestionId.String()
		})

		clusters = append(clusters, Cluster{
			CanonicalId: canonical.Id,
			Members:     ordered,
			Edges:       edgeList,
		})
	}

	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].CanonicalId.String() < clusters[j].CanonicalId.String()
	})
	return clusters
}

// pickCanonical selects the surviving idea: highest vote count, ties broken
// by earliest creation.
func pickCanonical(members []Member) Member {
	best := members[0]
	for _, m := range members[1:] {
		if m.VoteCount > best.VoteCount {
			best = m
			continue
		}
		if m.VoteCount == best.VoteCount {
			if m.CreatedAt.Before(best.CreatedAt) {
				best = m
			} else if m.CreatedAt.Equal(best.CreatedAt) && m.Id.String() < best.Id.String() {
				best = m
			}
		}
	}
	return best
}

func orderMembers(members []Member, canonicalId uuid.UUID) []Member {
	rest := make([]Member, 0, len(members)-1)
	var canonical Member
	for _, m := range members {
		if m.Id == canonicalId {
			canonical = m
			continue
		}
		rest = append(rest, m)
	}

	sort.Slice(rest, func(i, j int) bool {
		if rest[i].VoteCount != rest[j].VoteCount {
			return rest[i].VoteCount > rest[j].VoteCount
		}
		if !rest[i].CreatedAt.Equal(rest[j].CreatedAt) {
			return rest[i].CreatedAt.Before(rest[j].CreatedAt)
		}
		return rest[i].Id.String() < rest[j].Id.String()
	})

	return append([]Member{canonical}, rest...)
}
