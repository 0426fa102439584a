package graph

import "sort"

// UnionFind implements a disjoint-set structure over dense node indices
// with path compression and union by rank.
type UnionFind struct {
	parent []int
	rank   []int
}

// NewUnionFind creates a UnionFind holding n singleton sets.
func NewUnionFind(n int) *UnionFind {
	uf := &UnionFind{
		parent: make([]int, n),
		rank:   make([]int, n),
	}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

// Find returns the representative of the set containing x.
func (uf *UnionFind) Find(x int) int {
	root := x
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	// Path compression.
	for uf.parent[x] != root {
		next := uf.parent[x]
		uf.parent[x] = root
		x = next
	}
	return root
}

// Union merges the sets containing x and y.
func (uf *UnionFind) Union(x, y int) {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return
	}
	switch {
	case uf.rank[rx] < uf.rank[ry]:
		uf.parent[rx] = ry
	case uf.rank[rx] > uf.rank[ry]:
		uf.parent[ry] = rx
	default:
		uf.parent[ry] = rx
		uf.rank[rx]++
	}
}

// Connected reports whether x and y belong to the same set.
func (uf *UnionFind) Connected(x, y int) bool {
	return uf.Find(x) == uf.Find(y)
}

// Components partitions the graph into weakly connected components.
// Each component lists node labels in first-seen order. Components are
// sorted by size descending; equal sizes keep the order of their first
// member.
func (g *Graph) Components() [][]int {
	n := g.Len()
	if n == 0 {
		return nil
	}
	uf := NewUnionFind(n)
	for _, e := range g.edges {
		uf.Union(e.From, e.To)
	}

	slot := make(map[int]int)
	var comps [][]int
	for i := 0; i < n; i++ {
		root := uf.Find(i)
		k, ok := slot[root]
		if !ok {
			k = len(comps)
			slot[root] = k
			comps = append(comps, nil)
		}
		comps[k] = append(comps[k], g.labels[i])
	}

	sort.SliceStable(comps, func(i, j int) bool {
		return len(comps[i]) > len(comps[j])
	})
	return comps
}
