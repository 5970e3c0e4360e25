package unionfind

import "fmt"

// Id names an equivalence class member. Ids are dense and handed out by MakeSet.
type Id = uint64

// UnionFind tracks which e-class ids have been merged. The representative of a
// class is always the smallest id that was unioned into it, so canonical ids are
// stable across runs that perform the same unions.
type UnionFind struct {
	parents []Id
}

func New() *UnionFind {
	return &UnionFind{parents: make([]Id, 0)}
}

func (uf *UnionFind) MakeSet() Id {
	id := Id(len(uf.parents))
	uf.parents = append(uf.parents, id)
	return id
}

func (uf *UnionFind) Len() int {
	return len(uf.parents)
}

// Find returns the representative of id, halving the path as it goes.
func (uf *UnionFind) Find(id Id) Id {
	if id >= Id(len(uf.parents)) {
		panic(fmt.Sprintf("unionfind: unknown id %d", id))
	}
	for uf.parents[id] != id {
		uf.parents[id] = uf.parents[uf.parents[id]]
		id = uf.parents[id]
	}
	return id
}

// Union merges the classes of a and b and returns the new representative
// along with whether anything changed.
func (uf *UnionFind) Union(a, b Id) (Id, bool) {
	ra, rb := uf.Find(a), uf.Find(b)
	if ra == rb {
		return ra, false
	}
	if rb < ra {
		ra, rb = rb, ra
	}
	uf.parents[rb] = ra
	return ra, true
}

func (uf *UnionFind) Equiv(a, b Id) bool {
	return uf.Find(a) == uf.Find(b)
}
