package store

import "time"

// idGenerator hands out millisecond timestamps, bumped past the last issued
// id so that two adds within one millisecond still get distinct ids.
type idGenerator struct {
	now  func() time.Time
	last int64
}

func (g *idGenerator) next() int64 {
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

func (g *idGenerator) observe(id int64) {
	if id > g.last {
		g.last = id
	}
}
