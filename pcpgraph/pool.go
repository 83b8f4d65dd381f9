package pcpgraph

import "sync/atomic"

// sharedPool holds the copy-on-write-shared node records for one or more
// Graph values. refs tracks how many *Graph headers currently point at
// this pool; the owner that drops refs to zero is free to mutate nodes
// in place instead of cloning.
type sharedPool struct {
	nodes []sharedNodeFields
	refs  int32
}

func newSharedPool() *sharedPool {
	return &sharedPool{nodes: make([]sharedNodeFields, 0, 8), refs: 1}
}

func (p *sharedPool) retain() *sharedPool {
	atomic.AddInt32(&p.refs, 1)

	return p
}

func (p *sharedPool) release() {
	atomic.AddInt32(&p.refs, -1)
}

func (p *sharedPool) isShared() bool {
	return atomic.LoadInt32(&p.refs) > 1
}

// clone returns a private copy of p with refs reset to 1. The caller is
// responsible for releasing the original.
func (p *sharedPool) clone() *sharedPool {
	cp := make([]sharedNodeFields, len(p.nodes), cap(p.nodes))
	copy(cp, p.nodes)

	return &sharedPool{nodes: cp, refs: 1}
}
