// Package pipeline drives the pull, convert and publish cycle.
package pipeline

// Gate admits at most one conversion at a time. Callers that find it taken
// drop their work instead of waiting.
type Gate struct {
	slot chan struct{}
}

func NewGate() *Gate {
	return &Gate{slot: make(chan struct{}, 1)}
}

func (g *Gate) TryAcquire() bool {
	select {
	case g.slot <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release frees the slot. Releasing a free gate is a no-op.
func (g *Gate) Release() {
	select {
	case <-g.slot:
	default:
	}
}

func (g *Gate) Busy() bool {
	return len(g.slot) > 0
}
