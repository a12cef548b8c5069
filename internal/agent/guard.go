package agent

import "sync"

// Guard makes job execution single-shot on the agent. Jobs arrive over two
// independent channels (push and poll) that can both see the same ready job,
// so every delivery path must pass through Begin before executing.
type Guard struct {
	mu         sync.Mutex
	processing map[uint]struct{}
	processed  map[uint]struct{}
}

func NewGuard() *Guard {
	return &Guard{
		processing: make(map[uint]struct{}),
		processed:  make(map[uint]struct{}),
	}
}

// Begin claims jobID for execution. It returns false when the job is already
// being processed or has finished, in which case the caller must skip it.
func (g *Guard) Begin(jobID uint) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.processing[jobID]; ok {
		return false
	}
	if _, ok := g.processed[jobID]; ok {
		return false
	}
	g.processing[jobID] = struct{}{}
	return true
}

// Done marks jobID finished. The id stays known so late redeliveries of the
// same job are skipped.
func (g *Guard) Done(jobID uint) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.processing, jobID)
	g.processed[jobID] = struct{}{}
}

// Fail releases jobID without marking it processed. The job stays failed on
// the server, so nothing re-executes it unless its status is reset there.
func (g *Guard) Fail(jobID uint) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.processing, jobID)
}

// InFlight reports how many jobs are currently executing.
func (g *Guard) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.processing)
}
