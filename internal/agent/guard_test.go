package agent

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardBeginOnce(t *testing.T) {
	g := NewGuard()

	require.True(t, g.Begin(1))
	assert.False(t, g.Begin(1), "job already processing")

	g.Done(1)
	assert.False(t, g.Begin(1), "job already processed")
}

func TestGuardFailReleasesJob(t *testing.T) {
	g := NewGuard()

	require.True(t, g.Begin(7))
	g.Fail(7)

	assert.Equal(t, 0, g.InFlight())
	assert.True(t, g.Begin(7), "failed job may be claimed again after a server-side reset")
}

func TestGuardIndependentJobs(t *testing.T) {
	g := NewGuard()

	require.True(t, g.Begin(1))
	require.True(t, g.Begin(2))
	assert.Equal(t, 2, g.InFlight())

	g.Done(1)
	assert.Equal(t, 1, g.InFlight())
	assert.True(t, g.Begin(3))
}

// Push delivery and the poll loop can both see the same ready job. Whatever
// the interleaving, exactly one goroutine may execute it.
func TestGuardConcurrentDelivery(t *testing.T) {
	g := NewGuard()

	const jobID = 42
	const deliveries = 16

	var executions atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if g.Begin(jobID) {
				executions.Add(1)
				g.Done(jobID)
			}
		}()
	}

	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), executions.Load())
}

func TestGuardConcurrentDistinctJobs(t *testing.T) {
	g := NewGuard()

	const jobs = 100
	var executions atomic.Int32
	var wg sync.WaitGroup

	for id := uint(1); id <= jobs; id++ {
		// two competing deliveries per job
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(id uint) {
				defer wg.Done()
				if g.Begin(id) {
					executions.Add(1)
					g.Done(id)
				}
			}(id)
		}
	}
	wg.Wait()

	assert.Equal(t, int32(jobs), executions.Load())
	assert.Equal(t, 0, g.InFlight())
}
