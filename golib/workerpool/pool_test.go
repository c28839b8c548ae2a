package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func Test_RunJobs(t *testing.T) {
	pool := New(5)

	var jobs []Job
	var completed int32
	var running, maxRunning int32
	for i := 0; i < 15; i++ {
		jobs = append(jobs, func() error {
			n := atomic.AddInt32(&running, 1)
			for {
				max := atomic.LoadInt32(&maxRunning)
				if n <= max || atomic.CompareAndSwapInt32(&maxRunning, max, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			atomic.AddInt32(&completed, 1)
			return nil
		})
	}

	pool.Add(jobs)
	require.NoError(t, pool.Wait())
	require.EqualValues(t, len(jobs), completed, "expected all jobs to be completed")
	require.True(t, maxRunning <= 5, "at most 5 jobs should run at once, saw %d", maxRunning)
}

func Test_FirstErrorReported(t *testing.T) {
	pool := New(1)
	boom := errors.New("boom")

	var ran int32
	pool.Add([]Job{
		func() error { return boom },
		func() error { atomic.AddInt32(&ran, 1); return nil },
	})
	err := pool.Wait()
	require.Equal(t, boom, err)
}

func Test_StopWait(t *testing.T) {
	pool := New(2)

	var started int32
	var jobs []Job
	for i := 0; i < 15; i++ {
		jobs = append(jobs, func() error {
			atomic.AddInt32(&started, 1)
			time.Sleep(50 * time.Millisecond)
			return nil
		})
	}

	pool.Add(jobs)
	<-time.After(10 * time.Millisecond)
	pool.Stop()
	require.NoError(t, pool.Wait())
	require.True(t, atomic.LoadInt32(&started) < int32(len(jobs)))
}

func Test_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran int32
	pool := NewWithContext(ctx, 3)
	pool.Add([]Job{func() error { atomic.AddInt32(&ran, 1); return nil }})
	require.NoError(t, pool.Wait())
	require.EqualValues(t, 0, ran)
}
