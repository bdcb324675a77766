package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/rioruntime/rio/internal/metrics"
	"github.com/rioruntime/rio/internal/registry"
	"github.com/rioruntime/rio/internal/worker"
)

// A panicking kernel must produce the worker's "kernel panicked" log entry
// (logged with the worker and task IDs as fields), and a hook installed with
// Intercept must observe it. The hook sees the entry only, so the check is on
// its message.
func TestInterceptObservesWorkerPanicLog(t *testing.T) {
	logger := MakeLogger(t, 0)

	var mu sync.Mutex
	var messages []string
	logger.Intercept(func(entry zapcore.Entry) error {
		mu.Lock()
		messages = append(messages, entry.Message)
		mu.Unlock()
		return nil
	})

	reg := registry.New(logger)
	m := metrics.New("testutil_logger_test")
	w := worker.New(0, reg, m, logger)

	tid, err := reg.Submit(nil)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() { recover() }()
		w.Run()
	}()

	w.Enqueue(worker.Task{ID: tid, Kernel: func() { panic("kernel exploded") }})
	<-done

	mu.Lock()
	defer mu.Unlock()
	require.Contains(t, messages, "kernel panicked")
}

// Silence must drop the high-volume Trace/Verbo scheduling events a worker
// emits per task, while leaving an installed hook able to observe anything
// that still gets through.
func TestSilenceDropsPerTaskSchedulingNoise(t *testing.T) {
	logger := MakeLogger(t)

	var mu sync.Mutex
	var count int
	logger.Intercept(func(entry zapcore.Entry) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	})
	logger.Silence()

	reg := registry.New(logger)
	m := metrics.New("testutil_logger_test_silence")
	w := worker.New(0, reg, m, logger)

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	go w.Run()
	t.Cleanup(w.Stop)

	for i := 0; i < n; i++ {
		tid, err := reg.Submit(nil)
		require.NoError(t, err)
		w.Enqueue(worker.Task{ID: tid, Kernel: func() { wg.Done() }})
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Zero(t, count, "Silence should suppress the Trace/Verbo per-task logging the registry and worker.Run emit")
}
