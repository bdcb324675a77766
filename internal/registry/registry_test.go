package registry

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rioruntime/rio/internal/rerr"
)

func TestRegisterUnregisterRoundTrip(t *testing.T) {
	r := New(nil)
	h := r.Register()

	require.NoError(t, r.Unregister(h))
	require.ErrorIs(t, r.Unregister(h), rerr.ErrUnknownHandle)
}

func TestUnregisterUnknownHandle(t *testing.T) {
	r := New(nil)
	err := r.Unregister(HandleID(42))
	require.ErrorIs(t, err, rerr.ErrUnknownHandle)
}

func TestUnregisterBusyHandle(t *testing.T) {
	r := New(nil)
	h := r.Register()

	_, err := r.Submit([]Access{{Handle: h, Mode: Write}})
	require.NoError(t, err)

	err = r.Unregister(h)
	require.ErrorIs(t, err, rerr.ErrHandleBusy)
}

func TestSubmitUnknownHandle(t *testing.T) {
	r := New(nil)
	_, err := r.Submit([]Access{{Handle: HandleID(7), Mode: Read}})
	require.ErrorIs(t, err, rerr.ErrUnknownHandle)
}

func TestSubmitDuplicateHandleInAccessList(t *testing.T) {
	r := New(nil)
	h := r.Register()

	_, err := r.Submit([]Access{{Handle: h, Mode: Read}, {Handle: h, Mode: Write}})
	require.ErrorIs(t, err, rerr.ErrInvalidAccess)
}

func TestSubmitAssignsDenseIncreasingIDs(t *testing.T) {
	r := New(nil)
	h := r.Register()

	var ids []uint64
	for i := 0; i < 5; i++ {
		tid, err := r.Submit([]Access{{Handle: h, Mode: Read}})
		require.NoError(t, err)
		ids = append(ids, tid)
		r.Terminate(tid, []Access{{Handle: h, Mode: Read}})
	}

	for i, id := range ids {
		require.Equal(t, uint64(i), id)
	}
}

func TestSubmitRejectedAfterClose(t *testing.T) {
	r := New(nil)
	h := r.Register()
	r.Close()

	_, err := r.Submit([]Access{{Handle: h, Mode: Read}})
	require.ErrorIs(t, err, rerr.ErrRuntimeShutdown)
}

func TestReadinessEmptyAccessListAlwaysReady(t *testing.T) {
	r := New(nil)
	ready, err := r.IsReady(0, nil)
	require.NoError(t, err)
	require.True(t, ready)
}

func TestReadinessWriteBlocksLaterReadAndWrite(t *testing.T) {
	r := New(nil)
	h := r.Register()

	writeAccess := []Access{{Handle: h, Mode: Write}}
	readAccess := []Access{{Handle: h, Mode: Read}}

	tid0, err := r.Submit(writeAccess)
	require.NoError(t, err)
	tid1, err := r.Submit(readAccess)
	require.NoError(t, err)
	tid2, err := r.Submit(writeAccess)
	require.NoError(t, err)

	ready, err := r.IsReady(tid0, writeAccess)
	require.NoError(t, err)
	require.True(t, ready, "the first write has nothing outstanding ahead of it")

	ready, err = r.IsReady(tid1, readAccess)
	require.NoError(t, err)
	require.False(t, ready, "a read must wait for the earlier write to terminate")

	ready, err = r.IsReady(tid2, writeAccess)
	require.NoError(t, err)
	require.False(t, ready, "a write must wait for every earlier access to terminate")

	r.Terminate(tid0, writeAccess)

	ready, err = r.IsReady(tid1, readAccess)
	require.NoError(t, err)
	require.True(t, ready)

	ready, err = r.IsReady(tid2, writeAccess)
	require.NoError(t, err)
	require.False(t, ready, "the write still waits on the read")

	r.Terminate(tid1, readAccess)

	ready, err = r.IsReady(tid2, writeAccess)
	require.NoError(t, err)
	require.True(t, ready)
}

func TestReadinessConcurrentReadersAfterAWrite(t *testing.T) {
	r := New(nil)
	h := r.Register()

	writeAccess := []Access{{Handle: h, Mode: Write}}
	readAccess := []Access{{Handle: h, Mode: Read}}

	tid0, err := r.Submit(writeAccess)
	require.NoError(t, err)

	var readerIDs []uint64
	for i := 0; i < 5; i++ {
		tid, err := r.Submit(readAccess)
		require.NoError(t, err)
		readerIDs = append(readerIDs, tid)
	}

	for _, tid := range readerIDs {
		ready, err := r.IsReady(tid, readAccess)
		require.NoError(t, err)
		require.False(t, ready)
	}

	r.Terminate(tid0, writeAccess)

	for _, tid := range readerIDs {
		ready, err := r.IsReady(tid, readAccess)
		require.NoError(t, err)
		require.True(t, ready, "all readers become ready once the writer terminates")
	}
}

func TestAwaitReadyBlocksUntilDependencyClears(t *testing.T) {
	r := New(nil)
	h := r.Register()

	writeAccess := []Access{{Handle: h, Mode: Write}}
	readAccess := []Access{{Handle: h, Mode: Read}}

	tid0, err := r.Submit(writeAccess)
	require.NoError(t, err)
	tid1, err := r.Submit(readAccess)
	require.NoError(t, err)

	unblocked := make(chan bool, 1)
	go func() {
		unblocked <- r.AwaitReady(tid1, readAccess)
	}()

	select {
	case <-unblocked:
		t.Fatal("AwaitReady returned before the write terminated")
	case <-time.After(50 * time.Millisecond):
	}

	r.Terminate(tid0, writeAccess)

	select {
	case ready := <-unblocked:
		require.True(t, ready)
	case <-time.After(time.Second):
		t.Fatal("AwaitReady never returned after the dependency cleared")
	}
}

func TestAwaitReadyGivesUpOnClose(t *testing.T) {
	r := New(nil)
	h := r.Register()

	writeAccess := []Access{{Handle: h, Mode: Write}}
	readAccess := []Access{{Handle: h, Mode: Read}}

	_, err := r.Submit(writeAccess)
	require.NoError(t, err)
	tid1, err := r.Submit(readAccess)
	require.NoError(t, err)

	result := make(chan bool, 1)
	go func() {
		result <- r.AwaitReady(tid1, readAccess)
	}()

	time.Sleep(20 * time.Millisecond)
	r.Close()

	select {
	case ready := <-result:
		require.False(t, ready)
	case <-time.After(time.Second):
		t.Fatal("AwaitReady never returned after Close")
	}
}

func TestWaitForAllReturnsOnceEveryTaskTerminates(t *testing.T) {
	r := New(nil)
	h := r.Register()

	const n = 1000
	access := []Access{{Handle: h, Mode: Read}}

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		tid, err := r.Submit(access)
		require.NoError(t, err)
		go func(id uint64) {
			defer wg.Done()
			r.Terminate(id, access)
		}(tid)
	}

	done := make(chan struct{})
	go func() {
		r.WaitForAll()
		close(done)
	}()

	wg.Wait()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("WaitForAll did not return after all tasks terminated")
	}
}
