package channel

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestChannel_FIFO verifies items come out in the order they were sent.
func TestChannel_FIFO(t *testing.T) {
	tx, rx := New[int]()

	for i := 0; i < 100; i++ {
		require.NoError(t, tx.Send(i))
	}
	assert.Equal(t, 100, rx.Len())

	for i := 0; i < 100; i++ {
		v, ok := rx.Recv()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
}

// TestChannel_CloseDrainsBeforeSignalling checks that queued items survive sender close.
func TestChannel_CloseDrainsBeforeSignalling(t *testing.T) {
	tx, rx := New[string]()
	require.NoError(t, tx.Send("a"))
	require.NoError(t, tx.Send("b"))
	tx.Close()

	v, ok := rx.Recv()
	assert.True(t, ok)
	assert.Equal(t, "a", v)
	v, ok = rx.Recv()
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok = rx.Recv()
	assert.False(t, ok)
}

// TestChannel_RecvUnblocksOnClose ensures a blocked receiver wakes when the last sender closes.
func TestChannel_RecvUnblocksOnClose(t *testing.T) {
	tx, rx := New[int]()

	done := make(chan bool)
	go func() {
		_, ok := rx.Recv()
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	tx.Close()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("receiver did not observe close")
	}
}

// TestSender_Clone keeps the channel open until every handle is closed.
func TestSender_Clone(t *testing.T) {
	tx, rx := New[int]()
	tx2, err := tx.Clone()
	require.NoError(t, err)

	tx.Close()
	assert.ErrorIs(t, tx.Send(1), ErrClosed)

	require.NoError(t, tx2.Send(2))
	v, ok := rx.Recv()
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	tx2.Close()
	_, ok = rx.Recv()
	assert.False(t, ok)

	_, err = tx.Clone()
	assert.ErrorIs(t, err, ErrClosed)
}

// TestSender_CloseIsIdempotent must not over-decrement the sender count.
func TestSender_CloseIsIdempotent(t *testing.T) {
	tx, rx := New[int]()
	tx2, err := tx.Clone()
	require.NoError(t, err)

	tx.Close()
	tx.Close()

	require.NoError(t, tx2.Send(7))
	tx2.Close()
	v, ok := rx.Recv()
	assert.True(t, ok)
	assert.Equal(t, 7, v)
}

// TestSender_SendAfterReceiverClose reports a disconnected receiver.
func TestSender_SendAfterReceiverClose(t *testing.T) {
	tx, rx := New[int]()
	require.NoError(t, tx.Send(1))

	assert.Equal(t, 1, rx.Close())
	assert.Equal(t, 0, rx.Close())
	assert.Equal(t, 0, rx.Len())
	assert.ErrorIs(t, tx.Send(2), ErrDisconnected)

	_, ok := rx.Recv()
	assert.False(t, ok)
}

// TestChannel_ExactlyOnceDelivery runs several producers and consumers and checks
// that every item is received by exactly one consumer.
func TestChannel_ExactlyOnceDelivery(t *testing.T) {
	const producers = 8
	const perProducer = 500
	const consumers = 4

	tx, rx := New[int]()

	var pwg sync.WaitGroup
	for p := 0; p < producers; p++ {
		handle, err := tx.Clone()
		require.NoError(t, err)
		pwg.Add(1)
		go func(p int, handle *Sender[int]) {
			defer pwg.Done()
			defer handle.Close()
			for i := 0; i < perProducer; i++ {
				assert.NoError(t, handle.Send(p*perProducer+i))
			}
		}(p, handle)
	}
	tx.Close()

	var mu sync.Mutex
	seen := make(map[int]int)
	var cwg sync.WaitGroup
	for c := 0; c < consumers; c++ {
		cwg.Add(1)
		go func() {
			defer cwg.Done()
			for {
				v, ok := rx.Recv()
				if !ok {
					return
				}
				mu.Lock()
				seen[v]++
				mu.Unlock()
			}
		}()
	}

	pwg.Wait()
	cwg.Wait()

	require.Len(t, seen, producers*perProducer)
	for v, n := range seen {
		assert.Equalf(t, 1, n, "item %d delivered %d times", v, n)
	}
}

// TestChannel_NilInterfaceItem does not panic on a nil interface value.
func TestChannel_NilInterfaceItem(t *testing.T) {
	tx, rx := New[error]()
	require.NoError(t, tx.Send(nil))

	v, ok := rx.Recv()
	assert.True(t, ok)
	assert.Nil(t, v)
}
