package ui

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueOrder(t *testing.T) {
	q := NewQueue()
	q.Send(UpMsg{})
	q.Send(DownMsg{})
	q.Send(SortColumnMsg{N: 2})

	var got []Action
	for {
		a, ok := q.TryRecv()
		if !ok {
			break
		}
		got = append(got, a)
	}
	assert.Equal(t, []Action{UpMsg{}, DownMsg{}, SortColumnMsg{N: 2}}, got)
	assert.Zero(t, q.Len())
}

func TestQueueConcurrentSend(t *testing.T) {
	q := NewQueue()

	var wg sync.WaitGroup
	for p := 0; p < 8; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				q.Send(SortColumnMsg{N: p*100 + i})
			}
		}(p)
	}
	wg.Wait()

	require.Equal(t, 800, q.Len())
	last := make(map[int]int)
	for {
		a, ok := q.TryRecv()
		if !ok {
			break
		}
		n := a.(SortColumnMsg).N
		producer := n / 100
		if prev, seen := last[producer]; seen {
			assert.Greater(t, n, prev, "per producer order")
		}
		last[producer] = n
	}
	assert.Len(t, last, 8)
}
