package ui

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinceChangeRestartsFollower(t *testing.T) {
	client := &fakeClient{}
	env, _ := newTestEnv(client)
	s := NewLogsScreen(env, "c0ffee", "web", nil)
	s.Register(context.Background(), &recordingSender{})
	defer s.Teardown()

	require.Eventually(t, func() bool {
		_, streams := client.logStreams()
		return len(streams) == 1
	}, time.Second, 5*time.Millisecond)
	_, streams := client.logStreams()
	old := s.follower

	streams[0].lines <- "before"
	require.Eventually(t, func() bool {
		s.View(80, 20)
		return len(s.lines) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, s.Update(context.Background(), SinceMsg{Minutes: 5}))

	assert.False(t, old.Running(), "old follower finished")
	assert.True(t, streams[0].isClosed())
	assert.NotSame(t, old, s.follower)

	var cleared bool
	s.buffer.Update(func(b *logBuffer) {
		cleared = len(b.lines) == 0 && b.gen == s.gen
	})
	assert.True(t, cleared, "buffer cleared before the new follower writes")

	require.Eventually(t, func() bool {
		since, _ := client.logStreams()
		return len(since) == 2
	}, time.Second, 5*time.Millisecond)
	since, streams := client.logStreams()
	assert.Equal(t, []int{15, 5}, since)

	streams[1].lines <- "after"
	require.Eventually(t, func() bool {
		s.View(80, 20)
		return len(s.lines) == 1 && s.lines[0] == "after"
	}, time.Second, 5*time.Millisecond)
}

func TestSameSinceKeepsFollower(t *testing.T) {
	env, _ := newTestEnv(&fakeClient{})
	s := NewLogsScreen(env, "c0ffee", "web", nil)
	s.Register(context.Background(), &recordingSender{})
	defer s.Teardown()

	old := s.follower
	require.NoError(t, s.Update(context.Background(), SinceMsg{Minutes: 15}))
	assert.Same(t, old, s.follower)
}

func TestLogsTeardownStopsFollower(t *testing.T) {
	client := &fakeClient{}
	env, _ := newTestEnv(client)
	s := NewLogsScreen(env, "c0ffee", "web", nil)
	s.Register(context.Background(), &recordingSender{})

	require.NoError(t, s.Teardown())
	assert.False(t, s.follower.Running())
	require.NoError(t, s.Teardown())
}

func TestLogsScrollingDisablesAutoScroll(t *testing.T) {
	env, _ := newTestEnv(&fakeClient{})
	s := NewLogsScreen(env, "c0ffee", "web", nil)
	ctx := context.Background()

	require.True(t, s.autoScroll)
	require.NoError(t, s.Update(ctx, UpMsg{}))
	assert.False(t, s.autoScroll)

	require.NoError(t, s.Update(ctx, AutoScrollMsg{}))
	assert.True(t, s.autoScroll)

	require.NoError(t, s.Update(ctx, LineWrapMsg{}))
	assert.True(t, s.wrap)
}

func TestLogsAutoScrollFollowsTail(t *testing.T) {
	env, _ := newTestEnv(&fakeClient{})
	s := NewLogsScreen(env, "c0ffee", "web", nil)
	s.buffer.Update(func(b *logBuffer) {
		for i := 0; i < 100; i++ {
			b.lines = append(b.lines, "line")
		}
	})

	s.View(80, 20)
	// two title lines
	assert.Equal(t, 100-18, s.scroll)
}
