package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyaillet/doggy/internal/types"
)

func namedContainers(names ...string) []types.ContainerSummary {
	out := make([]types.ContainerSummary, len(names))
	for i, n := range names {
		out[i] = types.ContainerSummary{ID: "id-" + n, Name: n, Status: types.StatusRunning}
	}
	return out
}

func names(items []types.ContainerSummary) []string {
	out := make([]string, len(items))
	for i, c := range items {
		out[i] = c.Name
	}
	return out
}

func TestListNavigation(t *testing.T) {
	env, _ := newTestEnv(&fakeClient{})
	s := NewContainersScreen(env, types.Filter{})
	s.list.setItems(namedContainers("a", "b", "c"))
	ctx := context.Background()

	require.NoError(t, s.Update(ctx, UpMsg{}))
	assert.Equal(t, 2, s.list.selected, "up wraps to the last row")

	require.NoError(t, s.Update(ctx, DownMsg{}))
	assert.Equal(t, 0, s.list.selected, "down wraps to the first row")

	many := make([]string, 40)
	for i := range many {
		many[i] = string(rune('A'+i/26)) + string(rune('a'+i%26))
	}
	s.list.setItems(namedContainers(many...))

	require.NoError(t, s.Update(ctx, PageDownMsg{}))
	assert.Equal(t, pageSize, s.list.selected)
	require.NoError(t, s.Update(ctx, PageDownMsg{}))
	require.NoError(t, s.Update(ctx, PageDownMsg{}))
	assert.Equal(t, 39, s.list.selected, "page down clamps")
	require.NoError(t, s.Update(ctx, PageUpMsg{}))
	assert.Equal(t, 39-pageSize, s.list.selected)
	require.NoError(t, s.Update(ctx, PageUpMsg{}))
	require.NoError(t, s.Update(ctx, PageUpMsg{}))
	assert.Equal(t, 0, s.list.selected, "page up clamps")
}

func TestListSelectionClampedAfterRefresh(t *testing.T) {
	env, _ := newTestEnv(&fakeClient{})
	s := NewContainersScreen(env, types.Filter{})
	s.list.setItems(namedContainers("a", "b", "c", "d"))
	s.list.selected = 3

	s.list.setItems(namedContainers("a", "b"))
	assert.Equal(t, 1, s.list.selected)

	s.list.setItems(nil)
	assert.Equal(t, 0, s.list.selected)
	_, ok := s.list.current()
	assert.False(t, ok)
}

func TestListSortColumn(t *testing.T) {
	env, _ := newTestEnv(&fakeClient{})
	s := NewContainersScreen(env, types.Filter{})
	ctx := context.Background()

	items := namedContainers("b", "c", "a")
	now := time.Now()
	items[0].Created = now.Add(-time.Hour)
	items[1].Created = now
	items[2].Created = now.Add(-2 * time.Hour)
	s.list.setItems(items)
	assert.Equal(t, []string{"a", "b", "c"}, names(s.list.items), "name ascending by default")

	require.NoError(t, s.Update(ctx, SortColumnMsg{N: 2}))
	assert.Equal(t, []string{"c", "b", "a"}, names(s.list.items), "same column toggles")

	require.NoError(t, s.Update(ctx, SortColumnMsg{N: 5}))
	assert.Equal(t, []string{"c", "b", "a"}, names(s.list.items), "youngest first")

	require.NoError(t, s.Update(ctx, SortColumnMsg{N: 5}))
	assert.Equal(t, []string{"a", "b", "c"}, names(s.list.items))

	require.NoError(t, s.Update(ctx, SortColumnMsg{N: 42}))
	assert.Equal(t, 4, s.list.sortCol, "unknown column is ignored")
}

func TestListYank(t *testing.T) {
	env, copied := newTestEnv(&fakeClient{})
	s := NewContainersScreen(env, types.Filter{})
	s.list.setItems(namedContainers("a", "b"))
	s.list.selected = 1

	require.NoError(t, s.Update(context.Background(), YankMsg{}))
	assert.Equal(t, "id-b", *copied)
}

func TestDeleteScenario(t *testing.T) {
	client := &fakeClient{containers: namedContainers("web"), deleteErr: errors.New("container is running")}
	env, _ := newTestEnv(client)
	s := NewContainersScreen(env, types.Filter{})
	tx := &recordingSender{}
	s.screenBase.Register(context.Background(), tx)
	ctx := context.Background()

	require.NoError(t, s.Update(ctx, TickMsg{}))
	require.NoError(t, s.Update(ctx, DeleteMsg{}))
	require.NotNil(t, s.list.confirm)
	assert.Equal(t, "id-web", s.list.confirm.ID)

	// navigation is ignored while confirming
	require.NoError(t, s.Update(ctx, DownMsg{}))
	assert.NotNil(t, s.list.confirm)

	require.NoError(t, s.Update(ctx, OkMsg{}))
	assert.NotNil(t, s.list.confirm, "a failed delete keeps the confirmation")
	sent := tx.actions()
	require.Len(t, sent, 1)
	assert.Equal(t, Errorf("Unable to delete container web: container is running"), sent[0])

	client.mu.Lock()
	client.deleteErr = nil
	client.mu.Unlock()

	require.NoError(t, s.Update(ctx, OkMsg{}))
	assert.Nil(t, s.list.confirm)
	assert.Equal(t, []string{"id-web"}, client.deleted)
	sent = tx.actions()
	require.Len(t, sent, 2)
	assert.Equal(t, TickMsg{}, sent[1])
}

func TestDeleteCancelled(t *testing.T) {
	client := &fakeClient{images: []types.ImageSummary{{ID: "sha256:abc", Name: "alpine:3"}}}
	env, _ := newTestEnv(client)
	s := NewImagesScreen(env, types.Filter{})
	s.screenBase.Register(context.Background(), &recordingSender{})
	ctx := context.Background()

	require.NoError(t, s.Update(ctx, TickMsg{}))
	require.NoError(t, s.Update(ctx, DeleteMsg{}))
	require.NotNil(t, s.list.confirm)

	require.NoError(t, s.Update(ctx, PreviousScreenMsg{}))
	assert.Nil(t, s.list.confirm)
	assert.Empty(t, client.deleted)
}

func TestListRefreshFailureKeepsItems(t *testing.T) {
	client := &fakeClient{networks: []types.NetworkSummary{{ID: "n1", Name: "bridge"}}}
	env, _ := newTestEnv(client)
	s := NewNetworksScreen(env, types.Filter{})
	tx := &recordingSender{}
	s.screenBase.Register(context.Background(), tx)
	ctx := context.Background()

	require.NoError(t, s.Update(ctx, TickMsg{}))
	client.listErr = errors.New("connection refused")
	require.NoError(t, s.Update(ctx, TickMsg{}))

	assert.Len(t, s.list.items, 1)
	require.Len(t, tx.actions(), 1)
	assert.Equal(t, Errorf("Error getting network list: connection refused"), tx.actions()[0])
}

func TestLayoutFillsWidth(t *testing.T) {
	env, _ := newTestEnv(&fakeClient{})
	s := NewContainersScreen(env, types.Filter{})

	for _, width := range []int{80, 123, 200} {
		headers := s.list.layout(width)
		total := len(headers) + 1
		for _, h := range headers {
			total += h.Width
		}
		assert.Equal(t, width, total, "width %d", width)
	}
}

func TestContainersInvalidFilter(t *testing.T) {
	env, _ := newTestEnv(&fakeClient{})
	s := NewContainersScreen(env, types.Filter{})
	tx := &recordingSender{}
	s.screenBase.Register(context.Background(), tx)

	require.NoError(t, s.Update(context.Background(), SetFilterMsg{Value: stringPtr("colour=red")}))
	assert.True(t, s.list.filter.IsZero())
	assert.Equal(t, []Action{Errorf("Invalid filter: colour=red")}, tx.actions())
}

func TestContainersPreviousScreenClearsFilter(t *testing.T) {
	env, _ := newTestEnv(&fakeClient{containers: namedContainers("a", "b")})
	s := NewContainersScreen(env, types.Filter{Key: "name", Value: "a"})
	s.screenBase.Register(context.Background(), &recordingSender{})

	require.NoError(t, s.Update(context.Background(), PreviousScreenMsg{}))
	assert.True(t, s.list.filter.IsZero())
	assert.Len(t, s.list.items, 2)
}

func TestCustomShellPrompt(t *testing.T) {
	env, _ := newTestEnv(&fakeClient{containers: namedContainers("web")})
	s := NewContainersScreen(env, types.Filter{})
	tx := &recordingSender{}
	s.screenBase.Register(context.Background(), tx)
	ctx := context.Background()

	require.NoError(t, s.Update(ctx, TickMsg{}))
	require.NoError(t, s.Update(ctx, CustomShellMsg{}))
	require.NotNil(t, s.shell)

	for _, r := range "sh -c ls" {
		assert.True(t, s.HandleKey(tuiKey(string(r))))
	}
	assert.True(t, s.HandleKey(tuiKey("enter")))
	assert.Nil(t, s.shell)

	sent := tx.actions()
	require.Len(t, sent, 2)
	assert.Equal(t, SuspendMsg{}, sent[0])
	exec, ok := sent[1].(ScreenMsg).Screen.(*ExecScreen)
	require.True(t, ok)
	assert.Equal(t, []string{"sh", "-c", "ls"}, exec.cmd)
}

func TestMetricsPoller(t *testing.T) {
	env, _ := newTestEnv(&fakeClient{containers: namedContainers("web")})
	s := NewContainersScreen(env, types.Filter{})
	s.Register(context.Background(), &recordingSender{})
	defer s.Teardown()

	require.Eventually(t, func() bool {
		s.readMetrics()
		_, ok := s.cache["id-web"]
		return ok
	}, 2*time.Second, 10*time.Millisecond)
	assert.InDelta(t, 12.5, s.cache["id-web"].CPUPercent, 0.001)

	require.NoError(t, s.Teardown())
	assert.False(t, s.poller.Running())
}
