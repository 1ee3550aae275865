package ui

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inspectDoc = `{
  "Name": "web",
  "Config": {
    "Image": "nginx:latest",
    "Env": ["A=1", "B=2"]
  }
}`

func newTestInspect(t *testing.T) (*InspectScreen, *recordingSender) {
	t.Helper()
	tx := &recordingSender{}
	s := NewInspectScreen("container", "web", inspectDoc, func() Screen { return &recordingScreen{name: "back"} })
	s.Register(context.Background(), tx)
	return s, tx
}

func TestInspectFilter(t *testing.T) {
	s, tx := newTestInspect(t)
	ctx := context.Background()

	expr := "Config.Image"
	require.NoError(t, s.Update(ctx, SetFilterMsg{Value: &expr}))
	assert.Equal(t, []string{`"nginx:latest"`}, s.lines)
	assert.Equal(t, expr, s.CurrentFilter())

	expr = "Config.Env[1]"
	require.NoError(t, s.Update(ctx, SetFilterMsg{Value: &expr}))
	assert.Equal(t, []string{`"B=2"`}, s.lines)

	require.NoError(t, s.Update(ctx, SetFilterMsg{}))
	assert.Equal(t, strings.Split(inspectDoc, "\n"), s.lines)
	assert.Empty(t, s.CurrentFilter())
	assert.Empty(t, tx.actions())
}

func TestInspectInvalidFilterKeepsDocument(t *testing.T) {
	s, tx := newTestInspect(t)

	expr := "Config.["
	require.NoError(t, s.Update(context.Background(), SetFilterMsg{Value: &expr}))

	assert.Equal(t, strings.Split(inspectDoc, "\n"), s.lines)
	assert.Empty(t, s.CurrentFilter())
	sent := tx.actions()
	require.Len(t, sent, 1)
	errMsg, ok := sent[0].(ErrorMsg)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(errMsg.Message, "Invalid filter: "), errMsg.Message)
}

func TestInspectBack(t *testing.T) {
	s, tx := newTestInspect(t)

	require.NoError(t, s.Update(context.Background(), PreviousScreenMsg{}))

	sent := tx.actions()
	require.Len(t, sent, 1)
	next, ok := sent[0].(ScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "back", next.Screen.Name())
}

func TestInspectScrollIsClamped(t *testing.T) {
	s, _ := newTestInspect(t)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		require.NoError(t, s.Update(ctx, DownMsg{}))
	}
	s.View(80, 6)
	assert.LessOrEqual(t, s.scroll, len(s.lines))

	require.NoError(t, s.Update(ctx, PageUpMsg{}))
	assert.Zero(t, s.scroll)
}

func TestOpenInspectError(t *testing.T) {
	tx := &recordingSender{}
	get := func(context.Context, string) (string, error) {
		return "", assert.AnError
	}

	openInspect(context.Background(), tx.Send, "image", "sha256:abc", "nginx", get, nil)

	assert.Equal(t, []Action{Errorf("Unable to inspect image nginx: %v", assert.AnError)}, tx.actions())
}
