package cri

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"

	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/remotecommand"
	runtimeapi "k8s.io/cri-api/pkg/apis/runtime/v1"

	"github.com/pyaillet/doggy/internal/logging"
	"github.com/pyaillet/doggy/internal/runtime"
)

// ExecInContainer asks the runtime for a streaming URL and attaches to it
// over SPDY, the same way the kubelet does.
func (c *Client) ExecInContainer(ctx context.Context, id string, cmd []string, size runtime.TermSize) (runtime.ExecSession, error) {
	setupCtx, cancel := context.WithTimeout(ctx, TimeoutMedium)
	defer cancel()

	resp, err := c.runtime.Exec(setupCtx, &runtimeapi.ExecRequest{
		ContainerId: id,
		Cmd:         cmd,
		Tty:         true,
		Stdin:       true,
		Stdout:      true,
	})
	if err != nil {
		return nil, wrapError(err, "create exec", TimeoutMedium)
	}

	u, err := url.Parse(resp.GetUrl())
	if err != nil {
		return nil, fmt.Errorf("invalid exec url %q: %w", resp.GetUrl(), err)
	}
	executor, err := remotecommand.NewSPDYExecutor(&rest.Config{}, "POST", u)
	if err != nil {
		return nil, fmt.Errorf("failed to create exec stream: %w", err)
	}

	logging.Debug("CRI", "exec started in %s: %v", shortID(id), cmd)
	return startSession(ctx, executor, size), nil
}

// execSession bridges the push style executor to a ReadWriteCloser.
type execSession struct {
	cancel  context.CancelFunc
	stdinR  *io.PipeReader
	stdinW  *io.PipeWriter
	stdoutR *io.PipeReader
	stdoutW *io.PipeWriter
	sizes   *sizeQueue
}

func startSession(ctx context.Context, executor remotecommand.Executor, size runtime.TermSize) *execSession {
	ctx, cancel := context.WithCancel(ctx)
	s := &execSession{cancel: cancel, sizes: newSizeQueue(ctx)}
	s.stdinR, s.stdinW = io.Pipe()
	s.stdoutR, s.stdoutW = io.Pipe()
	s.sizes.push(size)

	go func() {
		err := executor.StreamWithContext(ctx, remotecommand.StreamOptions{
			Stdin:             s.stdinR,
			Stdout:            s.stdoutW,
			Tty:               true,
			TerminalSizeQueue: s.sizes,
		})
		if err != nil {
			logging.Debug("CRI", "exec stream ended: %v", err)
		}
		s.stdoutW.CloseWithError(err)
	}()
	return s
}

func (s *execSession) Read(p []byte) (int, error) {
	return s.stdoutR.Read(p)
}

func (s *execSession) Write(p []byte) (int, error) {
	return s.stdinW.Write(p)
}

func (s *execSession) CloseWrite() error {
	return s.stdinW.Close()
}

func (s *execSession) Close() error {
	s.cancel()
	_ = s.stdinW.Close()
	return s.stdoutR.Close()
}

func (s *execSession) Resize(_ context.Context, size runtime.TermSize) error {
	s.sizes.push(size)
	return nil
}

// sizeQueue keeps only the latest pending size.
type sizeQueue struct {
	ctx context.Context
	ch  chan remotecommand.TerminalSize
	mu  sync.Mutex
}

func newSizeQueue(ctx context.Context) *sizeQueue {
	return &sizeQueue{ctx: ctx, ch: make(chan remotecommand.TerminalSize, 1)}
}

func (q *sizeQueue) push(size runtime.TermSize) {
	q.mu.Lock()
	defer q.mu.Unlock()
	select {
	case <-q.ch:
	default:
	}
	q.ch <- remotecommand.TerminalSize{Width: uint16(size.Width), Height: uint16(size.Height)}
}

// Next blocks until a new size is pushed. A nil result ends the resize loop.
func (q *sizeQueue) Next() *remotecommand.TerminalSize {
	select {
	case size := <-q.ch:
		return &size
	case <-q.ctx.Done():
		return nil
	}
}
