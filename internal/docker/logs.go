package docker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/moby/moby/api/pkg/stdcopy"
	"github.com/moby/moby/client"

	"github.com/pyaillet/doggy/internal/runtime"
)

// GetContainerLogStream streams the logs written in the last sinceMinutes
// minutes. Output of containers without a TTY is demultiplexed.
func (c *Client) GetContainerLogStream(ctx context.Context, id string, sinceMinutes int, follow bool) (runtime.LogStream, error) {
	tty, err := c.hasTTY(ctx, id)
	if err != nil {
		return nil, err
	}

	since := time.Now().Add(-time.Duration(sinceMinutes) * time.Minute)
	logs, err := c.cli.ContainerLogs(ctx, id, client.ContainerLogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Since:      strconv.FormatInt(since.Unix(), 10),
		Follow:     follow,
	})
	if err != nil {
		return nil, wrapError(err, "get logs", TimeoutQuick)
	}

	if tty {
		return runtime.NewLineStream(logs), nil
	}
	return runtime.NewLineStream(demux(logs)), nil
}

func (c *Client) hasTTY(ctx context.Context, id string) (bool, error) {
	raw, err := c.inspectRaw(ctx, id)
	if err != nil {
		return false, err
	}
	var doc inspectDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false, fmt.Errorf("failed to decode inspect result: %w", err)
	}
	return doc.Config != nil && doc.Config.Tty, nil
}

type demuxReader struct {
	*io.PipeReader
	src io.ReadCloser
}

// Close stops the copy goroutine by closing the source.
func (d *demuxReader) Close() error {
	err := d.src.Close()
	_ = d.PipeReader.Close()
	return err
}

// demux interleaves stdout and stderr frames of a multiplexed stream.
func demux(src io.ReadCloser) io.ReadCloser {
	pr, pw := io.Pipe()
	go func() {
		_, err := stdcopy.StdCopy(pw, pw, src)
		pw.CloseWithError(err)
	}()
	return &demuxReader{PipeReader: pr, src: src}
}
