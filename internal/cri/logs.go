package cri

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pyaillet/doggy/internal/runtime"
	"github.com/pyaillet/doggy/internal/worker"
)

// logPollInterval is how often a followed log file is checked for new data.
const logPollInterval = 250 * time.Millisecond

// CRI log line tags.
const (
	tagPartial = "P"
	tagFull    = "F"
)

// GetContainerLogStream reads the log file the runtime writes for the
// container. Lines older than sinceMinutes are skipped.
func (c *Client) GetContainerLogStream(ctx context.Context, id string, sinceMinutes int, follow bool) (runtime.LogStream, error) {
	resp, err := c.containerStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	path := resp.GetStatus().GetLogPath()
	if path == "" {
		return nil, fmt.Errorf("container %s has no log file", shortID(id))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return newFileLogStream(ctx, file, time.Now().Add(-time.Duration(sinceMinutes)*time.Minute), follow), nil
}

type fileLogStream struct {
	ctx     context.Context
	rc      io.ReadCloser
	reader  *bufio.Reader
	since   time.Time
	follow  bool
	tail    string
	partial strings.Builder
}

func newFileLogStream(ctx context.Context, rc io.ReadCloser, since time.Time, follow bool) *fileLogStream {
	return &fileLogStream{
		ctx:    ctx,
		rc:     rc,
		reader: bufio.NewReader(rc),
		since:  since,
		follow: follow,
	}
}

// Next returns the next complete log message. Partial lines are joined.
func (s *fileLogStream) Next() (string, error) {
	for {
		chunk, err := s.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		if errors.Is(err, io.EOF) {
			s.tail += chunk
			if !s.follow {
				if s.tail == "" {
					return "", io.EOF
				}
				chunk, s.tail = s.tail, ""
			} else {
				if !worker.Sleep(s.ctx, logPollInterval) {
					return "", s.ctx.Err()
				}
				continue
			}
		} else if s.tail != "" {
			chunk, s.tail = s.tail+chunk, ""
		}

		entry, ok := parseLogLine(strings.TrimRight(chunk, "\r\n"))
		if !ok || entry.timestamp.Before(s.since) {
			continue
		}
		s.partial.WriteString(entry.message)
		if entry.tag == tagPartial {
			continue
		}
		msg := s.partial.String()
		s.partial.Reset()
		return msg, nil
	}
}

func (s *fileLogStream) Close() error {
	return s.rc.Close()
}

type logEntry struct {
	timestamp time.Time
	stream    string
	tag       string
	message   string
}

// parseLogLine splits "<timestamp> <stream> <tag> <message>". Lines written
// before tags existed have no tag field and are treated as full lines.
func parseLogLine(line string) (logEntry, bool) {
	parts := strings.SplitN(line, " ", 4)
	if len(parts) < 3 {
		return logEntry{}, false
	}
	ts, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return logEntry{}, false
	}
	entry := logEntry{timestamp: ts, stream: parts[1]}

	switch {
	case len(parts) == 4 && (parts[2] == tagPartial || parts[2] == tagFull):
		entry.tag = parts[2]
		entry.message = parts[3]
	case len(parts) == 3 && (parts[2] == tagPartial || parts[2] == tagFull):
		entry.tag = parts[2]
	default:
		entry.tag = tagFull
		entry.message = strings.Join(parts[2:], " ")
	}
	return entry, true
}
