package runtime

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// maxLineLength caps a single log line; longer lines are split.
const maxLineLength = 64 * 1024

type lineStream struct {
	rc     io.ReadCloser
	reader *bufio.Reader
}

// NewLineStream turns a byte stream into a LogStream splitting on newlines.
// Closing the stream closes rc.
func NewLineStream(rc io.ReadCloser) LogStream {
	return &lineStream{
		rc:     rc,
		reader: bufio.NewReaderSize(rc, 4096),
	}
}

func (s *lineStream) Next() (string, error) {
	var b strings.Builder
	for {
		chunk, isPrefix, err := s.reader.ReadLine()
		if err != nil {
			if b.Len() > 0 && errors.Is(err, io.EOF) {
				return b.String(), nil
			}
			return "", err
		}
		b.Write(chunk)
		if !isPrefix || b.Len() >= maxLineLength {
			return strings.TrimRight(b.String(), "\r"), nil
		}
	}
}

func (s *lineStream) Close() error {
	return s.rc.Close()
}
