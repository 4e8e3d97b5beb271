package input

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"
)

// Reader forwards newline-delimited text from src into a Queue, one line at a time.
type Reader struct {
	src    io.Reader
	queue  *Queue
	logger *zap.Logger
}

// NewReader creates a Reader that feeds queue from src.
//
// Precondition: src, queue and logger must be non-nil.
func NewReader(src io.Reader, queue *Queue, logger *zap.Logger) *Reader {
	return &Reader{src: src, queue: queue, logger: logger}
}

// Run reads until src is exhausted or ctx is cancelled, then closes the queue.
// It blocks only on src. Lines of any length are forwarded whole.
// A failing source is logged and treated like end of input, so the battle
// continues without further player input.
//
// Postcondition: the queue is closed when Run returns; the error is always nil.
func (r *Reader) Run(ctx context.Context) error {
	defer r.queue.Close()

	br := bufio.NewReader(r.src)
	lines := 0
	for {
		line, err := br.ReadString('\n')
		if ctx.Err() != nil {
			return nil
		}
		if line != "" {
			r.queue.Push(cleanLine(strings.TrimSuffix(line, "\n")))
			lines++
		}
		if errors.Is(err, io.EOF) {
			r.logger.Info("input closed", zap.Int("lines", lines))
			return nil
		}
		if err != nil {
			r.logger.Warn("input failed, closing", zap.Int("lines", lines), zap.Error(err))
			return nil
		}
	}
}

// cleanLine strips a trailing carriage return and control characters other than tab.
func cleanLine(s string) string {
	s = strings.TrimSuffix(s, "\r")
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return -1
		}
		return r
	}, s)
}
