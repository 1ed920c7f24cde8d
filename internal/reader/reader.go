// Package reader implements the incremental line reader (component B):
// given WatchMessages from internal/watch, it tracks a monotonic byte
// offset into the target file and forwards each newly-written complete
// line to the parser.
package reader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ilsubyeega/fgtail/internal/watch"
)

// FatalError reports a pipeline-integrity violation per spec.md §7 kind 4.
type FatalError struct {
	Reason string
}

func (e *FatalError) Error() string { return "reader: " + e.Reason }

// Reader tracks the read offset of a single target file.
type Reader struct {
	path   string
	offset uint64
}

// New builds a Reader over path, which must be the same path the watcher
// in internal/watch was configured with.
func New(path string) *Reader {
	return &Reader{path: path}
}

// Run consumes WatchMessages from in and sends complete lines to out,
// until in is closed or ctx is cancelled. Returns the first FatalError
// encountered, if any.
func (r *Reader) Run(ctx context.Context, in <-chan watch.Message, out chan<- string) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-in:
			if !ok {
				return nil
			}
			if err := r.handle(ctx, msg, out); err != nil {
				return err
			}
		}
	}
}

func (r *Reader) handle(ctx context.Context, msg watch.Message, out chan<- string) error {
	switch msg.Kind {
	case watch.FileCreated:
		r.offset = 0
		return nil
	case watch.Closed:
		return nil
	case watch.ContentModified:
		return r.readUpTo(ctx, msg.Length, out)
	default:
		return nil
	}
}

func (r *Reader) readUpTo(ctx context.Context, length uint64, out chan<- string) error {
	if length < r.offset {
		return &FatalError{Reason: fmt.Sprintf("file length %d is less than tracked offset %d", length, r.offset)}
	}
	if length == r.offset {
		return nil
	}

	f, err := os.Open(r.path)
	if err != nil {
		return &FatalError{Reason: fmt.Sprintf("open %s: %v", r.path, err)}
	}
	defer f.Close()

	if _, err := f.Seek(int64(r.offset), io.SeekStart); err != nil {
		return &FatalError{Reason: fmt.Sprintf("seek %s: %v", r.path, err)}
	}

	limited := io.LimitReader(f, int64(length-r.offset))
	buffered := bufio.NewReaderSize(limited, 64*1024)

	var consumed int64
	for {
		line, err := buffered.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				// Unterminated remainder: not a complete line. offset stops
				// short of it, so the next ContentModified re-reads it
				// joined with whatever gets appended after it.
				break
			}
			return &FatalError{Reason: fmt.Sprintf("scan %s: %v", r.path, err)}
		}
		consumed += int64(len(line))
		trimmed := strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		select {
		case out <- trimmed:
		case <-ctx.Done():
			return nil
		}
	}

	r.offset += uint64(consumed)
	return nil
}
