package triage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kamilpajak/triage/pkg/models"
	"go.uber.org/zap"
)

// maxLineSize bounds a single line of feedback read from input.
const maxLineSize = 1 << 20

var errLineTooLong = fmt.Errorf("line too long (limit %d bytes)", maxLineSize)

// inputLine is one line of input. Lines over maxLineSize are drained and
// reported with tooLong set instead of their text.
type inputLine struct {
	text    string
	tooLong bool
}

type analyzer interface {
	Analyze(ctx context.Context, text string) (*models.AnalysisResult, error)
}

// loop reads feedback lines and prints one JSON result per non-blank line.
// A failed analysis is reported on stderr and the loop keeps going.
type loop struct {
	analyzer analyzer
	in       io.Reader
	stdout   io.Writer
	stderr   io.Writer
	prompt   string
	logger   *zap.Logger
}

func (l *loop) run(ctx context.Context) error {
	if l.logger == nil {
		l.logger = zap.NewNop()
	}

	lines := make(chan inputLine)
	var readErr error
	go func() {
		defer close(lines)
		readErr = readLines(ctx, l.in, lines)
	}()

	for {
		fmt.Fprint(l.stderr, l.prompt)

		var line inputLine
		select {
		case <-ctx.Done():
			fmt.Fprintln(l.stderr)
			return nil
		case s, ok := <-lines:
			if !ok {
				fmt.Fprintln(l.stderr)
				if readErr != nil {
					return fmt.Errorf("read input: %w", readErr)
				}
				return nil
			}
			line = s
		}

		if line.tooLong {
			printError(l.stderr, errLineTooLong)
			continue
		}
		if strings.TrimSpace(line.text) == "" {
			continue
		}

		result, err := l.analyzer.Analyze(ctx, line.text)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Fprintln(l.stderr)
				return nil
			}
			l.logger.Warn("analysis failed", zap.Error(err))
			printError(l.stderr, err)
			continue
		}

		if err := printJSON(l.stdout, result); err != nil {
			return err
		}
	}
}

// readLines sends each line of r to out until end of input or cancellation.
func readLines(ctx context.Context, r io.Reader, out chan<- inputLine) error {
	br := bufio.NewReaderSize(r, 64*1024)
	for {
		var (
			buf     []byte
			tooLong bool
		)
		for {
			chunk, isPrefix, err := br.ReadLine()
			if err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}
			if !tooLong {
				if len(buf)+len(chunk) > maxLineSize {
					tooLong = true
					buf = nil
				} else {
					buf = append(buf, chunk...)
				}
			}
			if !isPrefix {
				break
			}
		}

		select {
		case out <- inputLine{text: string(buf), tooLong: tooLong}:
		case <-ctx.Done():
			return nil
		}
	}
}
