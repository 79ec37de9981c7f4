// Package batch classifies many triples read from a line-oriented stream.
//
// Each non-blank line holds up to three sides separated by whitespace or
// commas. Text after '#' is a comment. Missing sides are classified as
// absent values, so short lines yield InvalidArgs rather than an error.
package batch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/muliwe/go-triangle-classifier/internal/classifier"
	"github.com/muliwe/go-triangle-classifier/internal/triangle"
)

// ErrTooManyFields reports a line with more than three sides.
var ErrTooManyFields = errors.New("more than three sides")

// Triple is one parsed input line.
type Triple struct {
	Line   int
	Fields []string
	Err    error
}

// Item is a classified line.
type Item struct {
	Line   int               `json:"line"`
	Result classifier.Result `json:"result"`
	Err    string            `json:"error,omitempty"`
}

// Parse splits r into triples. Only read errors are returned; malformed lines
// are reported on the Triple.
func Parse(r io.Reader) ([]Triple, error) {
	var triples []Triple
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if len(fields) == 0 {
			continue
		}
		t := Triple{Line: line, Fields: fields}
		if len(fields) > 3 {
			t.Err = fmt.Errorf("line %d: %w", line, ErrTooManyFields)
		}
		triples = append(triples, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("batch: read input: %w", err)
	}
	return triples, nil
}

// Sides returns the raw side values of t, nil for each missing field.
func (t Triple) Sides() (a, b, c any) {
	var sides [3]any
	for i := 0; i < len(t.Fields) && i < 3; i++ {
		sides[i] = t.Fields[i]
	}
	return sides[0], sides[1], sides[2]
}

// Classify classifies triples with at most workers goroutines and returns
// items in input order. workers <= 0 uses GOMAXPROCS.
func Classify(ctx context.Context, clf *classifier.Classifier, triples []Triple, workers int) ([]Item, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	items := make([]Item, len(triples))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, t := range triples {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a, b, c := t.Sides()
			item := Item{Line: t.Line, Result: clf.Classify(a, b, c)}
			if t.Err != nil {
				item.Err = t.Err.Error()
				item.Result.Label = triangle.InvalidArgs
				item.Result.Sides = nil
				item.Result.Reason = ErrTooManyFields.Error()
			}
			items[i] = item
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
