package classifier

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/muliwe/go-triangle-classifier/internal/triangle"
)

// Result is a single classification with request metadata
type Result struct {
	RequestID string         `json:"request_id"`
	Timestamp time.Time      `json:"timestamp"`
	Inputs    [3]string      `json:"inputs"`
	Sides     []float64      `json:"sides,omitempty"`
	Label     triangle.Label `json:"label"`
	Reason    string         `json:"reason"`
}

// Classifier turns raw side values into classification results
type Classifier struct {
	now func() time.Time
}

// Config holds classifier configuration
type Config struct {
	// Clock overrides time.Now for result timestamps (tests)
	Clock func() time.Time
}

// DefaultConfig returns default classifier configuration
func DefaultConfig() Config {
	return Config{
		Clock: time.Now,
	}
}

// New creates a new classifier
func New(cfg Config) *Classifier {
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	return &Classifier{now: now}
}

// Classify evaluates three raw side values and returns the result
func (c *Classifier) Classify(a, b, cSide any) Result {
	verdict := triangle.Evaluate(a, b, cSide)

	result := Result{
		RequestID: uuid.New().String(),
		Timestamp: c.now().UTC(),
		Inputs:    [3]string{render(a), render(b), render(cSide)},
		Label:     verdict.Label,
		Reason:    reason(verdict),
	}
	if verdict.Err == nil && finite(verdict.Sides) {
		result.Sides = verdict.Sides[:]
	}
	return result
}

// reason explains how the verdict was reached
func reason(v triangle.Verdict) string {
	if v.Err != nil {
		var se *triangle.SideError
		if errors.As(v.Err, &se) {
			return fmt.Sprintf("side %s: %v", se.Side, se.Err)
		}
		return v.Err.Error()
	}

	a, b, c := v.Sides[0], v.Sides[1], v.Sides[2]
	switch v.Label {
	case triangle.NotATriangle:
		i := triangle.ViolatingSide(a, b, c)
		j, k := (i+1)%3, (i+2)%3
		return fmt.Sprintf("side %s is not shorter than %s + %s",
			triangle.SideNames[i], triangle.SideNames[j], triangle.SideNames[k])
	case triangle.Equilateral:
		return "all sides equal"
	case triangle.Isosceles:
		switch {
		case a == b:
			return "sides a and b equal"
		case a == c:
			return "sides a and c equal"
		default:
			return "sides b and c equal"
		}
	case triangle.Scalene:
		return "all sides different"
	}
	return v.Label.String()
}

// finite reports whether every side can be encoded as JSON
func finite(sides [3]float64) bool {
	for _, s := range sides {
		if math.IsInf(s, 0) {
			return false
		}
	}
	return true
}

// render formats a raw input for logging
func render(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}
