// Package mbi scores Maslach Burnout Inventory submissions.
package mbi

import (
	"context"
	"fmt"
)

// Qualitative levels assigned to sub-scale totals and the overall result.
const (
	LevelLow      = "Low"
	LevelModerate = "Moderate"
	LevelHigh     = "High"
)

// Sub-scale classification thresholds (inclusive upper bounds).
const (
	exhaustionLowMax      = 18
	exhaustionModerateMax = 33

	depersonalizationLowMax      = 5
	depersonalizationModerateMax = 11

	accomplishmentHighMin     = 40
	accomplishmentModerateMin = 31
)

// Overall burnout thresholds. These intentionally differ from the
// per-category ones above; the instrument classifies the overall level
// from raw totals, not from the three category levels.
const (
	overallExhaustionHigh        = 26
	overallDepersonalizationHigh = 12
	overallExhaustionModerate    = 18
	overallDepersonalizationMod  = 9
)

// Answer is one scored inventory item.
type Answer struct {
	QuestionID int
	Score      int
}

// Result is the immutable outcome of scoring a full submission.
type Result struct {
	EmotionalExhaustionScore    int
	DepersonalizationScore      int
	PersonalAccomplishmentScore int

	EmotionalExhaustionLevel    string
	DepersonalizationLevel      string
	PersonalAccomplishmentLevel string

	BurnoutLevel string
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithCatalog sets the question catalog used to resolve answers.
func WithCatalog(c *Catalog) Option {
	return func(s *Scorer) {
		if c != nil {
			s.catalog = c
		}
	}
}

// Scorer converts a list of answers into sub-scale totals and levels.
// It holds no mutable state; a single Scorer is safe for concurrent use.
type Scorer struct {
	catalog *Catalog
}

// NewScorer creates a scorer with configuration options. Without options
// it scores against the standard 22-item catalog.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		catalog: DefaultCatalog(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the catalog the scorer resolves answers against.
func (s *Scorer) Catalog() *Catalog { return s.catalog }

// Score accumulates each answer into its category total and classifies
// the totals. Any answer referencing an unknown question id aborts the
// whole computation; partial totals are never returned. Answer scores are
// caller-validated and are not range-checked here.
func (s *Scorer) Score(_ context.Context, answers []Answer) (Result, error) {
	var ee, dp, pa int
	for _, a := range answers {
		q, ok := s.catalog.Lookup(a.QuestionID)
		if !ok {
			return Result{}, fmt.Errorf("question %d: %w", a.QuestionID, ErrUnknownQuestion)
		}
		switch q.Category {
		case EmotionalExhaustion:
			ee += a.Score
		case Depersonalization:
			dp += a.Score
		case PersonalAccomplishment:
			pa += a.Score
		}
	}

	return Result{
		EmotionalExhaustionScore:    ee,
		DepersonalizationScore:      dp,
		PersonalAccomplishmentScore: pa,
		EmotionalExhaustionLevel:    classifyExhaustion(ee),
		DepersonalizationLevel:      classifyDepersonalization(dp),
		PersonalAccomplishmentLevel: classifyAccomplishment(pa),
		BurnoutLevel:                classifyOverall(ee, dp),
	}, nil
}

func classifyExhaustion(total int) string {
	switch {
	case total <= exhaustionLowMax:
		return LevelLow
	case total <= exhaustionModerateMax:
		return LevelModerate
	default:
		return LevelHigh
	}
}

func classifyDepersonalization(total int) string {
	switch {
	case total <= depersonalizationLowMax:
		return LevelLow
	case total <= depersonalizationModerateMax:
		return LevelModerate
	default:
		return LevelHigh
	}
}

// classifyAccomplishment uses an inverted scale: a higher raw total is the
// better outcome.
func classifyAccomplishment(total int) string {
	switch {
	case total >= accomplishmentHighMin:
		return LevelHigh
	case total >= accomplishmentModerateMin:
		return LevelModerate
	default:
		return LevelLow
	}
}

func classifyOverall(ee, dp int) string {
	switch {
	case ee > overallExhaustionHigh || dp > overallDepersonalizationHigh:
		return LevelHigh
	case ee > overallExhaustionModerate || dp > overallDepersonalizationMod:
		return LevelModerate
	default:
		return LevelLow
	}
}
