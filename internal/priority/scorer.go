// Package priority computes the advisory priority of a help desk ticket from
// its description and tags.
package priority

import (
	"strings"
)

// Level is the three-band classification derived from a score.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

const (
	MaxScore        = 100
	HighThreshold   = 70
	MediumThreshold = 40
)

// Ticket is the subset of ticket fields the scorer reads.
type Ticket struct {
	Description string
	Tags        []string
	// IsUrgent is carried for callers but does not feed the score.
	IsUrgent bool
}

// Result is the ephemeral annotation attached to a ticket on read.
type Result struct {
	Score   int      `json:"score"`
	Level   Level    `json:"level"`
	Reasons []string `json:"reasons"`
}

// Scorer evaluates tickets against an immutable RuleSet. It holds no mutable
// state and is safe for concurrent use.
type Scorer struct {
	rules *RuleSet
}

// NewScorer builds a scorer over rules. A nil rule set falls back to DefaultRules.
func NewScorer(rules *RuleSet) *Scorer {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Scorer{rules: rules}
}

// Rules exposes the rule set the scorer was built with.
func (s *Scorer) Rules() *RuleSet {
	return s.rules
}

// Normalize lower-cases description and tags into the single search string
// every text rule scans.
func Normalize(description string, tags []string) string {
	return strings.ToLower(description) + " " + strings.ToLower(strings.Join(tags, " "))
}

// LevelFor maps a score to its band: [70,∞) high, [40,70) medium, below 40 low.
func LevelFor(score int) Level {
	switch {
	case score >= HighThreshold:
		return LevelHigh
	case score >= MediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Score evaluates every rule family and returns the clamped, classified result.
func (s *Scorer) Score(t Ticket) Result {
	text := Normalize(t.Description, t.Tags)

	total := 0
	reasons := newReasonSet()

	for _, rule := range s.rules.Keywords {
		if containsAny(text, rule.Keywords) {
			total += rule.Weight
			reasons.add(rule.Reason)
		}
	}

	for _, rule := range s.rules.Combos {
		if containsAll(text, rule.AllOf) {
			total += rule.Weight
			reasons.add(rule.Reason)
		}
	}

	for _, tag := range t.Tags {
		if weight, ok := s.rules.Tags[strings.ToLower(tag)]; ok {
			total += weight
			reasons.add("Etiqueta marcada: " + tag)
		}
	}

	for _, rule := range s.rules.General {
		if containsAny(text, rule.Keywords) {
			total += rule.Weight
			reasons.add(rule.Reason)
		}
	}

	score := min(total, MaxScore)
	return Result{
		Score:   score,
		Level:   LevelFor(score),
		Reasons: reasons.list(),
	}
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}

func containsAll(text string, terms [][]string) bool {
	if len(terms) == 0 {
		return false
	}
	for _, alternatives := range terms {
		if !containsAny(text, alternatives) {
			return false
		}
	}
	return true
}

// reasonSet keeps distinct reasons in first-seen order.
type reasonSet struct {
	seen  map[string]struct{}
	order []string
}

func newReasonSet() *reasonSet {
	return &reasonSet{seen: make(map[string]struct{})}
}

func (r *reasonSet) add(reason string) {
	if _, ok := r.seen[reason]; ok {
		return
	}
	r.seen[reason] = struct{}{}
	r.order = append(r.order, reason)
}

func (r *reasonSet) list() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
