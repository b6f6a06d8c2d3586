// Package classifier assigns a spoiler-risk verdict to video metadata.
// Literal terms are matched with an Aho-Corasick automaton in a single pass
// over the text; numeric score notations are matched with regular
// expressions. Classification is pure and deterministic: same input, same
// verdict, always.
package classifier

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/jonesrussell/scorefree/internal/domain"
)

// Scoring defaults. These reproduce the established verdicts; changing any
// of them changes classification outcomes for already-stored content.
const (
	defaultAffinityWeight   = 0.5
	defaultPatternWeight    = 2
	defaultSpoilerTermLimit = 3
	defaultBaseConfidence   = 50
	defaultPositiveBoost    = 10
	defaultNegativePenalty  = 15

	minConfidence = 0
	maxConfidence = 100
)

// Config holds the classifier's scoring parameters.
type Config struct {
	// AffinityWeight scales highlight-affinity matches into positive score.
	AffinityWeight float64
	// PatternWeight is the match-units per numeric score pattern hit.
	PatternWeight int
	// SpoilerTermLimit forces a spoiler verdict once spoiler match-units
	// reach it, regardless of positive signal.
	SpoilerTermLimit int
	// Confidence starts at BaseConfidence, gains PositiveBoost per positive
	// point, loses NegativePenalty per negative point, and is clamped to
	// [0, 100].
	BaseConfidence  float64
	PositiveBoost   float64
	NegativePenalty float64
}

// DefaultConfig returns the standard scoring parameters.
func DefaultConfig() Config {
	return Config{
		AffinityWeight:   defaultAffinityWeight,
		PatternWeight:    defaultPatternWeight,
		SpoilerTermLimit: defaultSpoilerTermLimit,
		BaseConfidence:   defaultBaseConfidence,
		PositiveBoost:    defaultPositiveBoost,
		NegativePenalty:  defaultNegativePenalty,
	}
}

// Classifier scores video metadata for spoiler risk.
type Classifier struct {
	cfg      Config
	spoiler  *termSet
	crossRef *termSet
	affinity *termSet
}

// New builds a classifier from the given config, compiling all term sets.
func New(cfg Config) *Classifier {
	if cfg.AffinityWeight == 0 {
		cfg.AffinityWeight = defaultAffinityWeight
	}
	if cfg.PatternWeight == 0 {
		cfg.PatternWeight = defaultPatternWeight
	}
	if cfg.SpoilerTermLimit == 0 {
		cfg.SpoilerTermLimit = defaultSpoilerTermLimit
	}
	if cfg.BaseConfidence == 0 {
		cfg.BaseConfidence = defaultBaseConfidence
	}
	if cfg.PositiveBoost == 0 {
		cfg.PositiveBoost = defaultPositiveBoost
	}
	if cfg.NegativePenalty == 0 {
		cfg.NegativePenalty = defaultNegativePenalty
	}

	return &Classifier{
		cfg:      cfg,
		spoiler:  buildTermSet(spoilerTerms, cfg.PatternWeight),
		crossRef: buildTermSet(crossRefTerms, cfg.PatternWeight),
		affinity: buildTermSet(affinityTerms, cfg.PatternWeight),
	}
}

// Analyze produces the verdict for a title/description pair. It cannot fail
// and performs no I/O. ClassifiedAt is left zero; callers stamp it when the
// result is persisted.
func (c *Classifier) Analyze(title, description string) domain.ClassificationResult {
	content := strings.ToLower(title + " " + description)

	spoilerScore, spoilerMatched := c.spoiler.match(content)
	crossRefScore, crossRefMatched := c.crossRef.match(content)
	affinityScore, _ := c.affinity.match(content)

	totalFlags := spoilerScore + crossRefScore
	negative := float64(totalFlags)
	positive := float64(affinityScore) * c.cfg.AffinityWeight

	// Both conditions must hold: strong numeric/outcome evidence forces a
	// spoiler verdict regardless of positive signal.
	isScoreFree := positive > negative && spoilerScore < c.cfg.SpoilerTermLimit

	confidence := c.cfg.BaseConfidence + positive*c.cfg.PositiveBoost - negative*c.cfg.NegativePenalty
	confidence = math.Max(minConfidence, math.Min(maxConfidence, confidence))

	flagged := dedupe(append(spoilerMatched, crossRefMatched...))

	var reasoning string
	if isScoreFree {
		reasoning = fmt.Sprintf("Content appears to be score-free highlights. Found %d positive indicators", affinityScore)
		if totalFlags > 0 {
			reasoning += fmt.Sprintf(" and %d potential spoiler terms", totalFlags)
		}
	} else {
		reasoning = fmt.Sprintf("Content may contain spoilers. Found %d score-related terms", spoilerScore)
		if crossRefScore > 0 {
			reasoning += fmt.Sprintf(" and %d other game references", crossRefScore)
		}
	}

	return domain.ClassificationResult{
		IsScoreFree:  isScoreFree,
		Confidence:   int(math.Round(confidence)),
		FlaggedTerms: flagged,
		Reasoning:    reasoning,
	}
}

// termSet is a compiled term collection: literals in one Aho-Corasick
// automaton, patterns as regexps with per-match weights.
type termSet struct {
	matcher  *ahocorasick.Matcher
	literals []string
	patterns []compiledPattern
}

type compiledPattern struct {
	re     *regexp.Regexp
	weight int
}

func buildTermSet(terms []Term, patternWeight int) *termSet {
	set := &termSet{}
	for _, t := range terms {
		switch {
		case t.Pattern != "":
			weight := t.Weight
			if weight == 0 {
				weight = patternWeight
			}
			set.patterns = append(set.patterns, compiledPattern{
				re:     regexp.MustCompile(t.Pattern),
				weight: weight,
			})
		case t.Literal != "":
			set.literals = append(set.literals, strings.ToLower(t.Literal))
		}
	}
	if len(set.literals) > 0 {
		set.matcher = ahocorasick.NewStringMatcher(set.literals)
	}
	return set
}

// match scans the normalized content once. A literal present anywhere in the
// text contributes one match-unit; every non-overlapping pattern hit
// contributes the pattern's weight. Matched literals and pattern substrings
// are returned for the flagged-terms collection.
func (s *termSet) match(content string) (units int, matched []string) {
	if s.matcher != nil {
		for _, idx := range s.matcher.Match([]byte(content)) {
			if idx < 0 || idx >= len(s.literals) {
				continue
			}
			units++
			matched = append(matched, s.literals[idx])
		}
	}

	for _, p := range s.patterns {
		hits := p.re.FindAllString(content, -1)
		units += len(hits) * p.weight
		matched = append(matched, hits...)
	}

	return units, matched
}

// dedupe removes duplicates preserving first-seen order.
func dedupe(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
