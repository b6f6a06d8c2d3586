package classifier_test

import (
	"reflect"
	"testing"

	"github.com/jonesrussell/scorefree/internal/classifier"
)

func TestAnalyze_EmptyInputFailsClosed(t *testing.T) {
	c := classifier.New(classifier.DefaultConfig())

	result := c.Analyze("", "")

	if result.IsScoreFree {
		t.Error("empty metadata must not be treated as score-free")
	}
	if result.Confidence != 50 {
		t.Errorf("expected base confidence 50, got %d", result.Confidence)
	}
	if len(result.FlaggedTerms) != 0 {
		t.Errorf("expected no flagged terms, got %v", result.FlaggedTerms)
	}
}

func TestAnalyze_ScoreFreeHighlights(t *testing.T) {
	c := classifier.New(classifier.DefaultConfig())

	// Three affinity terms (amazing, highlights, compilation) against one
	// spoiler term (buzzer beater): 1.5 > 1.0 and spoiler score under the
	// cutoff, so the verdict is score-free at confidence 50 + 15 - 15.
	result := c.Analyze("Amazing buzzer beater highlights compilation", "")

	if !result.IsScoreFree {
		t.Errorf("expected score-free verdict, got reasoning %q with flags %v",
			result.Reasoning, result.FlaggedTerms)
	}
	if result.Confidence != 50 {
		t.Errorf("expected confidence 50, got %d", result.Confidence)
	}
	if !contains(result.FlaggedTerms, "buzzer beater") {
		t.Errorf("expected buzzer beater flagged, got %v", result.FlaggedTerms)
	}
}

func TestAnalyze_NumericScoreForcesSpoilerVerdict(t *testing.T) {
	c := classifier.New(classifier.DefaultConfig())

	// "defeat" (1) plus the 112-108 pattern (2) reaches the spoiler cutoff,
	// so no amount of affinity vocabulary can flip the verdict.
	result := c.Analyze("Lakers defeat Celtics 112-108 in thrilling finish", "")

	if result.IsScoreFree {
		t.Error("numeric score in title must force a spoiler verdict")
	}
	if !contains(result.FlaggedTerms, "defeat") {
		t.Errorf("expected defeat flagged, got %v", result.FlaggedTerms)
	}
	if !contains(result.FlaggedTerms, "112-108") {
		t.Errorf("expected 112-108 flagged, got %v", result.FlaggedTerms)
	}
}

func TestAnalyze_StrongSpoilerEvidenceIgnoresAffinity(t *testing.T) {
	c := classifier.New(classifier.DefaultConfig())

	result := c.Analyze(
		"Incredible amazing spectacular highlights best plays compilation",
		"Final score 3-2 after overtime victory",
	)

	if result.IsScoreFree {
		t.Error("spoiler score at or above the cutoff must override affinity terms")
	}
}

func TestAnalyze_ConfidenceAlwaysInRange(t *testing.T) {
	c := classifier.New(classifier.DefaultConfig())

	inputs := []struct {
		title       string
		description string
	}{
		{"", ""},
		{"Final score result winner loser 10-0 21:14 overtime", "defeated crushed blowout shutout"},
		{"highlights best plays amazing incredible spectacular skills", "talent technique moves compilation top 10 masterclass clinic showcase epic insane unbelievable greatest moments"},
		{"Regular training footage", "nothing remarkable here"},
	}

	for _, in := range inputs {
		result := c.Analyze(in.title, in.description)
		if result.Confidence < 0 || result.Confidence > 100 {
			t.Errorf("confidence %d out of range for %q", result.Confidence, in.title)
		}
	}
}

func TestAnalyze_ConfidenceClampsAtBounds(t *testing.T) {
	c := classifier.New(classifier.DefaultConfig())

	heavy := c.Analyze("Final score result winner loser champion 10-0 overtime defeated", "")
	if heavy.Confidence != 0 {
		t.Errorf("expected confidence clamped to 0, got %d", heavy.Confidence)
	}

	positive := c.Analyze(
		"highlights best plays amazing incredible spectacular skills talent",
		"technique moves compilation top 10 masterclass clinic showcase epic insane unbelievable greatest moments",
	)
	if positive.Confidence != 100 {
		t.Errorf("expected confidence clamped to 100, got %d", positive.Confidence)
	}
	if !positive.IsScoreFree {
		t.Error("pure affinity text should be score-free")
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	c := classifier.New(classifier.DefaultConfig())

	title := "Top 10 incredible saves vs the best strikers 3-2 comeback"
	description := "Season highlights from yesterday's playoff games"

	first := c.Analyze(title, description)
	second := c.Analyze(title, description)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("classifier is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestAnalyze_FlaggedTermsDeduplicated(t *testing.T) {
	c := classifier.New(classifier.DefaultConfig())

	result := c.Analyze("Final score final score", "final score again")

	counts := make(map[string]int)
	for _, term := range result.FlaggedTerms {
		counts[term]++
	}
	for term, n := range counts {
		if n > 1 {
			t.Errorf("term %q appears %d times in flagged terms", term, n)
		}
	}
}

func TestAnalyze_NumericPatternVariants(t *testing.T) {
	c := classifier.New(classifier.DefaultConfig())

	cases := []struct {
		name  string
		title string
		want  string
	}{
		{"dash notation", "ended 3-2 tonight", "3-2"},
		{"colon notation", "full time 21:14", "21:14"},
		{"to notation", "they won 3 to 2", "3 to 2"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := c.Analyze(tc.title, "")
			if !contains(result.FlaggedTerms, tc.want) {
				t.Errorf("expected %q flagged, got %v", tc.want, result.FlaggedTerms)
			}
			if result.IsScoreFree {
				t.Error("numeric notation alone must not yield score-free")
			}
		})
	}
}

func TestAnalyze_CrossReferenceCountsAgainst(t *testing.T) {
	c := classifier.New(classifier.DefaultConfig())

	// Two affinity terms (1.0 positive) lose against two cross-reference
	// terms (2.0 negative) even without any direct spoiler vocabulary.
	result := c.Analyze("Amazing highlights", "standings after yesterday")

	if result.IsScoreFree {
		t.Error("cross-reference terms must count toward the negative score")
	}
	if !contains(result.FlaggedTerms, "standings") || !contains(result.FlaggedTerms, "yesterday") {
		t.Errorf("expected cross-reference terms flagged, got %v", result.FlaggedTerms)
	}
}

func TestAnalyze_CustomSpoilerLimit(t *testing.T) {
	cfg := classifier.DefaultConfig()
	cfg.SpoilerTermLimit = 1

	c := classifier.New(cfg)

	// One spoiler unit reaches the lowered cutoff.
	result := c.Analyze("Amazing buzzer beater highlights compilation", "")
	if result.IsScoreFree {
		t.Error("lowered spoiler limit should force a spoiler verdict")
	}
}

func contains(terms []string, want string) bool {
	for _, t := range terms {
		if t == want {
			return true
		}
	}
	return false
}
