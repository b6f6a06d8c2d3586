package classifier

// Term is one entry in a term set: either a literal phrase matched as a
// substring of the normalized text, or a regular expression pattern. Pattern
// terms may carry their own per-match weight; a zero Weight on a pattern
// means the configured numeric-score weight applies.
type Term struct {
	Literal string
	Pattern string
	Weight  int
}

// Spoiler terms: vocabulary and numeric notations that reveal a final score
// or outcome. Short comparison connectors are expressed as word-boundary
// patterns so they do not fire inside unrelated words.
var spoilerTerms = []Term{
	// Direct score indicators
	{Literal: "final score"},
	{Literal: "final result"},
	{Literal: "ends"},
	{Literal: "finished"},
	{Literal: "concluded"},
	{Literal: "victory"},
	{Literal: "defeat"},
	{Literal: "winner"},
	{Literal: "loser"},
	{Literal: "champion"},
	{Literal: "championship game"},
	{Literal: "game over"},
	{Literal: "overtime"},
	{Literal: "sudden death"},

	// Numeric score notations: 3-2, 21:14, 3 to 2. Weighted double.
	{Pattern: `\b\d+[-–—]\d+\b`},
	{Pattern: `\b\d+\s*:\s*\d+\b`},
	{Pattern: `\b\d+\s+to\s+\d+\b`},

	// Specific result terms
	{Literal: "beats"},
	{Literal: "defeated"},
	{Literal: "crushed"},
	{Literal: "dominated"},
	{Literal: "upset"},
	{Literal: "blowout"},
	{Literal: "shutout"},
	{Literal: "comeback"},
	{Literal: "rally"},
	{Literal: "lead"},
	{Literal: "behind"},
	{Literal: "ahead"},
	{Literal: "winning"},
	{Literal: "losing"},

	// Game state indicators
	{Literal: "fourth quarter"},
	{Literal: "final quarter"},
	{Literal: "final period"},
	{Literal: "final inning"},
	{Literal: "final set"},
	{Literal: "match point"},
	{Literal: "game point"},
	{Literal: "buzzer beater"},
	{Literal: "walk-off"},
	{Literal: "penalty shootout"},

	// Comparison connectors
	{Pattern: `\bvs\b`, Weight: 1},
	{Literal: "versus"},
	{Literal: "against"},
	{Pattern: `\bv\.`, Weight: 1},
	{Pattern: `\bat\b`, Weight: 1},
	{Literal: "@"},

	// Result announcements
	{Literal: "final"},
	{Literal: "result"},
	{Literal: "score"},
	{Literal: "points"},
	{Literal: "goals"},
	{Literal: "runs"},
	{Literal: "touchdowns"},
}

// Cross-reference terms: references to another completed game or to a
// ranking context that implies outcomes.
var crossRefTerms = []Term{
	{Literal: "last week"},
	{Literal: "previous game"},
	{Literal: "earlier today"},
	{Literal: "yesterday"},
	{Literal: "last night"},
	{Literal: "this weekend"},
	{Literal: "playoff"},
	{Literal: "playoffs"},
	{Literal: "tournament"},
	{Literal: "bracket"},
	{Literal: "standings"},
	{Literal: "ranking"},
	{Literal: "season"},
	{Literal: "record"},
	{Literal: "stats"},
	{Literal: "statistics"},
}

// Highlight-affinity terms: skill-focused, spoiler-free highlight vocabulary.
var affinityTerms = []Term{
	{Literal: "highlights"},
	{Literal: "best plays"},
	{Literal: "amazing"},
	{Literal: "incredible"},
	{Literal: "spectacular"},
	{Literal: "skills"},
	{Literal: "talent"},
	{Literal: "technique"},
	{Literal: "moves"},
	{Literal: "plays"},
	{Literal: "moments"},
	{Literal: "compilation"},
	{Literal: "top 10"},
	{Literal: "best of"},
	{Literal: "greatest"},
	{Literal: "epic"},
	{Literal: "insane"},
	{Literal: "unbelievable"},
	{Literal: "masterclass"},
	{Literal: "clinic"},
	{Literal: "showcase"},
}
