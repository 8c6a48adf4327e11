package domain

// MatchType identifies the tier that produced a match.
type MatchType string

const (
	MatchTypeEmbedding MatchType = "embedding"
	MatchTypeKeyword   MatchType = "keyword"
	MatchTypeAI        MatchType = "ai"
)

// ConfidenceLevel is a coarse confidence bucket.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

const (
	highScoreFloor   = 0.9
	mediumScoreFloor = 0.8

	nominalHigh   = 0.9
	nominalMedium = 0.6
	nominalLow    = 0.3
)

// LevelForScore buckets a similarity-like score.
func LevelForScore(score float64) ConfidenceLevel {
	switch {
	case score >= highScoreFloor:
		return ConfidenceHigh
	case score >= mediumScoreFloor:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Nominal returns the score reported for a level when no measured score exists.
func (l ConfidenceLevel) Nominal() float64 {
	switch l {
	case ConfidenceHigh:
		return nominalHigh
	case ConfidenceMedium:
		return nominalMedium
	default:
		return nominalLow
	}
}

// Match is a successful lookup.
type Match struct {
	// Entry is nil for answers built from knowledge base notes.
	Entry      *FAQEntry       `json:"entry,omitempty"`
	Ordinal    int             `json:"ordinal,omitempty"`
	Category   string          `json:"category"`
	Answer     string          `json:"answer"`
	Score      float64         `json:"score"`
	Confidence ConfidenceLevel `json:"confidence"`
	Type       MatchType       `json:"match_type"`
	// Natural is true when Answer is already phrased for speech.
	Natural  bool   `json:"natural"`
	FollowUp string `json:"follow_up,omitempty"`
}

// Question returns the matched corpus question, if any.
func (m *Match) Question() string {
	if m.Entry == nil {
		return ""
	}
	return m.Entry.Question
}

// SpokenText joins the answer and the follow-up.
func (m *Match) SpokenText() string {
	if m.FollowUp == "" {
		return m.Answer
	}
	return m.Answer + " " + m.FollowUp
}

// NoMatch is a decline.
type NoMatch struct {
	Response string `json:"response"`
	// Generated is false for the static decline.
	Generated bool `json:"generated"`
}

// MatchResult holds exactly one of Match or NoMatch.
type MatchResult struct {
	Match   *Match   `json:"match,omitempty"`
	NoMatch *NoMatch `json:"no_match,omitempty"`
}

// Matched wraps a match.
func Matched(m *Match) *MatchResult {
	return &MatchResult{Match: m}
}

// Declined wraps a decline.
func Declined(response string, generated bool) *MatchResult {
	return &MatchResult{NoMatch: &NoMatch{Response: response, Generated: generated}}
}

// IsMatch reports whether the result is a match.
func (r *MatchResult) IsMatch() bool {
	return r.Match != nil
}

// SpokenText returns what the listener should hear.
func (r *MatchResult) SpokenText() string {
	if r.Match != nil {
		return r.Match.SpokenText()
	}
	if r.NoMatch != nil {
		return r.NoMatch.Response
	}
	return ""
}
