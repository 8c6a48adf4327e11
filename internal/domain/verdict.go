package domain

import (
	"strconv"
	"strings"
)

// VerdictKind is the parsed shape of a matcher model response.
type VerdictKind int

const (
	VerdictMalformed VerdictKind = iota
	VerdictNone
	VerdictMatch
	VerdictPartial
	VerdictContext
)

func (k VerdictKind) String() string {
	switch k {
	case VerdictNone:
		return "none"
	case VerdictMatch:
		return "match"
	case VerdictPartial:
		return "partial"
	case VerdictContext:
		return "context"
	default:
		return "malformed"
	}
}

// Verdict is the typed form of a matcher model response.
type Verdict struct {
	Kind    VerdictKind
	Ordinal int
	// Natural is the voice-ready answer, empty for legacy single-line forms.
	Natural string
}

const (
	tagNone    = "none"
	tagMatch   = "match:"
	tagPartial = "partial:"
	tagContext = "context"
	tagNatural = "natural:"
)

// ParseVerdict parses a response of the form
//
//	none
//	MATCH:<n>   + NATURAL:<text>
//	PARTIAL:<n> + NATURAL:<text>
//	CONTEXT     + NATURAL:<text>
//
// A bare "<n>" or "partial:<n>" on a single line is also accepted.
// Anything else is VerdictMalformed. Ordinal range is not checked here.
func ParseVerdict(raw string) Verdict {
	lines := splitNonEmptyLines(raw)
	if len(lines) == 0 {
		return Verdict{Kind: VerdictMalformed}
	}

	head := lines[0]
	lower := strings.ToLower(head)

	switch {
	case strings.TrimSuffix(lower, ".") == tagNone:
		if len(lines) != 1 {
			return Verdict{Kind: VerdictMalformed}
		}
		return Verdict{Kind: VerdictNone}

	case strings.HasPrefix(lower, tagMatch):
		return parseOrdinalVerdict(VerdictMatch, head[len(tagMatch):], lines[1:])

	case strings.HasPrefix(lower, tagPartial):
		return parseOrdinalVerdict(VerdictPartial, head[len(tagPartial):], lines[1:])

	case strings.TrimSuffix(lower, ":") == tagContext:
		natural, ok := parseNatural(lines[1:])
		if !ok {
			return Verdict{Kind: VerdictMalformed}
		}
		return Verdict{Kind: VerdictContext, Natural: natural}
	}

	// Legacy: a bare ordinal.
	if len(lines) == 1 {
		if n, ok := parseOrdinal(head); ok {
			return Verdict{Kind: VerdictMatch, Ordinal: n}
		}
	}

	return Verdict{Kind: VerdictMalformed}
}

func parseOrdinalVerdict(kind VerdictKind, rawOrdinal string, rest []string) Verdict {
	n, ok := parseOrdinal(rawOrdinal)
	if !ok {
		return Verdict{Kind: VerdictMalformed}
	}

	// Legacy single-line form.
	if len(rest) == 0 {
		return Verdict{Kind: kind, Ordinal: n}
	}

	natural, ok := parseNatural(rest)
	if !ok {
		return Verdict{Kind: VerdictMalformed}
	}

	return Verdict{Kind: kind, Ordinal: n, Natural: natural}
}

func parseNatural(lines []string) (string, bool) {
	if len(lines) == 0 {
		return "", false
	}

	first := lines[0]
	if !strings.HasPrefix(strings.ToLower(first), tagNatural) {
		return "", false
	}

	parts := append([]string{strings.TrimSpace(first[len(tagNatural):])}, lines[1:]...)
	natural := strings.TrimSpace(strings.Join(parts, " "))
	if natural == "" {
		return "", false
	}

	return natural, true
}

func parseOrdinal(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

func splitNonEmptyLines(s string) []string {
	raw := strings.Split(strings.ReplaceAll(strings.TrimSpace(s), "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
