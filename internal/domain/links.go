package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// LinkKind distinguishes real URLs from placeholders for vague references.
type LinkKind string

const (
	LinkURL         LinkKind = "url"
	LinkPlaceholder LinkKind = "placeholder"
)

// Link is a reference found in an answer, shown next to the spoken reply.
type Link struct {
	Kind LinkKind `json:"type"`
	Text string   `json:"text"`
	Href string   `json:"href,omitempty"`
}

//nolint:gochecknoglobals // compiled once
var (
	urlPattern = regexp.MustCompile(`(?:https?://|www\.)?[a-zA-Z0-9-]+(?:\.[a-zA-Z0-9-]+)*\.[a-zA-Z]{2,}(?:/[^\s]*)?`)

	vagueReferences = []struct {
		pattern *regexp.Regexp
		label   string
	}{
		{regexp.MustCompile(`(?i)(using|through|complete) this form`), "Form link"},
		{regexp.MustCompile(`(?i)available here`), "Link"},
		{regexp.MustCompile(`(?i)(these|our) help articles`), "Help articles"},
		{regexp.MustCompile(`(?i)join (the|our) [a-z ]*newsletter`), "Newsletter signup"},
		{regexp.MustCompile(`(?i)join our email list`), "Email signup"},
	}
)

// ExtractLinks finds URLs and vague link references in an answer. Vague
// references become placeholders pointing at site.
func ExtractLinks(answer, site string) []Link {
	var links []Link
	seen := make(map[string]struct{})

	for _, loc := range urlPattern.FindAllStringIndex(answer, -1) {
		// Skip the domain part of an email address.
		if loc[0] > 0 && answer[loc[0]-1] == '@' {
			continue
		}

		text := strings.TrimRight(answer[loc[0]:loc[1]], ".,;:!?)")
		if !looksLikeURL(text) {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}

		href := text
		if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
			href = "https://" + href
		}
		links = append(links, Link{Kind: LinkURL, Text: text, Href: href})
	}

	if site == "" {
		return links
	}

	for _, ref := range vagueReferences {
		if !ref.pattern.MatchString(answer) {
			continue
		}
		text := fmt.Sprintf("[%s - visit %s]", ref.label, site)
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		links = append(links, Link{Kind: LinkPlaceholder, Text: text})
	}

	return links
}

// looksLikeURL rejects plain words with a dot such as "e.g" or "3.5".
func looksLikeURL(s string) bool {
	if strings.HasPrefix(s, "http") || strings.HasPrefix(s, "www.") || strings.Contains(s, "/") {
		return true
	}
	dot := strings.LastIndex(s, ".")
	if dot <= 0 {
		return false
	}
	switch strings.ToLower(s[dot+1:]) {
	case "com", "org", "net", "io", "co", "fm", "edu", "app", "dev", "tv":
		return true
	}
	return false
}
