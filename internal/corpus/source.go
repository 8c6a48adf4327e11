package corpus

import (
	"errors"
	"fmt"
	"os"
)

// Config holds corpus location settings.
type Config struct {
	Path         string `env:"CORPUS_PATH"          envDefault:"data/faqs_embedded.json"`
	FallbackPath string `env:"CORPUS_FALLBACK_PATH" envDefault:"data/faqs.yaml"`
	Watch        bool   `env:"CORPUS_WATCH"         envDefault:"false"`
}

// Source returns the configured corpus source.
func (c Config) Source() Source {
	return Source{PrimaryPath: c.Path, FallbackPath: c.FallbackPath}
}

// Source names the enriched corpus file and the base file used when the
// enriched one is missing.
type Source struct {
	PrimaryPath  string
	FallbackPath string
}

// Resolve picks the file to load. It reports whether the primary was chosen.
func (s Source) Resolve() (string, bool, error) {
	if s.PrimaryPath != "" && fileExists(s.PrimaryPath) {
		return s.PrimaryPath, true, nil
	}

	if s.FallbackPath != "" && fileExists(s.FallbackPath) {
		return s.FallbackPath, false, nil
	}

	if s.PrimaryPath == "" && s.FallbackPath == "" {
		return "", false, errors.New("no corpus path configured")
	}

	return "", false, fmt.Errorf("no corpus file found at %q or %q", s.PrimaryPath, s.FallbackPath)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
