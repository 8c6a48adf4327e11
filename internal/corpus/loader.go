package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/davidbz/faqvoice/internal/domain"
)

const corpusFileMode = 0o644

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// ReadFile decodes a corpus file. YAML is chosen by extension, JSON otherwise.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}

	var file File
	if isYAML(path) {
		err = yaml.Unmarshal(data, &file)
	} else {
		err = json.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode corpus file %s: %w", path, err)
	}

	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("corpus file %s has no categories", path)
	}

	return &file, nil
}

// Load reads a corpus file and builds a snapshot. When expectedDim is
// positive, embeddings of any other dimension are rejected.
func Load(path string, expectedDim int) (*domain.Corpus, error) {
	file, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	corpus, err := file.Corpus()
	if err != nil {
		return nil, fmt.Errorf("invalid corpus %s: %w", path, err)
	}

	if expectedDim > 0 && corpus.HasEmbeddings() && corpus.Dimension() != expectedDim {
		return nil, fmt.Errorf("%w: corpus %s has %d dimensions, embedding model produces %d",
			domain.ErrVectorDimensionMismatch, path, corpus.Dimension(), expectedDim)
	}

	return corpus, nil
}

// WriteFile encodes file to path, replacing it atomically.
func WriteFile(path string, file *File) error {
	var (
		data []byte
		err  error
	)

	if isYAML(path) {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(file); err == nil {
			err = enc.Close()
		}
		data = buf.Bytes()
	} else {
		data, err = json.MarshalIndent(file, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode corpus: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".corpus-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err = tmp.Chmod(corpusFileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set corpus permissions: %w", err)
	}

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write corpus: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write corpus: %w", err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace corpus: %w", err)
	}

	return nil
}
