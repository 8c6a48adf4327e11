package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	// Native embedding dimensions for OpenAI models.
	embeddingDimensionStandard = 1536 // Ada v2 and Small v3
	embeddingDimensionLarge    = 3072 // Large v3

	defaultBatchSize = 20
)

// Generator generates embeddings using OpenAI.
type Generator struct {
	client     openai.Client
	model      string
	dimensions int
	batchSize  int
}

// NewGenerator creates a new OpenAI embedding generator.
func NewGenerator(config Config) (*Generator, error) {
	if config.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	if config.Model == "" {
		config.Model = string(openai.EmbeddingModelTextEmbedding3Small)
	}

	if config.Dimensions < 0 {
		return nil, fmt.Errorf("invalid embedding dimensions: %d", config.Dimensions)
	}

	// Ada v2 has a fixed size.
	if config.Model == string(openai.EmbeddingModelTextEmbeddingAda002) && config.Dimensions != 0 &&
		config.Dimensions != embeddingDimensionStandard {
		return nil, fmt.Errorf("model %s does not support %d dimensions", config.Model, config.Dimensions)
	}

	if config.BatchSize <= 0 {
		config.BatchSize = defaultBatchSize
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(config.MaxRetries),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &Generator{
		client:     openai.NewClient(opts...),
		model:      config.Model,
		dimensions: config.Dimensions,
		batchSize:  config.BatchSize,
	}, nil
}

// Generate creates a vector embedding from text.
func (g *Generator) Generate(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, errors.New("text cannot be empty")
	}

	vectors, err := g.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	return vectors[0], nil
}

// GenerateBatch embeds texts in one request. Results follow input order.
func (g *Generator) GenerateBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	if len(texts) > g.batchSize {
		return nil, fmt.Errorf("batch of %d exceeds limit %d", len(texts), g.batchSize)
	}

	return g.embed(ctx, texts)
}

// BatchSize returns the maximum number of texts per GenerateBatch call.
func (g *Generator) BatchSize() int {
	return g.batchSize
}

func (g *Generator) embed(ctx context.Context, texts []string) ([][]float64, error) {
	//nolint:exhaustruct // OpenAI SDK struct has many optional fields
	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
		Model:          openai.EmbeddingModel(g.model),
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	}
	if g.dimensions > 0 && g.model != string(openai.EmbeddingModelTextEmbeddingAda002) {
		params.Dimensions = openai.Int(int64(g.dimensions))
	}

	resp, err := g.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	vectors := make([][]float64, len(texts))
	for _, d := range resp.Data {
		idx := int(d.Index)
		if idx < 0 || idx >= len(texts) || vectors[idx] != nil {
			return nil, fmt.Errorf("unexpected embedding index %d", d.Index)
		}
		if len(d.Embedding) == 0 {
			return nil, errors.New("no embeddings returned")
		}
		vectors[idx] = d.Embedding
	}

	return vectors, nil
}

// Name returns the generator identifier.
func (g *Generator) Name() string {
	return "openai"
}

// Model returns the embedding model name.
func (g *Generator) Model() string {
	return g.model
}

// Dimension returns the vector dimension.
func (g *Generator) Dimension() int {
	if g.dimensions > 0 {
		return g.dimensions
	}

	switch g.model {
	case string(openai.EmbeddingModelTextEmbeddingAda002),
		string(openai.EmbeddingModelTextEmbedding3Small):
		return embeddingDimensionStandard
	case string(openai.EmbeddingModelTextEmbedding3Large):
		return embeddingDimensionLarge
	default:
		return embeddingDimensionStandard
	}
}
