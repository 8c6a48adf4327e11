package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davidbz/faqvoice/internal/corpus"
	embedding "github.com/davidbz/faqvoice/internal/embedding/openai"
)

var (
	embedInput        string
	embedOutput       string
	embedConcurrency  int
	embedSkipExisting bool
)

func newEmbedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Generate question embeddings for the corpus",
		Long: `Embed every corpus question with the configured OpenAI embedding model and
write the embedded corpus.

Examples:
  faqctl embed
  faqctl embed --in data/faqs.yaml --out data/faqs_embedded.json
  faqctl embed --skip-existing --concurrency 4`,
		Args: cobra.NoArgs,
		RunE: runEmbed,
	}

	cmd.Flags().StringVar(&embedInput, "in", "", "source corpus (default CORPUS_FALLBACK_PATH)")
	cmd.Flags().StringVar(&embedOutput, "out", "", "embedded corpus to write (default CORPUS_PATH)")
	cmd.Flags().IntVar(&embedConcurrency, "concurrency", 2, "batches in flight")
	cmd.Flags().BoolVar(&embedSkipExisting, "skip-existing", false, "keep embeddings that already match the dimension")

	return cmd
}

func runEmbed(cmd *cobra.Command, _ []string) error {
	return invoke(func(cfg *corpus.Config, gen *embedding.Generator) error {
		if gen == nil {
			return errors.New("OPENAI_API_KEY is required to generate embeddings")
		}

		in := embedInput
		if in == "" {
			in = cfg.FallbackPath
		}
		out := embedOutput
		if out == "" {
			out = cfg.Path
		}

		file, err := corpus.ReadFile(in)
		if err != nil {
			return err
		}

		n, err := corpus.EmbedFile(cmd.Context(), file, gen, corpus.EmbedOptions{
			Concurrency:  embedConcurrency,
			SkipExisting: embedSkipExisting,
		})
		if err != nil {
			return fmt.Errorf("failed to embed %s: %w", in, err)
		}

		if err := corpus.WriteFile(out, file); err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), file.EmbeddingsMetadata)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "embedded %d of %d questions with %s (%d dims)\nwrote %s\n",
			n, file.EmbeddingsMetadata.TotalQuestions, gen.Model(), gen.Dimension(), out)
		return nil
	})
}
