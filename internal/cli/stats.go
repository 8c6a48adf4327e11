package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davidbz/faqvoice/internal/domain"
)

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show corpus, engine and analytics statistics",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}
}

func runStats(cmd *cobra.Command, _ []string) error {
	return invoke(func(engine *domain.MatchingEngine, analytics domain.AnalyticsReader) error {
		stats := engine.Stats()

		var summary *domain.AnalyticsSummary
		if analytics != nil {
			s, err := analytics.Summary(cmd.Context())
			if err != nil {
				return err
			}
			summary = s
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"engine":    stats,
				"analytics": summary,
			})
		}

		w := cmd.OutOrStdout()
		c := stats.Corpus
		fmt.Fprintf(w, "strategy:   %s\n", stats.Strategy)
		if stats.Provider != "" {
			fmt.Fprintf(w, "provider:   %s\n", stats.Provider)
		}
		fmt.Fprintf(w, "categories: %d\n", c.Categories)
		fmt.Fprintf(w, "questions:  %d (%d embedded, %.0f%% coverage, %d dims)\n",
			c.TotalQuestions, c.QuestionsWithEmbeddings, c.EmbeddingCoverage, c.Dimension)
		fmt.Fprintf(w, "knowledge:  %d topics\n", c.KnowledgeTopics)

		if summary != nil {
			fmt.Fprintf(w, "\nquestions answered: %d (%d today)\n", summary.TotalQuestions, summary.Today)
			fmt.Fprintf(w, "match rate:         %.0f%%\n", summary.MatchRate*100)
			fmt.Fprintf(w, "sessions:           %d\n", summary.Sessions)
		}

		return nil
	})
}
