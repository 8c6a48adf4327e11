package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davidbz/faqvoice/internal/domain"
)

var askSession string

func newAskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the matching engine a question",
		Long: `Run a question through the full matching cascade and print what the
listener would hear.

Examples:
  faqctl ask "how much is premium"
  faqctl ask --json "when is the next live show"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().StringVar(&askSession, "session", "faqctl", "conversation key")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	return invoke(func(engine *domain.MatchingEngine) error {
		reply, err := engine.HandleMessage(cmd.Context(), &domain.MessageRequest{
			SessionID: askSession,
			Text:      question,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"text":   reply.Text,
				"result": reply.Result,
				"links":  reply.Links,
			})
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, reply.Text)

		if m := reply.Result.Match; m != nil {
			fmt.Fprintf(w, "\n[%s match, %s confidence, score %.2f, category %q]\n",
				m.Type, m.Confidence, m.Score, m.Category)
			if q := m.Question(); q != "" {
				fmt.Fprintf(w, "matched: %s\n", q)
			}
		} else {
			fmt.Fprintln(w, "\n[no match]")
		}

		for _, l := range reply.Links {
			if l.Href != "" {
				fmt.Fprintf(w, "link: %s\n", l.Href)
			} else {
				fmt.Fprintf(w, "link: %s\n", l.Text)
			}
		}

		return nil
	})
}
