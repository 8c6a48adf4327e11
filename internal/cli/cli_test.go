package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/faqvoice/internal/cli"
)

const corpusYAML = `categories:
  - name: Membership
    questions:
      - question: How much does premium cost?
        answer: Premium costs $10 per month at example.com/premium.
knowledge_base:
  hosts: The show has two hosts.
`

func setupEnv(t *testing.T) {
	t.Helper()

	os.Clearenv()
	dir := t.TempDir()
	path := filepath.Join(dir, "faqs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(corpusYAML), 0o644))

	t.Setenv("CORPUS_PATH", filepath.Join(dir, "faqs_embedded.json"))
	t.Setenv("CORPUS_FALLBACK_PATH", path)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAsk(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "ask", "--json=false", "How", "much", "does", "premium", "cost?")
	require.NoError(t, err)
	require.Contains(t, out, "Premium costs $10 per month at example.com/premium.")
	require.Contains(t, out, "[keyword match")
	require.Contains(t, out, "link: https://example.com/premium")

	out, err = execute(t, "ask", "--json", "What is the meaning of life?")
	require.NoError(t, err)

	var body struct {
		Text   string `json:"text"`
		Result struct {
			NoMatch *struct {
				Generated bool `json:"generated"`
			} `json:"no_match"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	require.NotNil(t, body.Result.NoMatch)
	require.False(t, body.Result.NoMatch.Generated)
	require.Contains(t, body.Text, "I'm sorry")
}

func TestStats(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "stats", "--json=false")
	require.NoError(t, err)
	require.Contains(t, out, "strategy:   tiered")
	require.Contains(t, out, "questions:  1 (0 embedded")
	require.Contains(t, out, "knowledge:  1 topics")
}

func TestEmbed_RequiresAPIKey(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "embed", "--json=false")
	require.ErrorContains(t, err, "OPENAI_API_KEY is required")
}

func TestAsk_RequiresQuestion(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "ask")
	require.Error(t, err)
}
