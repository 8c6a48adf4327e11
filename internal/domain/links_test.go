package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/faqvoice/internal/domain"
)

func TestExtractLinks(t *testing.T) {
	t.Run("should find urls and normalize hrefs", func(t *testing.T) {
		links := domain.ExtractLinks(
			"Visit shop.example.com, or https://example.com/faq. Email us at help@example.com.", "")

		require.Equal(t, []domain.Link{
			{Kind: domain.LinkURL, Text: "shop.example.com", Href: "https://shop.example.com"},
			{Kind: domain.LinkURL, Text: "https://example.com/faq", Href: "https://example.com/faq"},
		}, links)
	})

	t.Run("should add placeholders for vague references", func(t *testing.T) {
		links := domain.ExtractLinks("You can request a refund using this form. Details are available here.", "example.com")

		require.Equal(t, []domain.Link{
			{Kind: domain.LinkPlaceholder, Text: "[Form link - visit example.com]"},
			{Kind: domain.LinkPlaceholder, Text: "[Link - visit example.com]"},
		}, links)
	})

	t.Run("should ignore plain text", func(t *testing.T) {
		require.Empty(t, domain.ExtractLinks("Premium costs 9.99 a month, e.g. less than a coffee.", "example.com"))
	})
}
