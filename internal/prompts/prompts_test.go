package prompts

import (
	"testing"

	"github.com/dyike/FinSight/internal/models"
)

func TestBuildFinalPrompt(t *testing.T) {
	summaries := []models.Summary{
		{Title: "Apple beats", Summary: "Strong iPhone sales.", Sentiment: models.SentimentPositive},
		{Title: "Chip tariffs", Summary: "Supply risk.", Sentiment: models.SentimentNegative},
	}

	got := BuildFinalPrompt("How is AAPL doing?", summaries)
	want := "You are a real-time financial assistant. Use the latest news context to answer:\n\n" +
		"🔍 User Query: How is AAPL doing?\n\n" +
		"🗞️ Market Context:\n" +
		"[Apple beats]\nStrong iPhone sales. (Sentiment: POSITIVE)\n\n" +
		"[Chip tariffs]\nSupply risk. (Sentiment: NEGATIVE)\n\n" +
		"📊 Provide an insightful, market-aware answer.\n"

	if got != want {
		t.Fatalf("unexpected prompt:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildFinalPromptNoSummaries(t *testing.T) {
	got := BuildFinalPrompt("q", nil)
	want := "You are a real-time financial assistant. Use the latest news context to answer:\n\n" +
		"🔍 User Query: q\n\n🗞️ Market Context:\n\n\n📊 Provide an insightful, market-aware answer.\n"
	if got != want {
		t.Fatalf("unexpected prompt: %q", got)
	}
}
