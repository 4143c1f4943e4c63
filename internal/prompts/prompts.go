package prompts

import (
	"fmt"
	"strings"

	"github.com/dyike/FinSight/internal/models"
)

const finalPromptTemplate = `You are a real-time financial assistant. Use the latest news context to answer:

🔍 User Query: %s

🗞️ Market Context:
%s

📊 Provide an insightful, market-aware answer.
`

// BuildFinalPrompt embeds the query and one block per summary into the answer prompt.
func BuildFinalPrompt(query string, summaries []models.Summary) string {
	blocks := make([]string, 0, len(summaries))
	for _, s := range summaries {
		blocks = append(blocks, fmt.Sprintf("[%s]\n%s (Sentiment: %s)", s.Title, s.Summary, s.Sentiment))
	}
	return fmt.Sprintf(finalPromptTemplate, query, strings.Join(blocks, "\n\n"))
}
