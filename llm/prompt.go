package llm

import (
	"encoding/json"
	"fmt"

	"github.com/Ratnaditya-J/GmailWithLlm/gmail"
)

// Bounds keep the serialized batch inside the model's context window.
const (
	maxPromptEmails = 50
	maxSnippetRunes = 200
	maxBodyRunes    = 300
)

// emailSummary is the bounded view of one record sent to the model.
type emailSummary struct {
	ID          int    `json:"id"`
	Date        string `json:"date"`
	From        string `json:"from"`
	Subject     string `json:"subject"`
	Snippet     string `json:"snippet"`
	BodyPreview string `json:"body_preview"`
}

// BuildAnalysisPrompt serializes a bounded window of records plus the user
// query into the fixed analysis template. Records keep their arrival order;
// only the first 50 are included.
func BuildAnalysisPrompt(emails []gmail.NormalizedEmail, userQuery string) string {
	return fmt.Sprintf(analysisTemplate, userQuery, prepareEmailData(emails))
}

func prepareEmailData(emails []gmail.NormalizedEmail) string {
	if len(emails) > maxPromptEmails {
		emails = emails[:maxPromptEmails]
	}
	summaries := make([]emailSummary, 0, len(emails))
	for i, e := range emails {
		summaries = append(summaries, emailSummary{
			ID:          i + 1,
			Date:        e.Date,
			From:        e.From,
			Subject:     e.Subject,
			Snippet:     truncateRunes(e.Snippet, maxSnippetRunes),
			BodyPreview: truncateRunes(e.Body, maxBodyRunes),
		})
	}
	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(data)
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

const analysisTemplate = `
Please analyze the following email data and answer the user's query.

USER QUERY: %s

EMAIL DATA:
%s

Please provide a comprehensive analysis that directly addresses the user's query. Include:
1. Direct answer to the query
2. Relevant patterns or insights from the email data
3. Specific examples from the emails when applicable
4. Any recommendations or suggestions based on the analysis

Format your response in a clear, organized manner with appropriate headings and bullet points.
`

const systemPrompt = `You are an expert email analyst helping users extract insights from their personal email data.

Your capabilities include:
- Analyzing email patterns and trends
- Extracting specific information (travel, receipts, recommendations, etc.)
- Identifying communication patterns and relationships
- Providing actionable insights and recommendations
- Summarizing email content and conversations

Guidelines:
- Be thorough but concise in your analysis
- Focus on actionable insights
- Respect user privacy (this is their personal email data)
- Provide specific examples when possible
- Use clear formatting with headings and bullet points
- If data is insufficient, clearly state limitations

Always prioritize accuracy and usefulness in your responses.`

// Canned analysis queries.
const (
	summaryQuery = "Please provide a comprehensive summary of these emails, " +
		"including key patterns, important senders, main topics, and any notable insights."
	patternsQuery = "Analyze these emails for communication patterns, including frequency, " +
		"timing, sender relationships, and any notable trends or insights."
	extractQueryTemplate = "Please extract and summarize all %s from these emails. " +
		"Provide specific details and organize the information clearly."
)
