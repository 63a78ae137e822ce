// Package query is the interactive session controller: it owns the working
// set of fetched emails, dispatches menu choices, and prints results. The
// working set lives only until a reload or exit.
package query

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Ratnaditya-J/GmailWithLlm/gmail"
	"github.com/Ratnaditya-J/GmailWithLlm/llm"
	"github.com/Ratnaditya-J/GmailWithLlm/logging"
	"github.com/Ratnaditya-J/GmailWithLlm/tui"
)

const separatorWidth = 60

// Interface drives the menu loop. Strictly sequential: one provider request
// in flight at a time, every call blocks until it returns.
type Interface struct {
	gmailClient *gmail.Client
	llmClient   *llm.Client
	logger      *slog.Logger

	in  *bufio.Reader
	out io.Writer

	// Default fetch window for implicit loads.
	recentDays int
	maxResults int64

	currentEmails []gmail.NormalizedEmail
	lastQuery     string
}

// New builds the interface around authenticated clients. recentDays and
// maxResults bound the implicit load used by statistics and browsing.
func New(gmailClient *gmail.Client, llmClient *llm.Client, logger *slog.Logger, recentDays int, maxResults int64) *Interface {
	return &Interface{
		gmailClient: gmailClient,
		llmClient:   llmClient,
		logger:      logger,
		in:          bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		recentDays:  recentDays,
		maxResults:  maxResults,
	}
}

// Start runs the menu loop until the user exits, input ends, or the context
// is cancelled.
func (q *Interface) Start(ctx context.Context) {
	sep := strings.Repeat("=", separatorWidth)
	fmt.Fprintln(q.out, TitleStyle.Render(sep))
	fmt.Fprintln(q.out, TitleStyle.Render("GmailWithLLM - Interactive Email Analysis"))
	fmt.Fprintln(q.out, TitleStyle.Render(sep))
	fmt.Fprintln(q.out, SuccessStyle.Render("Connected to Gmail: "+q.gmailClient.UserEmail()))
	fmt.Fprintln(q.out, SuccessStyle.Render("LLM client ready for analysis"))

	for {
		if ctx.Err() != nil {
			return
		}
		q.showMenu()
		choice, err := q.prompt("Enter your choice (1-9): ")
		if err != nil {
			return
		}

		switch choice {
		case "1":
			q.customQuery(ctx)
		case "2":
			q.recentEmailsAnalysis(ctx)
		case "3":
			q.searchAndAnalyze(ctx)
		case "4":
			q.extractContentTypes(ctx)
		case "5":
			q.analyzePatterns(ctx)
		case "6":
			q.emailStatistics(ctx)
		case "7":
			q.browseEmails(ctx)
		case "8":
			q.reloadData()
		case "9":
			q.exit()
			return
		default:
			q.errorf("Invalid choice. Please enter 1-9.")
		}
	}
}

// Cleanup clears the working set. Called on every exit path.
func (q *Interface) Cleanup() {
	q.currentEmails = nil
	q.lastQuery = ""
}

func (q *Interface) showMenu() {
	fmt.Fprintln(q.out)
	fmt.Fprintln(q.out, InfoStyle.Render("What would you like to do?"))
	items := []string{
		"1. Ask custom question about your emails",
		fmt.Sprintf("2. Analyze recent emails (last %d days)", q.recentDays),
		"3. Search emails and analyze",
		"4. Extract specific content (travel, receipts, etc.)",
		"5. Analyze communication patterns",
		"6. Show email statistics",
		"7. Browse fetched emails",
		"8. Reload email data",
		"9. Exit",
	}
	for _, item := range items {
		fmt.Fprintln(q.out, MenuItemStyle.Render(item))
	}
}

func (q *Interface) customQuery(ctx context.Context) {
	fmt.Fprintln(q.out)
	fmt.Fprintln(q.out, InfoStyle.Render("Custom Email Analysis"))
	fmt.Fprintln(q.out, WarnStyle.Render("Example queries:"))
	fmt.Fprintln(q.out, "   - Find all my travel confirmations from 2024")
	fmt.Fprintln(q.out, "   - Extract restaurant recommendations from friends")
	fmt.Fprintln(q.out, "   - Show me patterns in my work emails")

	query, err := q.prompt("Your question: ")
	if err != nil {
		return
	}
	if query == "" {
		q.errorf("Please enter a question.")
		return
	}

	if !q.ensureEmails(ctx, 90, 100) {
		return
	}

	q.infof("Analyzing %d emails...", len(q.currentEmails))
	result, err := q.llmClient.AnalyzeEmails(ctx, q.currentEmails, query)
	if err != nil {
		q.errorf("Analysis failed: %v", err)
		return
	}
	q.printResult("Analysis Results", result)
	q.lastQuery = query
}

func (q *Interface) recentEmailsAnalysis(ctx context.Context) {
	fmt.Fprintln(q.out)
	fmt.Fprintln(q.out, InfoStyle.Render("Recent Email Analysis"))

	days := q.promptInt(fmt.Sprintf("How many days back? (default %d): ", q.recentDays), q.recentDays)
	maxEmails := q.promptInt64("Max emails to analyze? (default 50): ", 50)

	q.infof("Fetching emails from last %d days...", days)
	emails, err := q.gmailClient.GetRecentEmails(ctx, days, maxEmails)
	if err != nil {
		q.errorf("Email fetch failed: %v", err)
		return
	}
	q.currentEmails = emails
	if len(emails) == 0 {
		q.errorf("No emails found in the specified period.")
		return
	}

	result, err := q.llmClient.SummarizeEmails(ctx, q.currentEmails)
	if err != nil {
		q.errorf("Analysis failed: %v", err)
		return
	}
	q.printResult(fmt.Sprintf("Recent Email Summary (%d emails)", len(q.currentEmails)), result)
}

func (q *Interface) searchAndAnalyze(ctx context.Context) {
	fmt.Fprintln(q.out)
	fmt.Fprintln(q.out, InfoStyle.Render("Search and Analyze Emails"))
	fmt.Fprintln(q.out, WarnStyle.Render("Search examples:"))
	fmt.Fprintln(q.out, "   - from:friend@example.com")
	fmt.Fprintln(q.out, "   - subject:receipt")
	fmt.Fprintln(q.out, "   - travel OR flight OR hotel")
	fmt.Fprintln(q.out, "   - has:attachment")

	searchQuery, err := q.prompt("Search query: ")
	if err != nil {
		return
	}
	if searchQuery == "" {
		q.errorf("Please enter a search query.")
		return
	}
	maxResults := q.promptInt64("Max results? (default 50): ", 50)

	emails, err := q.gmailClient.SearchEmails(ctx, searchQuery, maxResults, nil)
	if err != nil {
		q.errorf("Email search failed: %v", err)
		return
	}
	q.currentEmails = emails
	if len(emails) == 0 {
		q.errorf("No emails found matching your search.")
		return
	}

	analysisQuery, err := q.prompt(fmt.Sprintf("What would you like to know about these %d emails? ", len(emails)))
	if err != nil {
		return
	}
	if analysisQuery == "" {
		analysisQuery = "Please summarize these emails and provide key insights."
	}

	result, err := q.llmClient.AnalyzeEmails(ctx, q.currentEmails, analysisQuery)
	if err != nil {
		q.errorf("Analysis failed: %v", err)
		return
	}
	q.printResult("Search Results Analysis", result)
}

var contentTypes = map[string]string{
	"1": "travel confirmations, flight bookings, hotel reservations, and itineraries",
	"2": "receipts, purchase confirmations, and financial transactions",
	"3": "restaurant recommendations, food suggestions, and dining experiences",
	"4": "event invitations, meeting confirmations, and calendar items",
	"5": "work-related action items, tasks, and deadlines",
}

func (q *Interface) extractContentTypes(ctx context.Context) {
	fmt.Fprintln(q.out)
	fmt.Fprintln(q.out, InfoStyle.Render("Extract Specific Content"))
	fmt.Fprintln(q.out, WarnStyle.Render("Content types:"))
	fmt.Fprintln(q.out, "   1. Travel confirmations and itineraries")
	fmt.Fprintln(q.out, "   2. Receipts and purchase confirmations")
	fmt.Fprintln(q.out, "   3. Restaurant and food recommendations")
	fmt.Fprintln(q.out, "   4. Event invitations and confirmations")
	fmt.Fprintln(q.out, "   5. Work-related action items")
	fmt.Fprintln(q.out, "   6. Custom content type")

	choice, err := q.prompt("Choose content type (1-6): ")
	if err != nil {
		return
	}

	var contentType string
	if ct, ok := contentTypes[choice]; ok {
		contentType = ct
	} else if choice == "6" {
		contentType, err = q.prompt("Enter custom content type: ")
		if err != nil {
			return
		}
		if contentType == "" {
			q.errorf("Please specify a content type.")
			return
		}
	} else {
		q.errorf("Invalid choice.")
		return
	}

	if !q.ensureEmails(ctx, 365, 200) {
		return
	}

	result, err := q.llmClient.ExtractContentType(ctx, q.currentEmails, contentType)
	if err != nil {
		q.errorf("Extraction failed: %v", err)
		return
	}
	q.printResult("Extracted: "+contentType, result)
}

func (q *Interface) analyzePatterns(ctx context.Context) {
	fmt.Fprintln(q.out)
	fmt.Fprintln(q.out, InfoStyle.Render("Communication Pattern Analysis"))

	if !q.ensureEmails(ctx, 90, 150) {
		return
	}

	result, err := q.llmClient.FindPatterns(ctx, q.currentEmails)
	if err != nil {
		q.errorf("Analysis failed: %v", err)
		return
	}
	q.printResult(fmt.Sprintf("Communication Patterns (%d emails)", len(q.currentEmails)), result)
}

func (q *Interface) emailStatistics(ctx context.Context) {
	fmt.Fprintln(q.out)
	fmt.Fprintln(q.out, InfoStyle.Render("Email Statistics"))

	if !q.ensureEmails(ctx, q.recentDays, q.maxResults) {
		return
	}

	stats := gmail.ComputeStatistics(q.currentEmails)
	q.printResult("Email Statistics", renderStatistics(stats))
}

// renderStatistics formats an aggregated summary for the console.
func renderStatistics(stats gmail.Statistics) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Total emails analyzed: %d\n", stats.TotalEmails))
	b.WriteString(fmt.Sprintf("Unique senders: %d\n", stats.UniqueSenders))
	earliest, latest := stats.EarliestDate, stats.LatestDate
	if earliest == "" {
		earliest = "N/A"
	}
	if latest == "" {
		latest = "N/A"
	}
	b.WriteString(fmt.Sprintf("Date range: %s to %s\n", earliest, latest))
	if len(stats.TopSenders) > 0 {
		b.WriteString("\nTop Senders:\n")
		for i, sc := range stats.TopSenders {
			b.WriteString(fmt.Sprintf("   %d. %s: %d emails\n", i+1, sc.Sender, sc.Count))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (q *Interface) browseEmails(ctx context.Context) {
	fmt.Fprintln(q.out)
	fmt.Fprintln(q.out, InfoStyle.Render("Browse Fetched Emails"))

	if !q.ensureEmails(ctx, q.recentDays, q.maxResults) {
		return
	}

	if err := tui.Run(q.currentEmails); err != nil {
		q.errorf("Browse view failed: %v", err)
	}
}

func (q *Interface) reloadData() {
	fmt.Fprintln(q.out)
	fmt.Fprintln(q.out, InfoStyle.Render("Reload Email Data"))
	q.currentEmails = nil
	q.successf("Email data cleared. It will be reloaded on next analysis.")
}

func (q *Interface) exit() {
	fmt.Fprintln(q.out)
	fmt.Fprintln(q.out, WarnStyle.Render("Thank you for using GmailWithLLM!"))
	fmt.Fprintln(q.out, SuccessStyle.Render("All credentials and email data will be cleared."))
}

// ensureEmails lazily loads recent mail when an analysis is requested with
// an empty working set. Reports whether the set is non-empty afterwards.
func (q *Interface) ensureEmails(ctx context.Context, days int, maxResults int64) bool {
	if len(q.currentEmails) > 0 {
		return true
	}
	q.warnf("Loading recent emails for analysis...")
	emails, err := q.gmailClient.GetRecentEmails(ctx, days, maxResults)
	if err != nil {
		q.errorf("Failed to load emails: %v", err)
		q.logger.Warn("implicit load failed", logging.Err(err))
		return false
	}
	q.currentEmails = emails
	if len(emails) == 0 {
		q.errorf("No emails found for analysis.")
		return false
	}
	return true
}

func (q *Interface) printResult(header, body string) {
	sep := SeparatorStyle.Render(strings.Repeat("=", separatorWidth))
	fmt.Fprintln(q.out)
	fmt.Fprintln(q.out, sep)
	fmt.Fprintln(q.out, SuccessStyle.Render(header))
	fmt.Fprintln(q.out, sep)
	fmt.Fprintln(q.out, body)
}

func (q *Interface) prompt(label string) (string, error) {
	fmt.Fprint(q.out, PromptStyle.Render(label))
	line, err := q.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (q *Interface) promptInt(label string, fallback int) int {
	s, err := q.prompt(label)
	if err != nil || s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func (q *Interface) promptInt64(label string, fallback int64) int64 {
	s, err := q.prompt(label)
	if err != nil || s == "" {
		return fallback
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func (q *Interface) infof(format string, args ...any) {
	fmt.Fprintln(q.out, InfoStyle.Render(fmt.Sprintf(format, args...)))
}

func (q *Interface) warnf(format string, args ...any) {
	fmt.Fprintln(q.out, WarnStyle.Render(fmt.Sprintf(format, args...)))
}

func (q *Interface) errorf(format string, args ...any) {
	fmt.Fprintln(q.out, ErrorStyle.Render(fmt.Sprintf(format, args...)))
}

func (q *Interface) successf(format string, args ...any) {
	fmt.Fprintln(q.out, SuccessStyle.Render(fmt.Sprintf(format, args...)))
}
