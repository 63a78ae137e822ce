package gmail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/Ratnaditya-J/GmailWithLlm/logging"
)

const (
	user            = "me"
	searchDateForm  = "2006/01/02"
	fullMessageForm = "full"
)

// Client wraps the Gmail API for read-only mailbox access. It receives an
// already-authorized token source and never inspects or persists the
// underlying credential.
type Client struct {
	srv           *gmail.Service
	userEmail     string
	totalMessages int64
	logger        *slog.Logger
}

// NewClient builds a client and verifies the session by loading the account
// profile.
func NewClient(ctx context.Context, ts oauth2.TokenSource, logger *slog.Logger) (*Client, error) {
	srv, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}

	profile, err := srv.Users.GetProfile(user).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to load Gmail profile: %w", err)
	}

	c := &Client{
		srv:           srv,
		userEmail:     profile.EmailAddress,
		totalMessages: profile.MessagesTotal,
		logger:        logger,
	}
	logger.Info("connected to Gmail",
		logging.Account(c.userEmail),
		slog.Int64("messages_total", c.totalMessages))
	return c, nil
}

// UserEmail returns the address of the connected account.
func (c *Client) UserEmail() string { return c.userEmail }

// TotalMessages returns the mailbox message count reported by the profile.
func (c *Client) TotalMessages() int64 { return c.totalMessages }

// DateRange bounds a search in YYYY/MM/DD form; empty fields leave that side
// open.
type DateRange struct {
	Start string
	End   string
}

// SearchEmails lists messages matching the query, fetches each in full and
// normalizes it. A message that fails to fetch or normalize is logged and
// skipped; one bad message never aborts the batch. The query string is
// passed to Gmail verbatim, so provider filters (from:, subject:, after:,
// free text) all work.
func (c *Client) SearchEmails(ctx context.Context, query string, maxResults int64, dateRange *DateRange) ([]NormalizedEmail, error) {
	search := buildSearchQuery(query, dateRange)
	c.logger.Info("searching emails",
		logging.Operation("search"),
		slog.String("query", search),
		slog.Int64("max_results", maxResults))

	list, err := c.srv.Users.Messages.List(user).
		Q(search).
		MaxResults(maxResults).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("email search failed: %w", err)
	}
	if len(list.Messages) == 0 {
		return []NormalizedEmail{}, nil
	}

	emails := make([]NormalizedEmail, 0, len(list.Messages))
	for _, stub := range list.Messages {
		full, err := c.srv.Users.Messages.Get(user, stub.Id).
			Format(fullMessageForm).
			Context(ctx).Do()
		if err != nil {
			if ctx.Err() != nil {
				return emails, ctx.Err()
			}
			c.logger.Warn("skipping message, fetch failed",
				logging.MessageID(stub.Id), logging.Err(err))
			continue
		}
		email, err := Normalize(full)
		if err != nil {
			c.logger.Warn("skipping malformed message",
				logging.MessageID(stub.Id), logging.Err(err))
			continue
		}
		emails = append(emails, *email)
	}
	c.logger.Info("fetch complete",
		logging.Operation("search"),
		slog.Int("fetched", len(emails)),
		slog.Int("listed", len(list.Messages)))
	return emails, nil
}

// buildSearchQuery appends provider date filters to a verbatim query.
func buildSearchQuery(query string, dateRange *DateRange) string {
	if dateRange == nil {
		return query
	}
	if dateRange.Start != "" {
		query += " after:" + dateRange.Start
	}
	if dateRange.End != "" {
		query += " before:" + dateRange.End
	}
	return query
}

// GetRecentEmails fetches emails from the last N days.
func (c *Client) GetRecentEmails(ctx context.Context, days int, maxResults int64) ([]NormalizedEmail, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -days)
	return c.SearchEmails(ctx, "", maxResults, &DateRange{
		Start: start.Format(searchDateForm),
		End:   end.Format(searchDateForm),
	})
}

// SearchBySender fetches emails from a specific sender.
func (c *Client) SearchBySender(ctx context.Context, sender string, maxResults int64) ([]NormalizedEmail, error) {
	return c.SearchEmails(ctx, "from:"+sender, maxResults, nil)
}

// SearchBySubject fetches emails whose subject matches the keywords.
func (c *Client) SearchBySubject(ctx context.Context, keywords string, maxResults int64) ([]NormalizedEmail, error) {
	return c.SearchEmails(ctx, "subject:"+keywords, maxResults, nil)
}

// SearchByContent fetches emails matching free-text keywords.
func (c *Client) SearchByContent(ctx context.Context, keywords string, maxResults int64) ([]NormalizedEmail, error) {
	return c.SearchEmails(ctx, keywords, maxResults, nil)
}

// Cleanup drops the service handle. Called on every exit path.
func (c *Client) Cleanup() {
	c.srv = nil
	c.logger.Info("Gmail client cleaned up", logging.Operation("cleanup"))
}
