package gmail

import (
	"fmt"
	"net/mail"
	"strings"

	"google.golang.org/api/gmail/v1"
)

// Placeholders for absent headers.
const (
	defaultSubject   = "No Subject"
	defaultSender    = "Unknown Sender"
	defaultRecipient = "Unknown Recipient"
)

const displayDateLayout = "2006-01-02 15:04:05"

// Normalize builds a NormalizedEmail from a raw API message. A malformed
// message (no payload) yields an error so the caller can skip it and carry
// on with the rest of the batch.
func Normalize(msg *gmail.Message) (*NormalizedEmail, error) {
	if msg == nil || msg.Payload == nil {
		return nil, fmt.Errorf("message %q has no payload", messageID(msg))
	}

	headers := make(map[string]string, len(msg.Payload.Headers))
	for _, h := range msg.Payload.Headers {
		if h == nil {
			continue
		}
		headers[strings.ToLower(h.Name)] = h.Value
	}

	email := &NormalizedEmail{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Subject:  headerOr(headers, "subject", defaultSubject),
		From:     headerOr(headers, "from", defaultSender),
		To:       headerOr(headers, "to", defaultRecipient),
		DateRaw:  headers["date"],
		Body:     ExtractBody(msg.Payload),
		Snippet:  msg.Snippet,
		Labels:   msg.LabelIds,
		Headers:  headers,
	}
	email.Date = normalizeDate(email.DateRaw)
	return email, nil
}

// normalizeDate reformats an RFC 2822 date header for display. A value that
// does not parse is passed through verbatim.
func normalizeDate(raw string) string {
	t, err := mail.ParseDate(raw)
	if err != nil {
		return raw
	}
	return t.Format(displayDateLayout)
}

// headerOr defaults only when the header is absent; an empty value stays
// empty.
func headerOr(headers map[string]string, name, fallback string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	return fallback
}

func messageID(msg *gmail.Message) string {
	if msg == nil {
		return ""
	}
	return msg.Id
}
