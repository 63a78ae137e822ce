package gmail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"
)

func makeMessage(headers map[string]string) *gmail.Message {
	var hs []*gmail.MessagePartHeader
	for name, value := range headers {
		hs = append(hs, &gmail.MessagePartHeader{Name: name, Value: value})
	}
	return &gmail.Message{
		Id:       "msg-1",
		ThreadId: "thr-1",
		Snippet:  "snippet text",
		LabelIds: []string{"INBOX"},
		Payload: &gmail.MessagePart{
			MimeType: "text/plain",
			Headers:  hs,
			Body:     &gmail.MessagePartBody{Data: b64("body text")},
		},
	}
}

func TestNormalizeBasic(t *testing.T) {
	msg := makeMessage(map[string]string{
		"Subject": "Trip details",
		"From":    "Jane <jane@example.com>",
		"To":      "me@example.com",
		"Date":    "Mon, 02 Jan 2006 15:04:05 -0700",
	})

	email, err := Normalize(msg)
	require.NoError(t, err)

	assert.Equal(t, "msg-1", email.ID)
	assert.Equal(t, "thr-1", email.ThreadID)
	assert.Equal(t, "Trip details", email.Subject)
	assert.Equal(t, "Jane <jane@example.com>", email.From)
	assert.Equal(t, "me@example.com", email.To)
	assert.Equal(t, "2006-01-02 15:04:05", email.Date)
	assert.Equal(t, "Mon, 02 Jan 2006 15:04:05 -0700", email.DateRaw)
	assert.Equal(t, "body text", email.Body)
	assert.Equal(t, "snippet text", email.Snippet)
	assert.Equal(t, []string{"INBOX"}, email.Labels)
}

func TestNormalizeMissingHeaders(t *testing.T) {
	email, err := Normalize(makeMessage(nil))
	require.NoError(t, err)

	assert.Equal(t, "No Subject", email.Subject)
	assert.Equal(t, "Unknown Sender", email.From)
	assert.Equal(t, "Unknown Recipient", email.To)
	assert.Equal(t, "", email.Date)
	assert.Equal(t, "", email.DateRaw)
}

func TestNormalizeEmptyHeaderStaysEmpty(t *testing.T) {
	// Present-but-empty is not the same as absent.
	email, err := Normalize(makeMessage(map[string]string{"Subject": ""}))
	require.NoError(t, err)
	assert.Equal(t, "", email.Subject)
}

func TestNormalizeHeaderCaseInsensitive(t *testing.T) {
	email, err := Normalize(makeMessage(map[string]string{
		"SUBJECT": "shouting",
		"from":    "a@b.com",
	}))
	require.NoError(t, err)
	assert.Equal(t, "shouting", email.Subject)
	assert.Equal(t, "a@b.com", email.From)
	assert.Equal(t, "shouting", email.Headers["subject"])
}

func TestNormalizeUnparseableDatePassthrough(t *testing.T) {
	email, err := Normalize(makeMessage(map[string]string{"Date": "next thursday"}))
	require.NoError(t, err)
	assert.Equal(t, "next thursday", email.Date)
	assert.Equal(t, "next thursday", email.DateRaw)
}

func TestNormalizeNoPayload(t *testing.T) {
	_, err := Normalize(&gmail.Message{Id: "broken"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")

	_, err = Normalize(nil)
	require.Error(t, err)
}
