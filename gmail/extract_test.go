package gmail

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/gmail/v1"
)

func b64(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func textPart(mimeType, content string) *gmail.MessagePart {
	return &gmail.MessagePart{
		MimeType: mimeType,
		Body:     &gmail.MessagePartBody{Data: b64(content)},
	}
}

func TestExtractBodyNilPayload(t *testing.T) {
	assert.Equal(t, "", ExtractBody(nil))
}

func TestExtractBodyPlainText(t *testing.T) {
	got := ExtractBody(textPart("text/plain", "  hello world\n"))
	assert.Equal(t, "hello world", got)
}

func TestExtractBodyHTML(t *testing.T) {
	got := ExtractBody(textPart("text/html", "<p>Hello   <b>World</b></p>"))
	assert.Equal(t, "Hello World", got)
}

func TestExtractBodyMultipart(t *testing.T) {
	// Each child's contribution is trimmed, then concatenated with no
	// separator.
	payload := &gmail.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmail.MessagePart{
			textPart("text/plain", "first "),
			textPart("text/plain", "second"),
		},
	}
	assert.Equal(t, "firstsecond", ExtractBody(payload))
}

func TestExtractBodyNestedMultipart(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmail.MessagePart{
			{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					textPart("text/plain", "inner"),
				},
			},
			textPart("text/plain", " outer"),
		},
	}
	assert.Equal(t, "innerouter", ExtractBody(payload))
}

func TestExtractBodyUnpaddedBase64(t *testing.T) {
	// The API emits unpadded payloads too.
	part := &gmail.MessagePart{
		MimeType: "text/plain",
		Body:     &gmail.MessagePartBody{Data: base64.RawURLEncoding.EncodeToString([]byte("hello"))},
	}
	assert.Equal(t, "hello", ExtractBody(part))
}

func TestExtractBodyBadData(t *testing.T) {
	// Undecodable node contributes nothing; siblings still extract.
	payload := &gmail.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmail.MessagePart{
			{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: "!!!not-base64!!!"}},
			textPart("text/plain", "survivor"),
		},
	}
	assert.Equal(t, "survivor", ExtractBody(payload))
}

func TestExtractBodyInvalidUTF8(t *testing.T) {
	part := &gmail.MessagePart{
		MimeType: "text/plain",
		Body:     &gmail.MessagePartBody{Data: base64.URLEncoding.EncodeToString([]byte{'o', 'k', 0xff, 0xfe, '!'})},
	}
	assert.Equal(t, "ok!", ExtractBody(part))
}

func TestExtractBodyEmptyBody(t *testing.T) {
	assert.Equal(t, "", ExtractBody(&gmail.MessagePart{MimeType: "text/plain"}))
	assert.Equal(t, "", ExtractBody(&gmail.MessagePart{
		MimeType: "text/plain",
		Body:     &gmail.MessagePartBody{},
	}))
}
