package gmail

import (
	"encoding/base64"
	"strings"

	"github.com/k3a/html2text"
	"google.golang.org/api/gmail/v1"
)

// ExtractBody flattens a (possibly multipart) message payload into plain
// text. Extraction is best effort: a node that fails to decode contributes
// the empty string, and the function never returns an error.
func ExtractBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}
	return extractPart(payload)
}

func extractPart(part *gmail.MessagePart) string {
	if len(part.Parts) > 0 {
		var b strings.Builder
		for _, p := range part.Parts {
			b.WriteString(extractPart(p))
		}
		return strings.TrimSpace(b.String())
	}

	if part.Body == nil || part.Body.Data == "" {
		return ""
	}

	raw, err := decodeBodyData(part.Body.Data)
	if err != nil {
		return ""
	}
	text := strings.ToValidUTF8(string(raw), "")

	if strings.Contains(strings.ToLower(part.MimeType), "html") {
		text = htmlToText(text)
	}
	return strings.TrimSpace(text)
}

// decodeBodyData decodes the URL-safe base64 used by the Gmail API. The API
// emits both padded and unpadded payloads.
func decodeBodyData(data string) ([]byte, error) {
	raw, err := base64.URLEncoding.DecodeString(data)
	if err == nil {
		return raw, nil
	}
	return base64.RawURLEncoding.DecodeString(data)
}

// htmlToText strips markup and collapses all whitespace to single spaces.
func htmlToText(s string) string {
	text := html2text.HTML2Text(s)
	return strings.Join(strings.Fields(text), " ")
}
