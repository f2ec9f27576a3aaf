package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"  padded  ", "padded"},
		{"<b>bold</b> stays as text", "bold stays as text"},
		{"<script>alert(1)</script>", ""},
		{`<a href="https://evil.example">link</a>`, "link"},
		{"fish & chips", "fish & chips"},
		{"<img src=x onerror=alert(1)>", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Text(c.in), "Text(%q)", c.in)
	}
}

func TestFields(t *testing.T) {
	title := "<h1>Title</h1>"
	summary := "  ok  "
	Fields(&title, &summary)
	assert.Equal(t, "Title", title)
	assert.Equal(t, "ok", summary)
}
