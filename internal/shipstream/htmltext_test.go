package shipstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksLikeHTML(t *testing.T) {
	cases := []struct {
		name string
		body string
		want bool
	}{
		{"doctype", "<!DOCTYPE html><html><body>502</body></html>", true},
		{"bare html tag", "  <html lang=\"en\"><head></head></html>", true},
		{"json", `{"collection":[]}`, false},
		{"plain text", "Bad Gateway", false},
		{"xml", "<?xml version=\"1.0\"?><note/>", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, LooksLikeHTML(tc.body))
		})
	}
}

func TestHTMLToText(t *testing.T) {
	page := `<!DOCTYPE html>
<html>
<head>
  <title>502 Bad Gateway</title>
  <style>body { color: red; }</style>
  <script>alert("nope")</script>
</head>
<body>
  <h1>502 Bad Gateway</h1>
  <p>The upstream server did not respond.</p>
</body>
</html>`

	text := HTMLToText(page)

	assert.Contains(t, text, "502 Bad Gateway")
	assert.Contains(t, text, "The upstream server did not respond.")
	assert.NotContains(t, text, "color: red", "style content must be stripped")
	assert.NotContains(t, text, "alert", "script content must be stripped")
}

func TestHTMLToTextCollapsesBlankRuns(t *testing.T) {
	page := "<html><body><div>a</div><div></div><div></div><div></div><div>b</div></body></html>"

	text := HTMLToText(page)

	assert.NotContains(t, text, "\n\n\n")
	assert.Contains(t, text, "a")
	assert.Contains(t, text, "b")
}
