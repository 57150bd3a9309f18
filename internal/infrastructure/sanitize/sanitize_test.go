package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizer_HTML(t *testing.T) {
	s := New()

	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "keeps formatting",
			input:    "<h2>Deadlines</h2><p>File by <strong>April 15</strong>.</p><ul><li>W-2</li></ul>",
			contains: []string{"<h2>Deadlines</h2>", "<strong>April 15</strong>", "<li>W-2</li>"},
		},
		{
			name:     "drops scripts",
			input:    `<p>Hello</p><script>alert("x")</script>`,
			contains: []string{"<p>Hello</p>"},
			excludes: []string{"script", "alert"},
		},
		{
			name:     "drops event handlers",
			input:    `<img src="https://cdn.example.com/a.png" onerror="steal()">`,
			contains: []string{`src="https://cdn.example.com/a.png"`},
			excludes: []string{"onerror", "steal"},
		},
		{
			name:     "drops javascript links",
			input:    `<a href="javascript:alert(1)">click</a>`,
			excludes: []string{"javascript"},
		},
		{
			name:     "external links get nofollow",
			input:    `<a href="https://irs.gov">IRS</a>`,
			contains: []string{"nofollow", `target="_blank"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := s.HTML(tt.input)
			for _, c := range tt.contains {
				assert.Contains(t, out, c)
			}
			for _, e := range tt.excludes {
				assert.NotContains(t, out, e)
			}
		})
	}
}

func TestSanitizer_Text(t *testing.T) {
	s := New()

	assert.Equal(t, "Great service!", s.Text("  <b>Great</b> service!<script>x()</script> "))
	assert.Equal(t, "Smith & Sons", s.Text("Smith & Sons"))
	assert.Equal(t, "", s.Text("<img src=x onerror=y>"))
}
