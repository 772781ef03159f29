package safer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, html string) *Page {
	t.Helper()
	p, err := ParsePageString(html)
	require.NoError(t, err)
	return p
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected PageKind
	}{
		{
			name:     "snapshot by title",
			html:     `<html><head><title>SAFER Web - Company Snapshot</title></head><body></body></html>`,
			expected: PageSnapshot,
		},
		{
			name:     "snapshot by heading",
			html:     `<html><head><title>SAFER Web</title></head><body><h2>Company Snapshot</h2></body></html>`,
			expected: PageSnapshot,
		},
		{
			name:     "snapshot by bold marker",
			html:     `<html><head><title>Query Result</title></head><body><b>Company Snapshot</b></body></html>`,
			expected: PageSnapshot,
		},
		{
			name:     "results page",
			html:     `<html><head><title>SAFER Web - Query Result</title></head><body><table><tr><td>rows</td></tr></table></body></html>`,
			expected: PageList,
		},
		{
			name:     "empty page",
			html:     `<html><body></body></html>`,
			expected: PageList,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(mustParse(t, tt.html)))
		})
	}
}
