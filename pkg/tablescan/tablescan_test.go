package tablescan

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestValueByLabel(t *testing.T) {
	doc := parseDoc(t, `<html><body><table>
		<tr><th>Legal Name:</th><td>ACME HAULING LLC</td></tr>
		<tr><td><font color="red">Power Units:</font></td><td><b>12</b></td></tr>
		<tr><td>DBA Name:</td><td></td></tr>
		<tr><td>Phone</td><td>(555) 123-4567</td></tr>
		<tr><td>Drivers: 10</td><td>ignored</td></tr>
	</table></body></html>`)

	t.Run("th label with colon", func(t *testing.T) {
		assert.Equal(t, "ACME HAULING LLC", ValueByLabel(doc, "Legal Name:"))
	})

	t.Run("bare label matches colon variant", func(t *testing.T) {
		assert.Equal(t, "ACME HAULING LLC", ValueByLabel(doc, "Legal Name"))
	})

	t.Run("decorative markup inside cells is flattened", func(t *testing.T) {
		assert.Equal(t, "12", ValueByLabel(doc, "Power Units:"))
	})

	t.Run("case insensitive", func(t *testing.T) {
		assert.Equal(t, "(555) 123-4567", ValueByLabel(doc, "PHONE"))
	})

	t.Run("prefix match on label with trailing text", func(t *testing.T) {
		assert.Equal(t, "ignored", ValueByLabel(doc, "Drivers:"))
	})

	t.Run("absent label returns empty", func(t *testing.T) {
		assert.Equal(t, "", ValueByLabel(doc, "Safety Rating"))
	})

	t.Run("empty label returns empty", func(t *testing.T) {
		assert.Equal(t, "", ValueByLabel(doc, ""))
	})

	t.Run("idempotent", func(t *testing.T) {
		first := ValueByLabel(doc, "Legal Name:")
		second := ValueByLabel(doc, "Legal Name:")
		assert.Equal(t, first, second)
	})
}

func TestValueByLabelFirstMatchWins(t *testing.T) {
	doc := parseDoc(t, `<html><body><table>
		<tr><td>Entity Type:</td><td>CARRIER</td></tr>
		<tr><td>Entity Type:</td><td>BROKER</td></tr>
	</table></body></html>`)

	assert.Equal(t, "CARRIER", ValueByLabel(doc, "Entity Type:"))
}

func TestValueByLabelNoNeighbor(t *testing.T) {
	// A label cell that ends its row contributes nothing; scanning moves on
	// to the next occurrence.
	doc := parseDoc(t, `<html><body><table>
		<tr><td>USDOT Number:</td></tr>
		<tr><td>USDOT Number:</td><td>223672</td></tr>
	</table></body></html>`)

	assert.Equal(t, "223672", ValueByLabel(doc, "USDOT Number:"))
}

func TestMarkedRow(t *testing.T) {
	doc := parseDoc(t, `<html><body><table>
		<tr><td class="queryfield">X</td><td><font>Motor Vehicles</font></td></tr>
		<tr><td></td><td>Household Goods</td></tr>
		<tr><td>x</td><td>Metal: sheets, coils, rolls</td></tr>
	</table></body></html>`)

	t.Run("marked", func(t *testing.T) {
		assert.True(t, MarkedRow(doc, "Motor Vehicles"))
	})

	t.Run("case insensitive label", func(t *testing.T) {
		assert.True(t, MarkedRow(doc, "motor vehicles"))
	})

	t.Run("empty marker cell", func(t *testing.T) {
		assert.False(t, MarkedRow(doc, "Household Goods"))
	})

	t.Run("lowercase marker counts", func(t *testing.T) {
		assert.True(t, MarkedRow(doc, "Metal: sheets, coils, rolls"))
	})

	t.Run("absent label", func(t *testing.T) {
		assert.False(t, MarkedRow(doc, "Livestock"))
	})
}

func TestMarkedRowNoPrecedingCell(t *testing.T) {
	doc := parseDoc(t, `<html><body><table>
		<tr><td>Motor Vehicles</td><td>X</td></tr>
	</table></body></html>`)

	// The marker must precede the label, not follow it.
	assert.False(t, MarkedRow(doc, "Motor Vehicles"))
}
