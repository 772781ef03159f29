// Package tablescan extracts values from legacy label-and-cell HTML tables.
//
// Old government and enterprise sites render key/value data as bare table
// rows with no semantic markup: a label cell followed by a value cell, or a
// marker cell followed by a label cell. The markup varies between pages of
// the same site, so all matching here operates on a cell's flattened text
// content, never on element structure inside the cell.
package tablescan

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ValueByLabel scans every table cell in document order and returns the
// trimmed text of the next sibling <td> of the first cell whose normalized
// text equals label, label+":", or begins with label+":".
//
// A miss returns the empty string. Absent labels are expected and common on
// this kind of markup, so not-found is a value, not an error. Scanning stops
// at the first cell that yields a non-empty value.
func ValueByLabel(doc *goquery.Document, label string) string {
	want := strings.ToLower(strings.TrimSpace(label))
	if want == "" {
		return ""
	}

	var value string
	doc.Find("th, td").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		text := strings.ToLower(strings.TrimSpace(cell.Text()))
		if text != want && text != want+":" && !strings.HasPrefix(text, want+":") {
			return true
		}
		if next := cell.NextFiltered("td"); next.Length() > 0 {
			value = strings.TrimSpace(next.Text())
		}
		// Keep scanning when the matched cell had no usable neighbor.
		return value == ""
	})

	return value
}

// MarkedRow reports whether the first <td> whose trimmed text equals label
// (case-insensitive) is immediately preceded by a sibling <td> containing
// exactly "X" after trimming and upper-casing.
//
// This is the authorization-grid convention: a marker cell next to each
// label cell, filled in when the row applies.
func MarkedRow(doc *goquery.Document, label string) bool {
	want := strings.ToLower(strings.TrimSpace(label))
	if want == "" {
		return false
	}

	marked := false
	doc.Find("td").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		if strings.ToLower(strings.TrimSpace(cell.Text())) != want {
			return true
		}
		prev := cell.PrevFiltered("td")
		if prev.Length() > 0 && strings.ToUpper(strings.TrimSpace(prev.Text())) == "X" {
			marked = true
		}
		return !marked
	})

	return marked
}
