package safer

import "strings"

// snapshotMarker is the phrase the registry puts in the title and headings
// of its single-carrier detail page.
const snapshotMarker = "Company Snapshot"

// Classify decides which layout a fetched page uses. The registry renders
// no distinct no-results shape in observed samples; a results page with
// zero rows is the no-results case, so the decision is effectively binary.
func Classify(p *Page) PageKind {
	if strings.Contains(p.doc.Find("title").Text(), snapshotMarker) {
		return PageSnapshot
	}
	if strings.Contains(p.doc.Find("h2, h3, b").Text(), snapshotMarker) {
		return PageSnapshot
	}
	return PageList
}
