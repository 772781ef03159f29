package safer

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// AssembleList extracts result rows from a list-classified page, in
// document order. A row qualifies when it contains a link back into the
// registry's query endpoint; rows lacking a name or a link target are
// skipped. An empty slice is a meaningful no-results answer, not a failure.
func AssembleList(p *Page) []ResultRow {
	rows := []ResultRow{}
	p.doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		link := tr.Find(`a[href*="query.asp"]`).First()
		if link.Length() == 0 {
			return
		}
		name := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		if name == "" || href == "" {
			return
		}

		row := ResultRow{Name: name, URL: href, IDType: IDTypeName}

		// Location sits in the cell after the one holding the link.
		cell := link.Closest("td, th")
		if next := cell.NextFiltered("td, th"); next.Length() > 0 {
			row.Location = strings.TrimSpace(next.Text())
		}

		row.ID, row.IDType = idFromHref(href)
		rows = append(rows, row)
	})
	return rows
}

// idFromHref pulls the carrier identifier out of a result link's query
// string. Links that don't name a DOT or MC number resolve to a name-only
// row with an empty id.
func idFromHref(href string) (string, IDType) {
	_, rawQuery, ok := strings.Cut(href, "?")
	if !ok {
		return "", IDTypeName
	}
	params, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", IDTypeName
	}
	switch params.Get("query_param") {
	case "USDOT":
		return params.Get("query_string"), IDTypeDOT
	case "MC_MX":
		return params.Get("query_string"), IDTypeMC
	default:
		return "", IDTypeName
	}
}
