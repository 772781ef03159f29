package safer

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Page is a parsed view over one fetched registry response. The same node
// tree backs both a goquery document (cell and row scanning) and the raw
// html.Node root (XPath lookups on the registry's id-anchored blocks).
// A Page belongs to the request that fetched it and is never shared.
type Page struct {
	doc  *goquery.Document
	root *html.Node
}

// ParsePage builds a Page from an HTML stream. Parsing is lenient the way
// browsers are; malformed markup still yields a usable tree.
func ParsePage(r io.Reader) (*Page, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Page{doc: goquery.NewDocumentFromNode(root), root: root}, nil
}

// ParsePageString is ParsePage over an in-memory document.
func ParsePageString(s string) (*Page, error) {
	return ParsePage(strings.NewReader(s))
}
