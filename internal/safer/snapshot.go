package safer

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/fleetscope/carriercheck/pkg/tablescan"
)

// Registry element ids for the two address blocks. These are the only
// snapshot fields the registry marks up with stable ids; everything else is
// label-adjacent cells.
const (
	physicalAddressID = "physicaladdressvalue"
	mailingAddressID  = "mailingaddressvalue"
)

// AssembleSnapshot builds a CarrierRecord from a snapshot-classified page.
// It never fails: fields missing from the page come back as empty strings
// (or false for the cargo authorization), so even a malformed snapshot page
// yields a record.
func AssembleSnapshot(p *Page) CarrierRecord {
	rec := CarrierRecord{
		EntityType:               tablescan.ValueByLabel(p.doc, "Entity Type:"),
		LegalName:                tablescan.ValueByLabel(p.doc, "Legal Name:"),
		DBAName:                  tablescan.ValueByLabel(p.doc, "DBA Name:"),
		USDOT:                    tablescan.ValueByLabel(p.doc, "USDOT Number:"),
		MCNumber:                 tablescan.ValueByLabel(p.doc, "MC/MX/FF Number(s):"),
		PowerUnits:               tablescan.ValueByLabel(p.doc, "Power Units:"),
		Drivers:                  tablescan.ValueByLabel(p.doc, "Drivers:"),
		Phone:                    tablescan.ValueByLabel(p.doc, "Phone"),
		SafetyRating:             tablescan.ValueByLabel(p.doc, "Safety Rating"),
		SafetyRatingDate:         tablescan.ValueByLabel(p.doc, "Rating Date"),
		USDOTStatus:              tablescan.ValueByLabel(p.doc, "USDOT Status"),
		OperatingAuthorityStatus: tablescan.ValueByLabel(p.doc, "Operating Authority Status"),

		Address:        textByID(p.root, physicalAddressID),
		MailingAddress: textByID(p.root, mailingAddressID),

		AuthorizedForMotorVehicles: tablescan.MarkedRow(p.doc, "Motor Vehicles"),
	}
	rec.Status = deriveStatus(rec.EntityType)
	return rec
}

// deriveStatus classifies a carrier by substring of its entity type. The
// registry's entity type is free text ("AUTHORIZED FOR HIRE CARRIER",
// "CARRIER/BROKER", "SHIPPER", ...), so substring is the only usable test.
func deriveStatus(entityType string) string {
	et := strings.ToUpper(strings.TrimSpace(entityType))
	isCarrier := strings.Contains(et, "CARRIER")
	isBroker := strings.Contains(et, "BROKER")
	switch {
	case isCarrier && isBroker:
		return "BOTH"
	case isCarrier:
		return "CARRIER"
	case isBroker:
		return "BROKER"
	case et != "":
		return et
	default:
		return "UNKNOWN"
	}
}

// textByID returns the trimmed flattened text of the element with the given
// id, or empty string when the page has none.
func textByID(root *html.Node, id string) string {
	node := htmlquery.FindOne(root, fmt.Sprintf("//*[@id=%q]", id))
	if node == nil {
		return ""
	}
	return strings.TrimSpace(htmlquery.InnerText(node))
}
