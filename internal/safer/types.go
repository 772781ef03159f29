// Package safer scrapes carrier records from the FMCSA SAFER company
// snapshot service (safer.fmcsa.dot.gov). SAFER has no API; queries go
// through its HTML search form and results come back as one of two legacy
// page layouts: a single-carrier "Company Snapshot" page or a multi-row
// search-results page.
package safer

// QueryKind selects which registry identifier a query value refers to.
type QueryKind string

const (
	KindName QueryKind = "NAME"
	KindMC   QueryKind = "MC"
	KindDOT  QueryKind = "DOT"
)

// ParseKind maps a caller-supplied kind string to a QueryKind. Unrecognized
// input falls back to a name search, matching the registry form's default.
func ParseKind(s string) QueryKind {
	switch QueryKind(normalizeKind(s)) {
	case KindMC:
		return KindMC
	case KindDOT:
		return KindDOT
	default:
		return KindName
	}
}

// Query is one lookup request against the registry.
type Query struct {
	Kind  QueryKind
	Value string
}

// PageKind is the classified layout of a fetched registry page.
type PageKind int

const (
	// PageSnapshot is the single-carrier detail layout.
	PageSnapshot PageKind = iota
	// PageList is the multi-row search-results layout. A list with zero
	// rows is the registry's no-results case.
	PageList
	// PageUnrecognized is reserved for layouts matching neither shape.
	// No classification rule produces it today; callers should still
	// handle it so a future rule can use it.
	PageUnrecognized
)

// CarrierRecord is the normalized summary scraped from a snapshot page.
// Every field is best effort: the registry's markup is inconsistent across
// carrier types, so an absent field is an empty string, never an error.
type CarrierRecord struct {
	LegalName  string `json:"legalName"`
	DBAName    string `json:"dbaName"`
	USDOT      string `json:"usdot"`
	MCNumber   string `json:"mcNumber"`
	EntityType string `json:"entityType"`

	// Status is derived from EntityType: CARRIER, BROKER, BOTH, the raw
	// upper-cased entity type, or UNKNOWN when the page carried none.
	Status string `json:"status"`

	PowerUnits                 string `json:"powerUnits"`
	Drivers                    string `json:"drivers"`
	AuthorizedForMotorVehicles bool   `json:"authorizedForMotorVehicles"`
	Phone                      string `json:"phone"`
	Address                    string `json:"address"`
	MailingAddress             string `json:"mailingAddress"`
	SafetyRating               string `json:"safetyRating"`
	SafetyRatingDate           string `json:"safetyRatingDate"`
	USDOTStatus                string `json:"usdotStatus"`
	OperatingAuthorityStatus   string `json:"operatingAuthorityStatus"`
}

// IDType says which identifier a list row's link resolved to.
type IDType string

const (
	IDTypeDOT IDType = "DOT"
	IDTypeMC  IDType = "MC"
	// IDTypeName marks rows whose link carried no recognizable id; the
	// display name is all there is to go on.
	IDTypeName IDType = "NAME"
)

// ResultRow is one entry of a search-results page, in document order.
// The registry sometimes repeats rows; duplicates pass through as-is.
type ResultRow struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	ID       string `json:"id"`
	IDType   IDType `json:"idType"`
	URL      string `json:"url"`
}
