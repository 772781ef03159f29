package safer

import (
	"net/url"
	"strings"
)

// Fixed form markers the registry requires on every search, whatever the
// identifier kind.
const (
	searchType = "ANY"
	queryType  = "queryCarrierSnapshot"
)

// FormValues maps the query onto the registry form's parameter set. The
// mapping is total: every kind, including anything unrecognized, produces a
// valid submission.
func (q Query) FormValues() url.Values {
	v := url.Values{}
	v.Set("searchtype", searchType)
	v.Set("query_type", queryType)
	v.Set("query_param", q.Kind.queryParam())
	v.Set("query_string", q.Value)
	return v
}

// queryParam is the registry's name for each identifier kind.
func (k QueryKind) queryParam() string {
	switch k {
	case KindMC:
		return "MC_MX"
	case KindDOT:
		return "USDOT"
	default:
		return "NAME"
	}
}

func normalizeKind(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
