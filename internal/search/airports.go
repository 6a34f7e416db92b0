package search

import "strings"

// airportCodes maps lowercase city and airport names to IATA codes. The
// upstream flight API only understands IATA codes, so free-text origin and
// destination input is resolved here before any provider call.
var airportCodes = map[string]string{
	"accra":  "ACC",
	"kotoka": "ACC",
	"acc":    "ACC",

	"new york":      "JFK",
	"jfk":           "JFK",
	"los angeles":   "LAX",
	"lax":           "LAX",
	"chicago":       "ORD",
	"ord":           "ORD",
	"miami":         "MIA",
	"mia":           "MIA",
	"san francisco": "SFO",
	"sfo":           "SFO",
	"boston":        "BOS",
	"bos":           "BOS",
	"atlanta":       "ATL",
	"atl":           "ATL",
	"washington":    "IAD",
	"iad":           "IAD",

	"london":   "LHR",
	"heathrow": "LHR",
	"lhr":      "LHR",
	"gatwick":  "LGW",
	"lgw":      "LGW",

	"dubai":     "DXB",
	"dxb":       "DXB",
	"abu dhabi": "AUH",
	"auh":       "AUH",

	"paris":             "CDG",
	"charles de gaulle": "CDG",
	"cdg":               "CDG",

	"frankfurt": "FRA",
	"fra":       "FRA",
	"munich":    "MUC",
	"muc":       "MUC",
	"berlin":    "BER",
	"ber":       "BER",

	"amsterdam": "AMS",
	"ams":       "AMS",

	"madrid":    "MAD",
	"mad":       "MAD",
	"barcelona": "BCN",
	"bcn":       "BCN",

	"rome":  "FCO",
	"fco":   "FCO",
	"milan": "MXP",
	"mxp":   "MXP",
}

// ResolveAirportCode converts a city or airport name to its IATA code.
// Unrecognized input is uppercased and passed through so callers can still
// search by codes the static table does not know.
func ResolveAirportCode(query string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if code, ok := airportCodes[normalized]; ok {
		return code
	}
	return strings.ToUpper(strings.TrimSpace(query))
}
