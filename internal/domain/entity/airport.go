package entity

// Airport is reference information for an IATA airport code
type Airport struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	CityCode string `json:"city_code"`
	CityName string `json:"city_name"`
	GmtTz    string `json:"gmt_tz"`
	TzName   string `json:"tz_name"`
}

// RouteDescription is a route with the airports behind its three codes.
// Codes with no reference entry are listed in Unknown.
type RouteDescription struct {
	Route     Route    `json:"route"`
	Departure *Airport `json:"departure,omitempty"`
	Arrival   *Airport `json:"arrival,omitempty"`
	Return    *Airport `json:"return,omitempty"`
	Unknown   []string `json:"unknown,omitempty"`
}
