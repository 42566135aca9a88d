package geo

import "strings"

// FacilityTable maps known airport and seaport codes to coordinates.
// Keys are IATA codes ("ZRH") or 5-character UN/LOCODEs ("CNSHA").
type FacilityTable map[string]Coordinates

// DefaultFacilities returns the built-in table of facilities seen in
// the manifests this service handles: the major airports plus the
// container ports of the Asia-Europe trade lanes.
func DefaultFacilities() FacilityTable {
	return FacilityTable{
		// Airports (IATA).
		"ZRH": {Lat: 47.458056, Lon: 8.548056},   // Zurich
		"JFK": {Lat: 40.641311, Lon: -73.778139}, // New York JFK
		"SIN": {Lat: 1.364420, Lon: 103.991531},  // Singapore Changi
		"DXB": {Lat: 25.253174, Lon: 55.365673},  // Dubai International
		"ICN": {Lat: 37.460190, Lon: 126.440696}, // Incheon

		// Seaports (UN/LOCODE).
		"CNSHA": {Lat: 31.2304, Lon: 121.4737}, // Shanghai
		"CNZOS": {Lat: 30.0440, Lon: 122.1391}, // Zhoushan
		"CNSZX": {Lat: 22.5350, Lon: 113.9400}, // Shenzhen
		"CNTAO": {Lat: 36.0831, Lon: 120.3859}, // Qingdao
		"CNCAN": {Lat: 23.1096, Lon: 113.3246}, // Guangzhou
		"KRPUS": {Lat: 35.1036, Lon: 129.0400}, // Busan
		"CNTSN": {Lat: 39.0860, Lon: 117.2179}, // Tianjin
		"HKHKG": {Lat: 22.3080, Lon: 114.2000}, // Hong Kong
		"NLRTM": {Lat: 51.9470, Lon: 4.1367},   // Rotterdam
		"PHMNS": {Lat: 14.5833, Lon: 120.9667}, // Manila South Harbor
		"PKKHI": {Lat: 24.8100, Lon: 66.9700},  // Karachi
	}
}

// Lookup resolves a facility code against the table. The code is
// upper-cased and stripped of spaces first. A 5-character UN/LOCODE
// also matches through its trailing 3 characters, so "SGSIN" finds the
// "SIN" entry.
func (t FacilityTable) Lookup(code string) (Coordinates, bool) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(code), " ", ""))
	if norm == "" {
		return Coordinates{}, false
	}

	if coords, ok := t[norm]; ok {
		return coords, true
	}
	if isUNLocode(norm) {
		if coords, ok := t[norm[2:]]; ok {
			return coords, true
		}
	}
	return Coordinates{}, false
}

// isUNLocode reports whether norm has the UN/LOCODE shape: a two-letter
// country followed by a three-character location code.
func isUNLocode(norm string) bool {
	if len(norm) != 5 {
		return false
	}
	for _, r := range norm[:2] {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	for _, r := range norm[2:] {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
