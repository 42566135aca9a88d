// Package manifest parses tab-separated logistics manifest text into
// shipment records and expands each record's transport legs into an
// ordered sector sequence.
package manifest

import "strings"

// TransportType is the main transport category of a shipment, derived
// from its reference prefix.
type TransportType string

// Transport types recognized in shipment references.
const (
	// TransportAir marks air freight shipments ("A..." references).
	TransportAir TransportType = "AIR"
	// TransportSea marks sea freight shipments ("S..." references).
	TransportSea TransportType = "SEA"
	// TransportUnknown marks shipments whose reference matches neither
	// prefix. Such shipments carry only road legs.
	TransportUnknown TransportType = "UNKNOWN"
)

// IsValid reports whether t is one of the recognized transport types.
func (t TransportType) IsValid() bool {
	switch t {
	case TransportAir, TransportSea, TransportUnknown:
		return true
	}
	return false
}

// ClassifyReference maps a shipment reference prefix to its transport
// type: "A" is air, "S" is sea, anything else is unknown. The match is
// case-sensitive because references are upper-case by convention.
func ClassifyReference(reference string) TransportType {
	switch {
	case strings.HasPrefix(reference, "A"):
		return TransportAir
	case strings.HasPrefix(reference, "S"):
		return TransportSea
	default:
		return TransportUnknown
	}
}

// Mode is the transport mode of a single sector.
type Mode string

// Sector transport modes.
const (
	ModeAir   Mode = "AIR"
	ModeSea   Mode = "SEA"
	ModeTruck Mode = "TRUCK"
)

// IsValid reports whether m is one of the known sector modes.
func (m Mode) IsValid() bool {
	switch m {
	case ModeAir, ModeSea, ModeTruck:
		return true
	}
	return false
}

// Sector is one leg of a shipment's journey.
type Sector struct {
	// Index is the 1-based position of this leg within the shipment.
	Index int `json:"index"`
	// Mode is the transport mode of the leg.
	Mode Mode `json:"mode"`
	// From and To are free-form location strings as they appear in the
	// manifest (facility codes, addresses, or synthesized transfer
	// points such as "Zurich airport").
	From string `json:"from"`
	To   string `json:"to"`
	// TransportNumber is the flight or vessel identifier, when known.
	TransportNumber string `json:"transport_number,omitempty"`
	// TransportDate is the raw date token from the manifest, in
	// D/M/YYYY form. It is carried verbatim, never parsed.
	TransportDate string `json:"transport_date,omitempty"`
	// DistanceKM is the great-circle leg distance, populated by the
	// resolver. nil means one or both endpoints could not be resolved.
	DistanceKM *float64 `json:"distance_km"`
}

// ShipmentRecord is one parsed manifest line with its expanded sectors.
type ShipmentRecord struct {
	Reference     string        `json:"reference"`
	PickupFrom    string        `json:"pickup_from"`
	Origin        string        `json:"origin"`
	Destination   string        `json:"destination"`
	DeliveryTo    string        `json:"delivery_to"`
	TransportType TransportType `json:"transport_type"`
	Sectors       []Sector      `json:"sectors"`
}

// ParseResult is the outcome of parsing one manifest text.
type ParseResult struct {
	// Shipments holds the successfully parsed records, in input order.
	Shipments []ShipmentRecord `json:"shipments"`
	// Skipped counts logical lines dropped as malformed.
	Skipped int `json:"skipped"`
	// Notes carries one diagnostic per skipped line.
	Notes []string `json:"notes,omitempty"`
}
