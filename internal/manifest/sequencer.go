package manifest

import "strings"

// noPickupSentinels are the manifest values meaning "no pickup leg",
// compared after trimming and upper-casing.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var noPickupSentinels = map[string]bool{
	"":          true,
	"NO PICKUP": true,
	"N/A":       true,
	"NA":        true,
	"NONE":      true,
}

// IsNoPickup reports whether the pickup field holds one of the sentinel
// values that mean the shipment has no collection leg.
func IsNoPickup(pickupFrom string) bool {
	return noPickupSentinels[strings.ToUpper(strings.TrimSpace(pickupFrom))]
}

// Sequence completes a record's journey around its base transport legs:
// a TRUCK leg from the pickup address to the origin facility is
// prepended unless the pickup field is a no-pickup sentinel, a TRUCK
// leg from the destination facility to the delivery address is always
// appended, and sector indices are renumbered contiguously from 1.
func Sequence(rec *ShipmentRecord) {
	if !IsNoPickup(rec.PickupFrom) {
		pickup := Sector{
			Mode: ModeTruck,
			From: rec.PickupFrom,
			To:   transferPoint(rec.TransportType, rec.Origin),
		}
		rec.Sectors = append([]Sector{pickup}, rec.Sectors...)
	}

	rec.Sectors = append(rec.Sectors, Sector{
		Mode: ModeTruck,
		From: transferPoint(rec.TransportType, rec.Destination),
		To:   rec.DeliveryTo,
	})

	for i := range rec.Sectors {
		rec.Sectors[i].Index = i + 1
	}
}

// transferPoint names the facility where cargo changes between road and
// the main transport mode, e.g. "Zurich airport". Sea and unknown
// shipments both use the seaport suffix.
func transferPoint(t TransportType, location string) string {
	if t == TransportAir {
		return location + " airport"
	}
	return location + " seaport"
}
