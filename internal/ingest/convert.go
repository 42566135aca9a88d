package ingest

import (
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/manifest"
)

// ToShipments converts workbook records into sequenced shipment records.
// Excel manifests carry no pickup address, so the resulting shipments
// never get a collection leg. Flight segments become AIR sectors between
// their stated endpoints, and the "Delivery To" notes become the final
// road destination.
func ToShipments(records []Record) []manifest.ShipmentRecord {
	shipments := make([]manifest.ShipmentRecord, 0, len(records))
	for _, record := range records {
		shipment := manifest.ShipmentRecord{
			Reference:     record.Reference,
			Origin:        record.Origin,
			Destination:   record.Destination,
			DeliveryTo:    record.Notes,
			TransportType: manifest.ClassifyReference(record.Reference),
		}
		for _, segment := range record.Segments {
			shipment.Sectors = append(shipment.Sectors, manifest.Sector{
				Mode:            manifest.ModeAir,
				From:            segment.From,
				To:              segment.To,
				TransportNumber: segment.FlightNumber,
				TransportDate:   segment.FlightDate,
			})
		}
		manifest.Sequence(&shipment)
		shipments = append(shipments, shipment)
	}
	return shipments
}
