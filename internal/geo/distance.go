package geo

import (
	"context"
	"math"
)

// earthRadiusKM is the mean Earth radius used for great-circle math.
const earthRadiusKM = 6371.0

// HaversineKM returns the great-circle distance between two points in
// kilometers, rounded to one decimal place.
func HaversineKM(a, b Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	d := 2 * earthRadiusKM * math.Asin(math.Sqrt(h))

	return math.Round(d*10) / 10
}

// LegDistanceKM resolves both endpoints of a leg and returns their
// great-circle distance. nil means at least one endpoint could not be
// resolved; callers treat that as "distance unavailable".
func (r *Resolver) LegDistanceKM(ctx context.Context, from, to string) *float64 {
	a, errA := r.Resolve(ctx, from)
	b, errB := r.Resolve(ctx, to)
	if errA != nil || errB != nil {
		return nil
	}
	d := HaversineKM(a, b)
	return &d
}
