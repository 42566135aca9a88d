package geo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/aureliashabi/A21-Carbon-Calculator/internal/logging"
)

// Strategy is one tier of the resolution chain. A strategy returns
// ErrNoMatch when the location is not its kind of string; any other
// error also just advances the chain.
type Strategy interface {
	// Name identifies the tier in log output.
	Name() string
	// Resolve attempts to locate the (already trimmed) location.
	Resolve(ctx context.Context, location string) (Coordinates, error)
}

// Resolver turns raw manifest location strings into coordinates by
// walking an ordered strategy chain. Successful results are memoized in
// the injected cache under the exact input string; concurrent requests
// for the same string share one underlying lookup.
type Resolver struct {
	cache      Cache
	strategies []Strategy
	group      singleflight.Group
}

// NewResolver builds a Resolver over cache and the given strategies,
// tried in order.
func NewResolver(cache Cache, strategies ...Strategy) *Resolver {
	return &Resolver{
		cache:      cache,
		strategies: strategies,
	}
}

// DefaultStrategies returns the standard chain: static facility table,
// facility-keyword extraction, free-text geocoding, postal-code
// geocoding.
func DefaultStrategies(table FacilityTable, geocoder Geocoder) []Strategy {
	return []Strategy{
		&FacilityStrategy{Table: table},
		&KeywordStrategy{Table: table, Geocoder: geocoder},
		&FreeTextStrategy{Geocoder: geocoder},
		&PostalStrategy{Geocoder: geocoder},
	}
}

// Resolve locates a raw manifest location string. It returns
// ErrUnresolved when every tier misses; that outcome is never cached,
// so a later batch may retry. Cancellation of ctx surfaces through the
// underlying provider calls.
func (r *Resolver) Resolve(ctx context.Context, location string) (Coordinates, error) {
	trimmed := strings.TrimSpace(location)
	if trimmed == "" {
		return Coordinates{}, fmt.Errorf("empty location: %w", ErrUnresolved)
	}

	if coords, ok := r.cache.Get(location); ok {
		return coords, nil
	}

	v, err, _ := r.group.Do(location, func() (interface{}, error) {
		// A concurrent caller may have filled the cache while this
		// call waited on the flight group.
		if coords, ok := r.cache.Get(location); ok {
			return coords, nil
		}
		coords, err := r.walk(ctx, trimmed)
		if err != nil {
			return Coordinates{}, err
		}
		r.cache.Put(location, coords)
		return coords, nil
	})
	if err != nil {
		return Coordinates{}, err
	}
	return v.(Coordinates), nil
}

// walk tries each strategy in order until one resolves the location.
func (r *Resolver) walk(ctx context.Context, location string) (Coordinates, error) {
	log := logging.ComponentLogger(logging.FromContext(ctx), "geo")

	for _, s := range r.strategies {
		coords, err := s.Resolve(ctx, location)
		if err == nil {
			log.Debug().Str("tier", s.Name()).Str("location", location).
				Float64("lat", coords.Lat).Float64("lon", coords.Lon).Msg("location resolved")
			return coords, nil
		}
		if !errors.Is(err, ErrNoMatch) {
			log.Warn().Str("tier", s.Name()).Str("location", location).Err(err).
				Msg("resolution tier failed")
		}
	}

	log.Warn().Str("location", location).Msg("could not geocode location")
	return Coordinates{}, fmt.Errorf("resolving %q: %w", location, ErrUnresolved)
}

// FacilityStrategy matches location strings that are facility codes:
// either a 5-character UN/LOCODE or a bare 3-5 letter airport code.
type FacilityStrategy struct {
	Table FacilityTable
}

// Name implements Strategy.
func (s *FacilityStrategy) Name() string { return "facility-table" }

// Resolve implements Strategy.
func (s *FacilityStrategy) Resolve(_ context.Context, location string) (Coordinates, error) {
	if coords, ok := s.Table.Lookup(location); ok {
		return coords, nil
	}
	return Coordinates{}, ErrNoMatch
}

// facilityCode extracts a 3-5 letter code immediately preceding a
// facility keyword, as in "KRICN airport" or "PHMNS seaport".
var facilityCode = regexp.MustCompile(`(?i)\b([A-Za-z]{3,5})\s+(?:airport|seaport|port)\b`)

// KeywordStrategy handles synthesized transfer-point strings such as
// "SGSIN airport": it extracts the embedded code, retries the facility
// table with it, and falls back to geocoding "<code> airport".
type KeywordStrategy struct {
	Table    FacilityTable
	Geocoder Geocoder
}

// Name implements Strategy.
func (s *KeywordStrategy) Name() string { return "facility-keyword" }

// Resolve implements Strategy.
func (s *KeywordStrategy) Resolve(ctx context.Context, location string) (Coordinates, error) {
	m := facilityCode.FindStringSubmatch(location)
	if m == nil {
		return Coordinates{}, ErrNoMatch
	}

	code := strings.ToUpper(m[1])
	if coords, ok := s.Table.Lookup(code); ok {
		return coords, nil
	}
	return s.Geocoder.Geocode(ctx, code+" airport")
}

// FreeTextStrategy geocodes the whole location string as-is.
type FreeTextStrategy struct {
	Geocoder Geocoder
}

// Name implements Strategy.
func (s *FreeTextStrategy) Name() string { return "free-text" }

// Resolve implements Strategy.
func (s *FreeTextStrategy) Resolve(ctx context.Context, location string) (Coordinates, error) {
	return s.Geocoder.Geocode(ctx, location)
}

var (
	// sixDigitPostal matches Singapore-style 6-digit postal codes.
	sixDigitPostal = regexp.MustCompile(`\b(\d{6})\b`)
	// usZip matches 5-digit US ZIP codes with an optional +4 suffix.
	usZip = regexp.MustCompile(`\b(\d{5}(?:-\d{4})?)\b`)
)

// PostalStrategy is the last resort before giving up: it extracts a
// postal-code token from an address and geocodes just that token.
type PostalStrategy struct {
	Geocoder Geocoder
}

// Name implements Strategy.
func (s *PostalStrategy) Name() string { return "postal-code" }

// Resolve implements Strategy. Six-digit codes are preferred over ZIP
// codes because every 6-digit hit would otherwise also match the
// 5-digit pattern.
func (s *PostalStrategy) Resolve(ctx context.Context, location string) (Coordinates, error) {
	if m := sixDigitPostal.FindStringSubmatch(location); m != nil {
		if coords, err := s.Geocoder.Geocode(ctx, m[1]); err == nil {
			return coords, nil
		}
	}
	if m := usZip.FindStringSubmatch(location); m != nil {
		return s.Geocoder.Geocode(ctx, m[1])
	}
	return Coordinates{}, ErrNoMatch
}
