// Package geoip resolves an IP address to a country/city pair from a
// MaxMind GeoIP2 database, backing the rule engine's optional
// geolocation enrichment for transactions submitted without a country.
package geoip

import (
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
	"github.com/oschwald/maxminddb-golang"
)

// Resolver looks up city records in an mmdb file. Lookups go through
// maxminddb directly, decoding the full geoip2 City model, of which only
// the country ISO code and English city name are returned.
type Resolver struct {
	reader *maxminddb.Reader
}

// Open opens the database at path. The file stays mapped until Close.
func Open(path string) (*Resolver, error) {
	reader, err := maxminddb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip database %s: %w", path, err)
	}
	return &Resolver{reader: reader}, nil
}

// Resolve implements rules.GeoResolver: it returns the ISO country code
// and English city name for the given IP address.
func (r *Resolver) Resolve(ip string) (country, city string, err error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "", "", fmt.Errorf("invalid ip address %q", ip)
	}

	var record geoip2.City
	if err := r.reader.Lookup(parsed, &record); err != nil {
		return "", "", fmt.Errorf("geoip lookup for %s: %w", ip, err)
	}
	return record.Country.IsoCode, record.City.Names["en"], nil
}

// DatabaseType reports the mmdb's self-declared type, e.g. "GeoLite2-City".
func (r *Resolver) DatabaseType() string {
	return r.reader.Metadata.DatabaseType
}

// Close unmaps the database file.
func (r *Resolver) Close() error {
	return r.reader.Close()
}
