package geoip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenMissingDatabaseFails(t *testing.T) {
	_, err := Open("/nonexistent/GeoLite2-City.mmdb")
	assert.Error(t, err)
}
