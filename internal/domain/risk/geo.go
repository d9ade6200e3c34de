package risk

import (
	"math"
	"time"
)

const earthRadiusKM = 6371.0

// DistanceKM returns the great-circle distance in kilometers between two
// coordinates via the Haversine formula. Symmetric, and zero for a point
// against itself.
func DistanceKM(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dLat := rlat2 - rlat1
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	d := earthRadiusKM * c
	if d < 0 {
		return 0
	}
	return d
}

// HourOfDay returns t's UTC hour in [0,23].
func HourOfDay(t time.Time) int {
	return t.UTC().Hour()
}

// DayOfWeek returns t's ISO weekday index with Monday = 0 ... Sunday = 6.
func DayOfWeek(t time.Time) int {
	wd := int(t.UTC().Weekday()) // Sunday = 0 .. Saturday = 6
	return (wd + 6) % 7
}

// DeviationRatio is |current-avg|/avg. It has no variance term, so it
// is not a z-score; diagnostics report it as d.
func DeviationRatio(current, avg float64) float64 {
	if avg == 0 {
		return 0
	}
	return math.Abs(current-avg) / avg
}

// Clip01 bounds x to the closed interval [0,1].
func Clip01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
