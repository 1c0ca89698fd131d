package format

import (
	"fmt"
	"math"
	"strconv"

	"github.com/secmon-lab/civicsnap/pkg/domain/model"
)

const earthRadiusKm = 6371.0

// Default map center (New Delhi) used when there is nothing to center on
const (
	DefaultCenterLat = 28.7041
	DefaultCenterLng = 77.1025
)

// MaxMapMarkers is the number of issues plotted on the map view
const MaxMapMarkers = 10

// Haversine returns the great circle distance in kilometers
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// CalculateDistance returns the haversine distance in km with two decimals
func CalculateDistance(lat1, lon1, lat2, lon2 float64) string {
	return fmt.Sprintf("%.2f", Haversine(lat1, lon1, lat2, lon2))
}

// FormatDistance renders km as meters below one kilometer
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%.0f meters", km*1000)
	}
	return strconv.FormatFloat(km, 'f', -1, 64) + " km"
}

// MapCenter averages the coordinates of the given issues. Issues without
// a point are ignored; with none left the default center is returned.
func MapCenter(issues []*model.Issue) (lat, lng float64) {
	var n int
	for _, issue := range issues {
		if issue == nil || !issue.Location.HasCoordinates() {
			continue
		}
		lat += issue.Location.Latitude()
		lng += issue.Location.Longitude()
		n++
	}

	if n == 0 {
		return DefaultCenterLat, DefaultCenterLng
	}
	return lat / float64(n), lng / float64(n)
}

// MapMarkers returns the issues plotted on the map
func MapMarkers(issues []*model.Issue) []*model.Issue {
	if len(issues) <= MaxMapMarkers {
		return issues
	}
	return issues[:MaxMapMarkers]
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
