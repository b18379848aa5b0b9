package panels

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"panel-dashboard/internal/models"
)

// Half-width of the embedded map's bounding box, in degrees.
const mapPadding = 0.002

type Navigation struct {
	GoogleMaps string `json:"googleMaps"`
	Waze       string `json:"waze"`
	MapEmbed   string `json:"mapEmbed"`
}

// coord prints at most six decimals (about 10cm), without trailing zeros.
func coord(f float64) string {
	s := strconv.FormatFloat(f, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// NavigationFor builds directions links for the panel's coordinates. ok
// is false when the panel has no coordinates.
func NavigationFor(p models.Panel) (Navigation, bool) {
	if !p.HasCoordinates() {
		return Navigation{}, false
	}
	lat, lng := *p.Latitude, *p.Longitude
	ll := coord(lat) + "," + coord(lng)

	gmaps := url.URL{Scheme: "https", Host: "www.google.com", Path: "/maps/dir/"}
	gq := url.Values{}
	gq.Set("api", "1")
	gq.Set("destination", ll)
	gmaps.RawQuery = gq.Encode()

	waze := url.URL{Scheme: "https", Host: "waze.com", Path: "/ul"}
	wq := url.Values{}
	wq.Set("ll", ll)
	wq.Set("navigate", "yes")
	waze.RawQuery = wq.Encode()

	bbox := fmt.Sprintf("%s,%s,%s,%s",
		coord(lng-mapPadding), coord(lat-mapPadding), coord(lng+mapPadding), coord(lat+mapPadding))
	osm := url.URL{Scheme: "https", Host: "www.openstreetmap.org", Path: "/export/embed.html"}
	oq := url.Values{}
	oq.Set("bbox", bbox)
	oq.Set("layer", "mapnik")
	oq.Set("marker", ll)
	osm.RawQuery = oq.Encode()

	return Navigation{
		GoogleMaps: gmaps.String(),
		Waze:       waze.String(),
		MapEmbed:   osm.String(),
	}, true
}
