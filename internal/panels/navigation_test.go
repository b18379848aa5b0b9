package panels

import (
	"net/url"
	"testing"

	"panel-dashboard/internal/models"
)

func TestNavigationFor(t *testing.T) {
	lat, lng := 1.3, 103.8
	nav, ok := NavigationFor(models.Panel{Latitude: &lat, Longitude: &lng})
	if !ok {
		t.Fatal("expected navigation")
	}

	g, err := url.Parse(nav.GoogleMaps)
	if err != nil {
		t.Fatal(err)
	}
	if g.Host != "www.google.com" || g.Query().Get("destination") != "1.3,103.8" || g.Query().Get("api") != "1" {
		t.Errorf("google maps url = %s", nav.GoogleMaps)
	}

	w, _ := url.Parse(nav.Waze)
	if w.Query().Get("ll") != "1.3,103.8" || w.Query().Get("navigate") != "yes" {
		t.Errorf("waze url = %s", nav.Waze)
	}

	o, _ := url.Parse(nav.MapEmbed)
	if got := o.Query().Get("bbox"); got != "103.798,1.298,103.802,1.302" {
		t.Errorf("bbox = %s", got)
	}
	if o.Query().Get("marker") != "1.3,103.8" {
		t.Errorf("marker = %s", o.Query().Get("marker"))
	}
}

func TestNavigationWithoutCoordinates(t *testing.T) {
	if _, ok := NavigationFor(models.Panel{BusStopCode: "1"}); ok {
		t.Error("expected no navigation without coordinates")
	}
}
