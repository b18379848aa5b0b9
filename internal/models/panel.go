package models

import (
	"encoding/json"
	"log"
	"strconv"
	"strings"
)

// Panel is one row of the panel documents collection. The collection was
// imported from a spreadsheet, so both the spreadsheet headers and
// camelCase keys occur in the wild.
type Panel struct {
	ViewerID    string   `json:"viewerId"`
	PanelType   string   `json:"panelType"`
	BusStopCode string   `json:"busStopCode"`
	Location    string   `json:"location"`
	RoadName    string   `json:"roadName,omitempty"`
	Description string   `json:"description,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

var panelKeys = map[string][]string{
	"viewer":      {"Viewer ID", "viewerId", "viewer_id", "ViewerID"},
	"type":        {"Panel Type", "panelType", "panel_type", "type", "Type"},
	"busStop":     {"Bus Stop Code", "busStopCode", "bus_stop_code"},
	"location":    {"Location", "location"},
	"road":        {"Road Name", "roadName", "road_name"},
	"description": {"Description", "description"},
	"lat":         {"Latitude", "latitude", "lat"},
	"lng":         {"Longitude", "longitude", "lng", "lon"},
}

func (p *Panel) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	text := func(key string) string {
		for _, k := range panelKeys[key] {
			if v, ok := raw[k]; ok {
				var f FlexString
				if err := f.UnmarshalJSON(v); err == nil {
					return strings.TrimSpace(string(f))
				}
			}
		}
		return ""
	}
	// A cell that is not a number ("N/A", "TBC") counts as no coordinate;
	// the rest of the row is still usable.
	coord := func(key string) *float64 {
		s := text(key)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			log.Printf("[panels] viewer %q: ignoring %s %q: %v", text("viewer"), key, s, err)
			return nil
		}
		return &f
	}

	*p = Panel{
		ViewerID:    text("viewer"),
		PanelType:   text("type"),
		BusStopCode: text("busStop"),
		Location:    text("location"),
		RoadName:    text("road"),
		Description: text("description"),
		Latitude:    coord("lat"),
		Longitude:   coord("lng"),
	}
	return nil
}

func (p Panel) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}
