package panels

import (
	"strings"

	"panel-dashboard/internal/models"
)

type Summary struct {
	TotalPanels   int `json:"totalPanels"`
	TotalScreens  int `json:"totalScreens"`
	DigitalPanels int `json:"digitalPanels"`
	HybridPanels  int `json:"hybridPanels"`
}

// Screens per panel type. A digital panel carries two screens, a hybrid
// one; unknown types carry none.
const (
	digitalScreens = 2
	hybridScreens  = 1
)

// Aggregate counts panels with a viewer ID. Panels without one are not
// installed yet and are left out of every count.
func Aggregate(panels []models.Panel) Summary {
	var s Summary
	for _, p := range panels {
		if strings.TrimSpace(p.ViewerID) == "" {
			continue
		}
		s.TotalPanels++
		switch strings.ToLower(strings.TrimSpace(p.PanelType)) {
		case "digital":
			s.DigitalPanels++
			s.TotalScreens += digitalScreens
		case "hybrid":
			s.HybridPanels++
			s.TotalScreens += hybridScreens
		}
	}
	return s
}

// FindByBusStop returns the first panel whose bus stop code equals code,
// ignoring case and surrounding space.
func FindByBusStop(panels []models.Panel, code string) (models.Panel, bool) {
	code = strings.TrimSpace(code)
	for _, p := range panels {
		if strings.EqualFold(strings.TrimSpace(p.BusStopCode), code) {
			return p, true
		}
	}
	return models.Panel{}, false
}
