package tickets

import (
	"strings"

	"panel-dashboard/internal/models"
)

// FaultCounts backs the software/hardware report tiles on the home page.
type FaultCounts struct {
	Software int `json:"software"`
	Hardware int `json:"hardware"`
}

func CountFaultTypes(tickets []models.Ticket) FaultCounts {
	var c FaultCounts
	for _, t := range tickets {
		switch strings.ToLower(strings.TrimSpace(t.FaultType)) {
		case "software":
			c.Software++
		case "hardware":
			c.Hardware++
		}
	}
	return c
}
