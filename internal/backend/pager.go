package backend

import (
	"context"
	"fmt"

	"panel-dashboard/internal/models"
	"panel-dashboard/internal/panels"
	"panel-dashboard/internal/tickets"
)

const (
	DefaultPanelPageSize = 500
	// maxPanelPages stops a runaway loop against an API that never
	// returns a short page.
	maxPanelPages = 200
)

type PanelLister interface {
	ListPanels(ctx context.Context, q PanelQuery) ([]models.Panel, error)
}

// AllPanels walks /api/panel-docs page by page. The first page sets the
// effective page size, since the API may cap what was asked for; a
// shorter or empty page ends the walk. A page that repeats the previous
// one means the API ignores paging and is dropped.
func AllPanels(ctx context.Context, api PanelLister, q PanelQuery) ([]models.Panel, error) {
	if q.PageSize <= 0 {
		q.PageSize = DefaultPanelPageSize
	}
	var (
		all  []models.Panel
		size int
		prev []models.Panel
	)
	for page := 1; page <= maxPanelPages; page++ {
		q.Page = page
		batch, err := api.ListPanels(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("panels page %d: %w", page, err)
		}
		if len(batch) == 0 || samePage(prev, batch) {
			break
		}
		all = append(all, batch...)
		if page == 1 {
			size = len(batch)
		} else if len(batch) < size {
			break
		}
		prev = batch
	}
	return all, nil
}

func samePage(a, b []models.Panel) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	return panelKey(a[0]) == panelKey(b[0]) && panelKey(a[len(a)-1]) == panelKey(b[len(b)-1])
}

func panelKey(p models.Panel) string {
	return p.ViewerID + "|" + p.BusStopCode + "|" + p.PanelType
}

type OverviewSource interface {
	PanelLister
	ListTickets(ctx context.Context) ([]models.Ticket, error)
}

// Overview is the home page summary.
type Overview struct {
	Summary panels.Summary      `json:"summary"`
	Reports tickets.FaultCounts `json:"reports"`
}

func LoadOverview(ctx context.Context, api OverviewSource) (Overview, error) {
	list, err := AllPanels(ctx, api, PanelQuery{})
	if err != nil {
		return Overview{}, err
	}
	ts, err := api.ListTickets(ctx)
	if err != nil {
		return Overview{}, err
	}
	return Overview{
		Summary: panels.Aggregate(list),
		Reports: tickets.CountFaultTypes(ts),
	}, nil
}
