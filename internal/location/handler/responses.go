package handler

import (
	"practiceadmin/internal/location/models"
	"practiceadmin/internal/location/service"
	"practiceadmin/internal/tableview"
)

type locationResponse struct {
	*models.Location
	DocumentsCollected int `json:"documents_collected"`
}

type groupResponse struct {
	Label     string             `json:"label"`
	Locations []locationResponse `json:"locations"`
}

type viewResponse struct {
	Groups  []groupResponse     `json:"groups"`
	GroupBy tableview.GroupKey  `json:"group_by"`
	Sort    *tableview.SortSpec `json:"sort,omitempty"`
	Total   int                 `json:"total"`
	Matched int                 `json:"matched"`
}

type schemaResponse struct {
	Fields    []string             `json:"fields"`
	GroupKeys []tableview.GroupKey `json:"group_keys"`
	Documents []string             `json:"documents"`
}

type deleteResponse struct {
	Success bool `json:"success"`
}

func toLocationResponse(l *models.Location) locationResponse {
	return locationResponse{Location: l, DocumentsCollected: l.Documents.Collected()}
}

func toViewResponse(res *service.ViewResult, sort *tableview.SortSpec) viewResponse {
	groups := make([]groupResponse, 0, len(res.View))
	for _, g := range res.View {
		locations := make([]locationResponse, 0, len(g.Records))
		for _, l := range g.Records {
			locations = append(locations, toLocationResponse(l))
		}
		groups = append(groups, groupResponse{Label: g.Label, Locations: locations})
	}
	return viewResponse{
		Groups:  groups,
		GroupBy: res.GroupBy,
		Sort:    sort,
		Total:   res.Total,
		Matched: res.View.Len(),
	}
}
