package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"

	"github.com/cucumber/godog"
)

type TestContext interface {
	GET(path string) error
	POST(path string, body any) error
	DELETE(path string) error
	Body() []byte
}

// RegisterSteps registers location table step definitions.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &locationSteps{tc: tc}

	ctx.Step(`^I create a location "([^"]*)" in "([^"]*)", "([^"]*)" of type "([^"]*)"$`, steps.create)
	ctx.Step(`^I delete the location in "([^"]*)", "([^"]*)"$`, steps.delete)
	ctx.Step(`^I list locations grouped by "([^"]*)" matching "([^"]*)"$`, steps.list)
	ctx.Step(`^the groups should be "([^"]*)"$`, steps.groupsShouldBe)
	ctx.Step(`^group "([^"]*)" should list "([^"]*)"$`, steps.groupShouldList)
}

type locationSteps struct {
	tc TestContext
}

type viewResponse struct {
	Groups []struct {
		Label     string `json:"label"`
		Locations []struct {
			OfficeName string `json:"officeName"`
		} `json:"locations"`
	} `json:"groups"`
}

func (s *locationSteps) create(_ context.Context, office, city, state, kind string) error {
	return s.tc.POST("/locations", map[string]string{
		"officeName": office,
		"city":       city,
		"state":      state,
		"type":       kind,
	})
}

func (s *locationSteps) delete(_ context.Context, city, state string) error {
	return s.tc.DELETE("/locations/" + url.PathEscape(city) + "/" + url.PathEscape(state))
}

func (s *locationSteps) list(_ context.Context, group, search string) error {
	q := url.Values{"group": {group}, "search": {search}}
	return s.tc.GET("/locations?" + q.Encode())
}

func (s *locationSteps) view() (viewResponse, error) {
	var v viewResponse
	if err := json.Unmarshal(s.tc.Body(), &v); err != nil {
		return v, fmt.Errorf("decode view: %w: %s", err, s.tc.Body())
	}
	return v, nil
}

func (s *locationSteps) groupsShouldBe(_ context.Context, want string) error {
	v, err := s.view()
	if err != nil {
		return err
	}
	labels := make([]string, 0, len(v.Groups))
	for _, g := range v.Groups {
		labels = append(labels, g.Label)
	}
	if got := fmt.Sprint(labels); got != "["+want+"]" {
		return fmt.Errorf("expected groups [%s], got %s", want, got)
	}
	return nil
}

func (s *locationSteps) groupShouldList(_ context.Context, label, office string) error {
	v, err := s.view()
	if err != nil {
		return err
	}
	for _, g := range v.Groups {
		if g.Label != label {
			continue
		}
		names := make([]string, 0, len(g.Locations))
		for _, l := range g.Locations {
			names = append(names, l.OfficeName)
		}
		if slices.Contains(names, office) {
			return nil
		}
		return fmt.Errorf("group %q lists %v, want %q", label, names, office)
	}
	return fmt.Errorf("no group %q", label)
}
