package auth

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

type TestContext interface {
	POST(path string, body any) error
	GETWithToken(path, token string) error
	ResponseField(field string) (any, error)
	AccessToken() string
	SetAccessToken(token string)
}

// RegisterSteps registers sign-in and session step definitions.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &authSteps{tc: tc}

	ctx.Step(`^I sign in as "([^"]*)" with password "([^"]*)"$`, steps.signIn)
	ctx.Step(`^I am signed in as "([^"]*)" with password "([^"]*)"$`, steps.signedIn)
	ctx.Step(`^I save the session token$`, steps.saveToken)
	ctx.Step(`^I sign out$`, steps.signOut)
	ctx.Step(`^I GET "([^"]*)" with the old token$`, steps.getWithOldToken)
	ctx.Step(`^I GET "([^"]*)" with invalid token "([^"]*)"$`, steps.getWithToken)
}

type authSteps struct {
	tc       TestContext
	oldToken string
}

func (s *authSteps) signIn(_ context.Context, email, password string) error {
	return s.tc.POST("/auth/sign-in", map[string]string{"email": email, "password": password})
}

func (s *authSteps) signedIn(ctx context.Context, email, password string) error {
	if err := s.signIn(ctx, email, password); err != nil {
		return err
	}
	return s.saveToken(ctx)
}

func (s *authSteps) saveToken(_ context.Context) error {
	v, err := s.tc.ResponseField("token")
	if err != nil {
		return err
	}
	token, ok := v.(string)
	if !ok || token == "" {
		return fmt.Errorf("token is not a string: %v", v)
	}
	s.tc.SetAccessToken(token)
	return nil
}

func (s *authSteps) signOut(_ context.Context) error {
	s.oldToken = s.tc.AccessToken()
	return s.tc.POST("/auth/sign-out", nil)
}

func (s *authSteps) getWithOldToken(_ context.Context, path string) error {
	return s.tc.GETWithToken(path, s.oldToken)
}

func (s *authSteps) getWithToken(_ context.Context, path, token string) error {
	return s.tc.GETWithToken(path, token)
}
