package e2e

import (
	"github.com/cucumber/godog"

	"practiceadmin/e2e/steps/auth"
	"practiceadmin/e2e/steps/common"
	"practiceadmin/e2e/steps/location"
)

// RegisterSteps registers all step definitions from the step packages.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	auth.RegisterSteps(ctx, tc)
	location.RegisterSteps(ctx, tc)
}
