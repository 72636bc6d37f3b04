// Package e2e drives a running practiceadmin server through Gherkin
// scenarios. Point E2E_BASE_URL at the server before running go test.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TestContext carries one scenario's HTTP state.
type TestContext struct {
	BaseURL    string
	HTTPClient *http.Client

	token      string
	lastStatus int
	lastBody   []byte
}

func NewTestContext(baseURL string) *TestContext {
	return &TestContext{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Reset clears the session and last response between scenarios.
func (tc *TestContext) Reset() {
	tc.token = ""
	tc.lastStatus = 0
	tc.lastBody = nil
}

func (tc *TestContext) GET(path string) error { return tc.do(http.MethodGet, path, nil, tc.token) }
func (tc *TestContext) POST(path string, body any) error {
	return tc.do(http.MethodPost, path, body, tc.token)
}
func (tc *TestContext) PUT(path string, body any) error {
	return tc.do(http.MethodPut, path, body, tc.token)
}
func (tc *TestContext) DELETE(path string) error {
	return tc.do(http.MethodDelete, path, nil, tc.token)
}
func (tc *TestContext) GETWithToken(path, token string) error {
	return tc.do(http.MethodGet, path, nil, token)
}

func (tc *TestContext) do(method, path string, body any, token string) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, tc.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) StatusCode() int { return tc.lastStatus }

func (tc *TestContext) Body() []byte { return tc.lastBody }

// ResponseField reads a top-level field of the last JSON response.
func (tc *TestContext) ResponseField(field string) (any, error) {
	var body map[string]any
	if err := json.Unmarshal(tc.lastBody, &body); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}
	v, ok := body[field]
	if !ok {
		return nil, fmt.Errorf("field %q not in response: %s", field, tc.lastBody)
	}
	return v, nil
}

func (tc *TestContext) AccessToken() string { return tc.token }

func (tc *TestContext) SetAccessToken(token string) { tc.token = token }
