// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/cdr-billing/backend/internal/application/adapter"
	"github.com/cdr-billing/backend/internal/application/usecase/analytics"
	"github.com/cdr-billing/backend/internal/application/usecase/category"
	"github.com/cdr-billing/backend/internal/application/usecase/classification"
	"github.com/cdr-billing/backend/internal/application/usecase/ingest"
	"github.com/cdr-billing/backend/internal/application/usecase/suggestion"
	"github.com/cdr-billing/backend/internal/infra/server/router"
	"github.com/cdr-billing/backend/internal/integration/adapters"
	"github.com/cdr-billing/backend/internal/integration/entrypoint/controller"
	"github.com/cdr-billing/backend/internal/integration/entrypoint/middleware"
	"github.com/cdr-billing/backend/internal/integration/persistence"
	"github.com/cdr-billing/backend/internal/integration/persistence/model"
	"github.com/cdr-billing/backend/test/integration/mock"
)

// Credentials every scenario authenticates with.
const (
	testAPIKey      = "integration-test-key"
	testTokenSecret = "integration-test-secret"
	testTokenIssuer = "cdr-billing"
)

// Wide rate-limit defaults so only the dedicated scenarios hit the limiter.
const (
	testRateLimitAttempts = 100
	testRateLimitWindow   = time.Minute
)

var testAPIKeyHash string

// TestContext holds the test state for each scenario.
type TestContext struct {
	// HTTP
	server       *httptest.Server
	engine       *gin.Engine
	response     *http.Response
	responseBody []byte

	// Request building
	requestHeaders map[string]string

	// Auth
	accessToken  string
	tokenService adapter.TokenService

	// Scenario-local category store on disk
	storeDir string
}

// contextKey is used to store TestContext in context.Context.
type contextKey struct{}

// GetTestContext retrieves the TestContext from context.
func GetTestContext(ctx context.Context) *TestContext {
	if tc, ok := ctx.Value(contextKey{}).(*TestContext); ok {
		return tc
	}
	return nil
}

// SetTestContext stores the TestContext in context.
func SetTestContext(ctx context.Context, tc *TestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)

		hash, err := bcrypt.GenerateFromPassword([]byte(testAPIKey), bcrypt.MinCost)
		if err != nil {
			panic("failed to hash the test api key: " + err.Error())
		}
		testAPIKeyHash = string(hash)
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc, err := newTestContext()
		if err != nil {
			return ctx, err
		}
		return SetTestContext(ctx, tc), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc := GetTestContext(ctx)
		if tc != nil {
			if tc.server != nil {
				tc.server.Close()
			}
			if tc.storeDir != "" {
				_ = os.RemoveAll(tc.storeDir)
			}
		}
		return ctx, nil
	})

	registerAPISteps(ctx)
	registerResponseSteps(ctx)
}

// newTestContext wires the full application against in-process doubles: a
// scenario-local category store on disk, the shared in-memory archive and
// an embedded redis for the token rate limiter.
func newTestContext() (*TestContext, error) {
	tc := &TestContext{
		requestHeaders: make(map[string]string),
	}

	storeDir, err := os.MkdirTemp("", "cdr-store-")
	if err != nil {
		return nil, fmt.Errorf("failed to create store dir: %w", err)
	}
	tc.storeDir = storeDir

	store, err := persistence.NewCategoryFileStore(filepath.Join(storeDir, "categories.json"), decimal.Zero, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to open category store: %w", err)
	}

	dbMock := mock.NewDb(&model.CallRecordModel{})
	if err := dbMock.ClearDB(); err != nil {
		return nil, fmt.Errorf("failed to clear archive: %w", err)
	}

	redisClient := mock.NewRedis()
	if err := mock.ClearRedis(redisClient); err != nil {
		return nil, fmt.Errorf("failed to clear redis: %w", err)
	}

	tokenService := adapters.NewTokenService(testTokenSecret, testTokenIssuer, time.Hour)
	tc.tokenService = tokenService

	recordRepo := persistence.NewCallRecordRepository(dbMock.DbConn)

	aggregateContractsUseCase := analytics.NewAggregateContractsUseCase(2)
	summarizeUseCase := analytics.NewSummarizeUseCase()
	archiveReportUseCase := analytics.NewArchiveReportUseCase(recordRepo, aggregateContractsUseCase, summarizeUseCase)

	categoryController := controller.NewCategoryController(
		category.NewListCategoriesUseCase(store),
		category.NewGetCategoryUseCase(store),
		category.NewCreateCategoryUseCase(store),
		category.NewUpdateCategoryUseCase(store),
		category.NewDeleteCategoryUseCase(store),
		category.NewReorderCategoriesUseCase(store),
		category.NewSetGlobalMarkupUseCase(store),
		category.NewResetCategoriesUseCase(store),
		category.NewCategoryStatisticsUseCase(store),
		category.NewValidateConflictsUseCase(store),
		category.NewPreviewPricingUseCase(store),
		category.NewExportCategoriesUseCase(store),
		category.NewImportCategoriesUseCase(store),
	)
	classificationController := controller.NewClassificationController(
		classification.NewClassifyCallUseCase(store),
		classification.NewTestClassificationUseCase(store),
	)
	analyticsController := controller.NewAnalyticsController(
		aggregateContractsUseCase,
		summarizeUseCase,
		archiveReportUseCase,
		nil,
	)
	recordsController := controller.NewRecordsController(ingest.NewIngestRecordsUseCase(store, recordRepo))
	suggestionController := controller.NewSuggestionController(
		suggestion.NewSuggestPatternsUseCase(store, adapters.NewGeminiService("")),
	)

	r := router.NewRouter(
		controller.NewHealthController(nil),
		controller.NewAuthController(tokenService, testAPIKeyHash),
		categoryController,
		classificationController,
		analyticsController,
		recordsController,
		suggestionController,
		middleware.NewRateLimiter(redisClient, testRateLimitAttempts, testRateLimitWindow),
		middleware.NewAuthMiddleware(tokenService),
	)

	tc.engine = r.Setup("test")
	tc.server = httptest.NewServer(tc.engine)

	return tc, nil
}

// registerAPISteps registers HTTP request steps.
func registerAPISteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the API server is running$`, theAPIServerIsRunning)
	ctx.Step(`^I am authenticated$`, iAmAuthenticated)
	ctx.Step(`^I am not authenticated$`, iAmNotAuthenticated)
	ctx.Step(`^I set header "([^"]*)" to "([^"]*)"$`, iSetHeaderTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, iSendARequestToWithBody)
	ctx.Step(`^I send (\d+) "([^"]*)" requests to "([^"]*)" with body:$`, iSendNRequestsToWithBody)
}

// registerResponseSteps registers response validation steps.
func registerResponseSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the response status should be (\d+)$`, theResponseStatusShouldBe)
	ctx.Step(`^the response should be JSON$`, theResponseShouldBeJSON)
	ctx.Step(`^the response should contain "([^"]*)"$`, theResponseShouldContain)
	ctx.Step(`^the response should not contain "([^"]*)"$`, theResponseShouldNotContain)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, theResponseFieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should exist$`, theResponseFieldShouldExist)
	ctx.Step(`^the response field "([^"]*)" should have (\d+) items$`, theResponseFieldShouldHaveItems)
}

// Step implementations

func theAPIServerIsRunning(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil || tc.server == nil {
		return fmt.Errorf("test server is not running")
	}
	return nil
}

func iAmAuthenticated(ctx context.Context) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}

	token, _, err := tc.tokenService.GenerateToken(ctx, "integration-suite")
	if err != nil {
		return ctx, fmt.Errorf("failed to issue a service token: %w", err)
	}
	tc.accessToken = token
	return SetTestContext(ctx, tc), nil
}

func iAmNotAuthenticated(ctx context.Context) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	tc.accessToken = ""
	return SetTestContext(ctx, tc), nil
}

func iSetHeaderTo(ctx context.Context, header, value string) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	tc.requestHeaders[header] = value
	return SetTestContext(ctx, tc), nil
}

func iSendARequestTo(ctx context.Context, method, endpoint string) (context.Context, error) {
	return sendRequest(ctx, method, endpoint, "")
}

func iSendARequestToWithBody(ctx context.Context, method, endpoint string, body *godog.DocString) (context.Context, error) {
	return sendRequest(ctx, method, endpoint, body.Content)
}

func iSendNRequestsToWithBody(ctx context.Context, count int, method, endpoint string, body *godog.DocString) (context.Context, error) {
	var err error
	for i := 0; i < count; i++ {
		ctx, err = sendRequest(ctx, method, endpoint, body.Content)
		if err != nil {
			return ctx, err
		}
	}
	return ctx, nil
}

func sendRequest(ctx context.Context, method, endpoint, body string) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}

	req, err := http.NewRequest(method, tc.server.URL+endpoint, reader)
	if err != nil {
		return ctx, fmt.Errorf("failed to create request: %w", err)
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range tc.requestHeaders {
		req.Header.Set(key, value)
	}
	if tc.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.accessToken)
	}

	resp, err := tc.server.Client().Do(req)
	if err != nil {
		return ctx, fmt.Errorf("failed to send request: %w", err)
	}

	tc.response = resp
	tc.responseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return ctx, fmt.Errorf("failed to read response body: %w", err)
	}

	return SetTestContext(ctx, tc), nil
}

func theResponseStatusShouldBe(ctx context.Context, expectedStatus int) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	if tc.response == nil {
		return fmt.Errorf("no response received")
	}
	if tc.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d. Body: %s", expectedStatus, tc.response.StatusCode, string(tc.responseBody))
	}
	return nil
}

func theResponseShouldBeJSON(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	var js json.RawMessage
	if err := json.Unmarshal(tc.responseBody, &js); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	return nil
}

func theResponseShouldContain(ctx context.Context, expected string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	if !strings.Contains(string(tc.responseBody), expected) {
		return fmt.Errorf("response does not contain '%s'. Body: %s", expected, string(tc.responseBody))
	}
	return nil
}

func theResponseShouldNotContain(ctx context.Context, unexpected string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	if strings.Contains(string(tc.responseBody), unexpected) {
		return fmt.Errorf("response must not contain '%s'. Body: %s", unexpected, string(tc.responseBody))
	}
	return nil
}

func theResponseFieldShouldBe(ctx context.Context, field, expected string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	value, err := lookupField(tc.responseBody, field)
	if err != nil {
		return fmt.Errorf("%w. Body: %s", err, string(tc.responseBody))
	}

	actual := fmt.Sprintf("%v", value)
	if actual != expected {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expected, actual)
	}
	return nil
}

func theResponseFieldShouldExist(ctx context.Context, field string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	if _, err := lookupField(tc.responseBody, field); err != nil {
		return fmt.Errorf("%w. Body: %s", err, string(tc.responseBody))
	}
	return nil
}

func theResponseFieldShouldHaveItems(ctx context.Context, field string, expected int) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	value, err := lookupField(tc.responseBody, field)
	if err != nil {
		return fmt.Errorf("%w. Body: %s", err, string(tc.responseBody))
	}

	var count int
	switch v := value.(type) {
	case []interface{}:
		count = len(v)
	case map[string]interface{}:
		count = len(v)
	default:
		return fmt.Errorf("field '%s' is not a collection", field)
	}

	if count != expected {
		return fmt.Errorf("field '%s' expected %d items, got %d", field, expected, count)
	}
	return nil
}

// lookupField resolves a dot-separated path into the response JSON. Numeric
// segments index arrays, everything else looks up object keys.
func lookupField(body []byte, path string) (interface{}, error) {
	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}

	current := data
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]interface{}:
			value, ok := node[segment]
			if !ok {
				return nil, fmt.Errorf("field '%s' not found in response", path)
			}
			current = value
		case []interface{}:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(node) {
				return nil, fmt.Errorf("field '%s' not found in response", path)
			}
			current = node[index]
		default:
			return nil, fmt.Errorf("field '%s' not found in response", path)
		}
	}
	return current, nil
}
