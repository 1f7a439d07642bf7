// Package integration runs the credential pipeline end to end against real
// PostgreSQL and MySQL databases. Tests are skipped when a database is not reachable.
package integration

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/gatekeeper/internal/app"
	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	"github.com/allisson/gatekeeper/internal/config"
	"github.com/allisson/gatekeeper/internal/testutil"
	"github.com/allisson/gatekeeper/internal/user/http/dto"
	userUsecase "github.com/allisson/gatekeeper/internal/user/usecase"
)

const (
	testEmail    = "ada@example.com"
	testPassword = "Str0ng!Passw0rd"
)

// integrationTestContext holds all dependencies and state for integration testing.
type integrationTestContext struct {
	container *app.Container
	db        *sql.DB
	server    *httptest.Server
	apiKey    string
	jwt       string
	dbDriver  string
}

// get performs a GET request with the given Authorization header (empty for none).
func (ctx *integrationTestContext) get(t *testing.T, path, authorization string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, ctx.server.URL+path, nil)
	require.NoError(t, err, "failed to create request")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	//nolint:gosec // controlled test environment with localhost URLs
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	if closeErr := resp.Body.Close(); closeErr != nil {
		t.Logf("Warning: failed to close response body: %v", closeErr)
	}

	return resp, body
}

// setupIntegrationTest wires the container against a migrated database, registers
// a user and issues one API key and one JWT for it.
func setupIntegrationTest(t *testing.T, dbDriver string) *integrationTestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)

	var db *sql.DB
	var dsn string
	if dbDriver == "postgres" {
		db = testutil.SetupPostgresDB(t)
		dsn = testutil.GetPostgresTestDSN()
	} else {
		db = testutil.SetupMySQLDB(t)
		dsn = testutil.GetMySQLTestDSN()
	}

	cfg := &config.Config{
		DBDriver:                  dbDriver,
		DBConnectionString:        dsn,
		DBMaxOpenConnections:      10,
		DBMaxIdleConnections:      5,
		DBConnMaxLifetime:         time.Hour,
		ServerHost:                "localhost",
		ServerPort:                8080,
		LogLevel:                  "error",
		AuthClientUsername:        "client",
		AuthOAuthPlaceholder:      "x-oauth-basic",
		AuthAccessTokenParam:      "access_token",
		AuthTokenFailurePolicy:    config.TokenFailurePolicyDistinct,
		AuthPasswordHashAlgorithm: config.PasswordHashSHA256,
		AuthJWTSecret:             "integration-secret",
		AuthJWTIssuer:             "gatekeeper",
		AuthJWTAudience:           "gatekeeper",
		AuthJWTExpiration:         time.Hour,
		AuthTokenCacheSize:        100,
		AuthTokenCacheTTL:         time.Minute,
		MetricsEnabled:            true,
		MetricsNamespace:          "gatekeeper_integration",
	}

	container := app.NewContainer(cfg)
	ctx := context.Background()

	userUseCase, err := container.UserUseCase()
	require.NoError(t, err, "failed to get user use case")

	user, err := userUseCase.RegisterUser(ctx, userUsecase.RegisterUserInput{
		FullName: "Ada Lovelace",
		Email:    testEmail,
		Password: testPassword,
	})
	require.NoError(t, err, "failed to register user")

	tokenUseCase, err := container.TokenUseCase()
	require.NoError(t, err, "failed to get token use case")

	apiKey, err := tokenUseCase.Issue(ctx, &authDomain.IssueTokenInput{UserID: &user.ID, Notes: "integration"})
	require.NoError(t, err, "failed to issue api key")

	jwt, err := tokenUseCase.IssueJWT(ctx, user.ID)
	require.NoError(t, err, "failed to issue jwt")

	httpSrv, err := container.HTTPServer()
	require.NoError(t, err, "failed to get HTTP server")

	handler := httpSrv.GetHandler()
	require.NotNil(t, handler, "handler should not be nil after SetupRouter")

	return &integrationTestContext{
		container: container,
		db:        db,
		server:    httptest.NewServer(handler),
		apiKey:    apiKey.PlainToken,
		jwt:       jwt,
		dbDriver:  dbDriver,
	}
}

// teardownIntegrationTest cleans up all resources.
func teardownIntegrationTest(t *testing.T, ctx *integrationTestContext) {
	t.Helper()

	if ctx.server != nil {
		ctx.server.Close()
	}

	if ctx.container != nil {
		if err := ctx.container.Shutdown(context.Background()); err != nil {
			t.Logf("Warning: container shutdown error: %v", err)
		}
	}

	if ctx.db != nil {
		testutil.TeardownDB(t, ctx.db)
	}
}

func basicAuth(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

func TestIntegration(t *testing.T) {
	for _, driver := range []string{"postgres", "mysql"} {
		t.Run(driver, func(t *testing.T) {
			ctx := setupIntegrationTest(t, driver)
			defer teardownIntegrationTest(t, ctx)

			t.Run("readiness", func(t *testing.T) {
				resp, body := ctx.get(t, "/ready", "")
				assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
			})

			t.Run("anonymous request is rejected", func(t *testing.T) {
				resp, _ := ctx.get(t, "/v1/me", "")
				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			})

			credentials := map[string]string{
				"basic password":       basicAuth(testEmail, testPassword),
				"bearer api key":       "Bearer " + ctx.apiKey,
				"token scheme api key": "token " + ctx.apiKey,
				"client basic api key": basicAuth("client", ctx.apiKey),
				"oauth basic api key":  basicAuth(ctx.apiKey, "x-oauth-basic"),
				"bearer jwt":           "Bearer " + ctx.jwt,
			}
			for name, authorization := range credentials {
				t.Run(name, func(t *testing.T) {
					resp, body := ctx.get(t, "/v1/me", authorization)
					require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

					var me dto.UserResponse
					require.NoError(t, json.Unmarshal(body, &me))
					assert.Equal(t, testEmail, me.Email)
					assert.Equal(t, []string{"user"}, me.Roles)
				})
			}

			t.Run("query parameter api key", func(t *testing.T) {
				resp, body := ctx.get(t, "/v1/me?access_token="+ctx.apiKey, "")
				assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
			})

			t.Run("wrong password", func(t *testing.T) {
				resp, _ := ctx.get(t, "/v1/me", basicAuth(testEmail, "wrong"))
				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			})

			t.Run("unknown api key", func(t *testing.T) {
				resp, _ := ctx.get(t, "/v1/me", "Bearer not-a-real-token")
				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			})
		})
	}
}
