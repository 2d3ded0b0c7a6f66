package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/libyanfood/site/internal/cache"
	"github.com/libyanfood/site/internal/database"
	"github.com/libyanfood/site/internal/models"
	"github.com/libyanfood/site/internal/server"
	"github.com/libyanfood/site/internal/utils"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	AdminUsername = "admin"
	AdminPassword = "admin123"
)

// PNGHeader is enough of a PNG file for content sniffing to report image/png.
var PNGHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a separate database, so keep exactly one.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db), "Failed to migrate test database")

	return db
}

func SetupTestApp(t *testing.T) *fiber.App {
	db := TestDB(t)
	database.DB = db
	cache.Current = cache.NewMemory()

	err := utils.InitLocalStorage(t.TempDir())
	require.NoError(t, err, "Failed to initialize storage")
	utils.SetStorageMode(true)

	opts := server.DefaultOptions()
	opts.Quiet = true
	return server.New(db, opts)
}

// SetupSeededApp is SetupTestApp plus the default admin account and site data.
func SetupSeededApp(t *testing.T) *fiber.App {
	app := SetupTestApp(t)
	err := database.Seed(database.DB, database.AdminSeed{
		Username: AdminUsername,
		Email:    "admin@foodcompany.ly",
		Password: AdminPassword,
	})
	require.NoError(t, err, "Failed to seed test database")
	return app
}

// NewHTTPServer serves app on a real listener so net/http clients can reach it.
// wrap, when non-nil, sees every request before the app does.
func NewHTTPServer(t *testing.T, app *fiber.App, wrap func(http.Handler) http.Handler) *httptest.Server {
	var h http.Handler = adaptor.FiberApp(app)
	if wrap != nil {
		h = wrap(h)
	}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func CreateTestUser(t *testing.T, db *gorm.DB, username, password, role string) *models.User {
	hashedPassword, err := utils.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        username + "@test.com",
		PasswordHash: hashedPassword,
		Role:         role,
	}

	err = db.Create(user).Error
	assert.NoError(t, err, "Failed to create test user")

	return user
}

func GetAuthToken(t *testing.T, user *models.User) string {
	token, err := utils.GenerateJWT(user.ID, user.Username, user.Role)
	assert.NoError(t, err, "Failed to generate test token")
	return token
}

// AdminToken creates an admin user and returns a token for it.
func AdminToken(t *testing.T) string {
	admin := CreateTestUser(t, database.DB, "root-"+uuid.NewString()[:8], "password", "admin")
	return GetAuthToken(t, admin)
}

func MakeRequest(app *fiber.App, method, url string, body interface{}, token string) (*httptest.ResponseRecorder, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(jsonBody)
	}

	req := httptest.NewRequest(method, url, bodyReader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return do(app, req)
}

func MakeMultipartRequestWithFile(app *fiber.App, url, filename string, content []byte, token string) (*httptest.ResponseRecorder, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			return nil, err
		}
		part.Write(content)
	}

	contentType := writer.FormDataContentType()
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, url, body)
	req.Header.Set("Content-Type", contentType)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return do(app, req)
}

func do(app *fiber.App, req *http.Request) (*httptest.ResponseRecorder, error) {
	rec := httptest.NewRecorder()

	resp, err := app.Test(req, -1)
	if err != nil {
		return rec, err
	}

	rec.Code = resp.StatusCode
	io.Copy(rec.Body, resp.Body)
	resp.Body.Close()

	return rec, nil
}

func ParseResponse(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	if resp.Body.Len() == 0 {
		t.Log("Warning: Response body is empty")
		return
	}

	err := json.Unmarshal(resp.Body.Bytes(), v)
	if err != nil {
		t.Logf("Response body: %s", resp.Body.String())
		assert.NoError(t, err, "Failed to parse response")
	}
}

type StandardResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorDetail    `json:"error"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

// DecodeData parses the envelope of resp and unmarshals its data into v.
func DecodeData(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	var result StandardResponse
	ParseResponse(t, resp, &result)
	require.True(t, result.Success, "Expected success response, got %s", resp.Body.String())
	require.NoError(t, json.Unmarshal(result.Data, v))
}

func AssertSuccess(t *testing.T, resp *httptest.ResponseRecorder) {
	var result StandardResponse
	ParseResponse(t, resp, &result)
	assert.True(t, result.Success, "Expected success response")
	assert.Empty(t, result.Error, "Expected no error")
}

func AssertError(t *testing.T, resp *httptest.ResponseRecorder, expectedCode string) {
	var result StandardResponse
	ParseResponse(t, resp, &result)
	assert.False(t, result.Success, "Expected error response")
	if assert.NotNil(t, result.Error, "Expected error object") {
		assert.Equal(t, expectedCode, result.Error.Code, "Error code mismatch")
	}
}
