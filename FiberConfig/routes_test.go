package FiberConfig

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"TaskTracker/Config"
	"TaskTracker/Controllers"
	"TaskTracker/Models"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type testApp struct {
	app  *fiber.App
	deps Dependencies
}

func setupApp(t *testing.T) testApp {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Models.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	cfg := Config.Config{
		Port:        "0",
		DBDriver:    "sqlite",
		JWTSecret:   testSecret,
		TokenTTL:    time.Hour,
		LogDir:      t.TempDir(),
		LogFormat:   "json",
		CORSOrigins: "*",
	}
	deps := NewDependencies(cfg, db)
	deps.Auth.BcryptCost = bcrypt.MinCost
	return testApp{app: NewApp(deps), deps: deps}
}

func (ta testApp) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	content, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, content
}

// signupAndSignin registers an employee and returns its token.
func (ta testApp) signupAndSignin(t *testing.T, name, email, password string) string {
	t.Helper()

	resp, body := ta.do(t, "POST", "/auth/signup", "", fiber.Map{"name": name, "email": email, "password": password})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))

	resp, body = ta.do(t, "POST", "/auth/signin", "", fiber.Map{"email": email, "password": password})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	return string(body)
}

func TestAuthFlow(t *testing.T) {
	ta := setupApp(t)

	resp, body := ta.do(t, "POST", "/auth/signup", "", fiber.Map{"name": "A", "email": "a@x.com", "password": "pw"})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Employee registered successfully!", string(body))

	resp, body = ta.do(t, "POST", "/auth/signup", "", fiber.Map{"name": "A2", "email": "a@x.com", "password": "other"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "User already exists!", string(body))

	resp, body = ta.do(t, "POST", "/auth/signin", "", fiber.Map{"email": "a@x.com", "password": "nope"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Wrong password!", string(body))

	resp, body = ta.do(t, "POST", "/auth/signin", "", fiber.Map{"email": "ghost@x.com", "password": "pw"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found!", string(body))

	resp, body = ta.do(t, "POST", "/auth/signin", "", fiber.Map{"email": "a@x.com", "password": "pw"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	token := string(body)

	claims, err := ta.deps.Codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)

	resp, body = ta.do(t, "GET", "/api/employees/allEmployees", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var employees []map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &employees))
	require.Len(t, employees, 1)
	assert.Equal(t, "a@x.com", employees[0]["email"])
	assert.NotContains(t, string(body), "password")
}

func TestSignupValidation(t *testing.T) {
	ta := setupApp(t)

	resp, body := ta.do(t, "POST", "/auth/signup", "", fiber.Map{"name": "A", "email": "not-an-email", "password": "pw"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "VALIDATION_FAILED", payload["code"])
	assert.Contains(t, payload["error"], "email")
}

func TestSigninValidation(t *testing.T) {
	ta := setupApp(t)
	ta.signupAndSignin(t, "A", "a@x.com", "pw")

	resp, body := ta.do(t, "POST", "/auth/signin", "", fiber.Map{"email": "a@x.com"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "VALIDATION_FAILED", payload["code"])
	assert.Equal(t, "password is a required field", payload["error"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ta := setupApp(t)

	paths := []string{"/api/employees/allEmployees", "/tasks/all", "/tasks/employee/1", "/api/logs"}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			resp, body := ta.do(t, "GET", path, "", nil)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
			assert.Contains(t, string(body), "Missing or invalid Authorization header")
		})
	}

	resp, _ := ta.do(t, "GET", "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestTaskRoutes(t *testing.T) {
	ta := setupApp(t)
	token := ta.signupAndSignin(t, "A", "a@x.com", "pw")
	claims, err := ta.deps.Codec.Verify(token)
	require.NoError(t, err)
	empID := claims.EmployeeID

	// /tasks/add/ is public
	resp, body := ta.do(t, "POST", fmt.Sprintf("/tasks/add/%d", empID), "", fiber.Map{
		"description":   "Write report",
		"status":        "COMPLETED",
		"startDateTime": "2024-05-01T09:00:00",
		"endDateTime":   "2024-05-01T17:00:00",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	var created Models.Task
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, Models.TaskStatusPending, created.Status)
	assert.Equal(t, empID, created.EmployeeID)
	assert.Contains(t, string(body), `"startDateTime":"2024-05-01T09:00:00"`)

	resp, _ = ta.do(t, "POST", fmt.Sprintf("/tasks/add/%d", empID), "", fiber.Map{
		"description":   "Late one",
		"startDateTime": "2024-05-02T00:00:00",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = ta.do(t, "POST", "/tasks/add/999", "", fiber.Map{"description": "x"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, body = ta.do(t, "GET", fmt.Sprintf("/tasks/startdate/2024-05-01/%d", empID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var onDay []Models.Task
	require.NoError(t, json.Unmarshal(body, &onDay))
	require.Len(t, onDay, 1)
	assert.Equal(t, created.ID, onDay[0].ID)

	resp, _ = ta.do(t, "GET", fmt.Sprintf("/tasks/startdate/05-01-2024/%d", empID), token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body = ta.do(t, "PUT", fmt.Sprintf("/tasks/update/%d", created.ID), token, fiber.Map{
		"description":   "Write final report",
		"status":        "COMPLETED",
		"startDateTime": "2024-05-01T10:00:00",
		"endDateTime":   "2024-05-01T18:00",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	resp, body = ta.do(t, "GET", fmt.Sprintf("/tasks/completed/%d", empID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var completed []Models.Task
	require.NoError(t, json.Unmarshal(body, &completed))
	require.Len(t, completed, 1)
	assert.Equal(t, "Write final report", completed[0].Description)

	resp, body = ta.do(t, "GET", fmt.Sprintf("/tasks/pending/%d", empID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var pending []Models.Task
	require.NoError(t, json.Unmarshal(body, &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "Late one", pending[0].Description)

	resp, _ = ta.do(t, "DELETE", fmt.Sprintf("/tasks/%d", created.ID), token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = ta.do(t, "DELETE", fmt.Sprintf("/tasks/%d", created.ID), token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, body = ta.do(t, "GET", "/tasks/all", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var all []Models.Task
	require.NoError(t, json.Unmarshal(body, &all))
	assert.Len(t, all, 1)
}

func TestEmployeeRoutes(t *testing.T) {
	ta := setupApp(t)
	token := ta.signupAndSignin(t, "A", "a@x.com", "pw")
	ta.signupAndSignin(t, "B", "b@x.com", "pw")
	claims, err := ta.deps.Codec.Verify(token)
	require.NoError(t, err)
	path := fmt.Sprintf("/api/employees/%d", claims.EmployeeID)

	resp, body := ta.do(t, "PUT", path, token, fiber.Map{"name": "A+", "email": "b@x.com"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode, string(body))

	resp, body = ta.do(t, "PUT", path, token, fiber.Map{"name": "A+", "email": "a2@x.com"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"name":"A+"`)

	resp, _ = ta.do(t, "GET", "/api/employees/abc", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = ta.do(t, "DELETE", path, token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = ta.do(t, "GET", path, token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestExportTasks(t *testing.T) {
	ta := setupApp(t)
	token := ta.signupAndSignin(t, "A", "a@x.com", "pw")
	claims, err := ta.deps.Codec.Verify(token)
	require.NoError(t, err)

	resp, _ := ta.do(t, "POST", fmt.Sprintf("/tasks/add/%d", claims.EmployeeID), "", fiber.Map{
		"description":   "Inventory",
		"startDateTime": "2024-05-01T09:00:00",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body := ta.do(t, "GET", fmt.Sprintf("/tasks/export/%d", claims.EmployeeID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), ".xlsx")

	f, err := excelize.OpenReader(strings.NewReader(string(body)))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Tasks")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Inventory", rows[1][1])
	assert.Equal(t, "PENDING", rows[1][2])
	assert.Equal(t, "2024-05-01 09:00:00", rows[1][3])
}

func TestLogsRoute(t *testing.T) {
	ta := setupApp(t)
	token := ta.signupAndSignin(t, "A", "a@x.com", "pw")

	resp, body := ta.do(t, "GET", "/api/logs?method=post", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	var logs Controllers.LogsResponse
	require.NoError(t, json.Unmarshal(body, &logs))
	assert.Equal(t, 2, logs.TotalLogs)
	for _, entry := range logs.Logs {
		assert.Equal(t, "POST", entry.Method)
		assert.NotContains(t, entry.URL, token)
	}
	require.NotEmpty(t, logs.Groups)

	resp, _ = ta.do(t, "GET", "/api/logs?date_from=yesterday", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	ta := setupApp(t)

	req := httptest.NewRequest("OPTIONS", "/tasks/all", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
