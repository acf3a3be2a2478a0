package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/roleapi/core"
	"github.com/techmaster-vietnam/roleapi/handlers"
	"github.com/techmaster-vietnam/roleapi/models"
	"github.com/techmaster-vietnam/roleapi/repository"
	"github.com/techmaster-vietnam/roleapi/router"
	"github.com/techmaster-vietnam/roleapi/service"
)

func TestMain(m *testing.M) {
	goerrorkit.InitLogger(goerrorkit.LoggerOptions{
		ConsoleOutput: true,
		LogLevel:      "error",
	})
	os.Exit(m.Run())
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

type testApp struct {
	app   *fiber.App
	store *repository.MemoryStore
	user  *models.User
}

func newTestApp(t *testing.T, roleNames ...string) *testApp {
	t.Helper()
	ctx := context.Background()

	store := repository.NewMemoryStore()
	for _, name := range roleNames {
		require.NoError(t, store.CreateRole(ctx, &models.Role{Name: name}))
	}
	user := &models.User{Username: "alice"}
	require.NoError(t, store.CreateUser(ctx, user))

	app := fiber.New()
	h := handlers.NewRoleHandler(service.NewRoleService(store, store))
	router.SetupRoutes(app, router.DefaultPrefix, h)

	return &testApp{app: app, store: store, user: user}
}

func (ta *testApp) do(t *testing.T, method, path string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, router.DefaultPrefix+path, nil)
	resp, err := ta.app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func decodeEnvelope(t *testing.T, body []byte) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

func TestGetAllRoles_Empty(t *testing.T) {
	ta := newTestApp(t)

	resp, body := ta.do(t, http.MethodGet, "/GetAllRoles")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, body)
	assert.Equal(t, http.StatusOK, env.StatusCode)
	assert.Equal(t, "", env.Message)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestGetAllRoles(t *testing.T) {
	ta := newTestApp(t, "Admin", "Editor")

	resp, body := ta.do(t, http.MethodGet, "/GetAllRoles")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var roles []models.Role
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, body).Data, &roles))
	require.Len(t, roles, 2)
	assert.Equal(t, "Admin", roles[0].Name)
	assert.Equal(t, "Editor", roles[1].Name)
	assert.NotEmpty(t, roles[0].ID)
}

func TestCreateRole(t *testing.T) {
	ta := newTestApp(t)

	resp, body := ta.do(t, http.MethodPost, "/CreateRole?roleName=Editor")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, handlers.MsgRoleCreated, string(body))

	_, err := ta.store.FindRoleByName(context.Background(), "Editor")
	assert.NoError(t, err)
}

func TestCreateRole_Duplicate(t *testing.T) {
	ta := newTestApp(t, "Editor")

	resp, body := ta.do(t, http.MethodPost, "/CreateRole?roleName=Editor")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errs []core.StoreError
	require.NoError(t, json.Unmarshal(body, &errs))
	require.Len(t, errs, 1)
	assert.Equal(t, core.CodeDuplicateRoleName, errs[0].Code)
}

func TestCreateRole_MissingName(t *testing.T) {
	ta := newTestApp(t)

	resp, body := ta.do(t, http.MethodPost, "/CreateRole")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errs []core.StoreError
	require.NoError(t, json.Unmarshal(body, &errs))
	require.Len(t, errs, 1)
	assert.Equal(t, core.CodeInvalidRoleName, errs[0].Code)
}

func TestAddRole(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		roleName       string
		expectedStatus int
		expectedMsg    string
	}{
		{name: "unknown user, known role", userID: "9b2f6c1e-4e0a-4f43-9d67-2d0c7f3a1b11", roleName: "Admin", expectedStatus: 404, expectedMsg: service.MsgUserNotFound},
		{name: "unknown user, unknown role", userID: "9b2f6c1e-4e0a-4f43-9d67-2d0c7f3a1b11", roleName: "Ghost", expectedStatus: 404, expectedMsg: service.MsgUserNotFound},
		{name: "malformed user id", userID: "abc", roleName: "Admin", expectedStatus: 404, expectedMsg: service.MsgUserNotFound},
		{name: "unknown role", roleName: "Ghost", expectedStatus: 404, expectedMsg: service.MsgRoleNotFound},
		{name: "success", roleName: "Admin", expectedStatus: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t, "Admin")
			userID := tt.userID
			if userID == "" {
				userID = ta.user.ID.String()
			}

			resp, body := ta.do(t, http.MethodPost, "/AddRole/"+userID+"/"+tt.roleName)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			env := decodeEnvelope(t, body)
			assert.Equal(t, tt.expectedStatus, env.StatusCode)
			if tt.expectedStatus == http.StatusOK {
				assert.JSONEq(t, `"`+handlers.MsgRoleAdded+`"`, string(env.Data))
				assert.Equal(t, []string{"Admin"}, ta.store.RoleNamesOfUser(ta.user.ID))
				return
			}
			assert.Equal(t, tt.expectedMsg, env.Message)
			assert.Equal(t, "null", string(env.Data))
		})
	}
}

func TestAddRole_AlreadyAssigned(t *testing.T) {
	ta := newTestApp(t, "Admin")
	path := "/AddRole/" + ta.user.ID.String() + "/Admin"

	resp, _ := ta.do(t, http.MethodPost, path)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := ta.do(t, http.MethodPost, path)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, service.MsgUnknownError, decodeEnvelope(t, body).Message)
}

func TestAddRole_EscapedRoleName(t *testing.T) {
	ta := newTestApp(t, "Content Editor")

	resp, _ := ta.do(t, http.MethodPost, "/AddRole/"+ta.user.ID.String()+"/Content%20Editor")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Content Editor"}, ta.store.RoleNamesOfUser(ta.user.ID))
}

func TestRemoveRole(t *testing.T) {
	ta := newTestApp(t, "Admin")
	require.NoError(t, ta.store.AddToRole(context.Background(), ta.user, "Admin"))

	resp, body := ta.do(t, http.MethodDelete, "/RemoveRole/"+ta.user.ID.String()+"/Admin")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `"`+handlers.MsgRoleRemoved+`"`, string(decodeEnvelope(t, body).Data))
	assert.Empty(t, ta.store.RoleNamesOfUser(ta.user.ID))
}

func TestRemoveRole_UnknownUser(t *testing.T) {
	ta := newTestApp(t, "Admin")

	resp, body := ta.do(t, http.MethodDelete, "/RemoveRole/9b2f6c1e-4e0a-4f43-9d67-2d0c7f3a1b11/Ghost")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, service.MsgUserNotFound, decodeEnvelope(t, body).Message)
}

// Gỡ role mà user chưa từng có (kể cả role không tồn tại) trả về 400 generic
func TestRemoveRole_NeverHeld(t *testing.T) {
	ta := newTestApp(t, "Admin")

	for _, roleName := range []string{"Admin", "Ghost"} {
		resp, body := ta.do(t, http.MethodDelete, "/RemoveRole/"+ta.user.ID.String()+"/"+roleName)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		env := decodeEnvelope(t, body)
		assert.Equal(t, http.StatusBadRequest, env.StatusCode)
		assert.Equal(t, service.MsgUnknownError, env.Message)
	}
}

func TestUpdateRole(t *testing.T) {
	tests := []struct {
		name           string
		held           []string
		path           func(userID string) string
		expectedStatus int
		expectedMsg    string
		expectedRoles  []string
	}{
		{
			name:           "success",
			held:           []string{"Editor"},
			path:           func(id string) string { return "/UpdateRole/" + id + "/Editor/Admin" },
			expectedStatus: 200,
			expectedRoles:  []string{"Admin"},
		},
		{
			name:           "unknown user",
			held:           []string{"Editor"},
			path:           func(string) string { return "/UpdateRole/missing/Editor/Admin" },
			expectedStatus: 404,
			expectedMsg:    service.MsgUserNotFound,
			expectedRoles:  []string{"Editor"},
		},
		{
			name:           "unknown old role",
			held:           []string{"Editor"},
			path:           func(id string) string { return "/UpdateRole/" + id + "/Ghost/Admin" },
			expectedStatus: 404,
			expectedMsg:    service.MsgOldRoleNotFound,
			expectedRoles:  []string{"Editor"},
		},
		{
			name:           "unknown new role",
			held:           []string{"Editor"},
			path:           func(id string) string { return "/UpdateRole/" + id + "/Editor/Ghost" },
			expectedStatus: 404,
			expectedMsg:    service.MsgNewRoleNotFound,
			expectedRoles:  []string{"Editor"},
		},
		{
			name:           "user lacks old role",
			path:           func(id string) string { return "/UpdateRole/" + id + "/Editor/Admin" },
			expectedStatus: 400,
			expectedMsg:    service.MsgUserLacksOldRole,
			expectedRoles:  []string{},
		},
		{
			name:           "already holds new role",
			held:           []string{"Editor", "Admin"},
			path:           func(id string) string { return "/UpdateRole/" + id + "/Editor/Admin" },
			expectedStatus: 400,
			expectedMsg:    service.MsgUnknownError,
			expectedRoles:  []string{"Editor", "Admin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t, "Editor", "Admin")
			for _, r := range tt.held {
				require.NoError(t, ta.store.AddToRole(context.Background(), ta.user, r))
			}

			resp, body := ta.do(t, http.MethodPut, tt.path(ta.user.ID.String()))
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			env := decodeEnvelope(t, body)
			if tt.expectedStatus == http.StatusOK {
				assert.JSONEq(t, `"`+handlers.MsgRoleUpdated+`"`, string(env.Data))
			} else {
				assert.Equal(t, tt.expectedMsg, env.Message)
			}
			assert.Equal(t, tt.expectedRoles, ta.store.RoleNamesOfUser(ta.user.ID))
		})
	}
}

func TestHealthz(t *testing.T) {
	ta := newTestApp(t)

	resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// brokenStore trả về lỗi hạ tầng không phân loại cho list và tìm user
type brokenStore struct {
	*repository.MemoryStore
	err error
}

func (s *brokenStore) ListRoles(ctx context.Context) ([]models.Role, error) {
	return nil, s.err
}

func (s *brokenStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return nil, s.err
}

func TestUnclassifiedStoreError(t *testing.T) {
	store := &brokenStore{
		MemoryStore: repository.NewMemoryStore(),
		err:         errors.New("connection reset by peer"),
	}
	app := fiber.New()
	router.SetupRoutes(app, router.DefaultPrefix, handlers.NewRoleHandler(service.NewRoleService(store, store)))
	ta := &testApp{app: app, store: store.MemoryStore}

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "GetAllRoles", method: http.MethodGet, path: "/GetAllRoles"},
		{name: "AddRole", method: http.MethodPost, path: "/AddRole/9b2f6c1e-4e0a-4f43-9d67-2d0c7f3a1b11/Admin"},
		{name: "RemoveRole", method: http.MethodDelete, path: "/RemoveRole/9b2f6c1e-4e0a-4f43-9d67-2d0c7f3a1b11/Admin"},
		{name: "UpdateRole", method: http.MethodPut, path: "/UpdateRole/9b2f6c1e-4e0a-4f43-9d67-2d0c7f3a1b11/Admin/User"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := ta.do(t, tt.method, tt.path)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			env := decodeEnvelope(t, body)
			assert.Equal(t, http.StatusBadRequest, env.StatusCode)
			assert.Equal(t, "connection reset by peer", env.Message)
			assert.Equal(t, "null", string(env.Data))
		})
	}
}
