package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/mpaternostro/basic-crud/internal/auth"
	"github.com/mpaternostro/basic-crud/internal/config"
	"github.com/mpaternostro/basic-crud/internal/graphql"
	"github.com/mpaternostro/basic-crud/internal/handlers"
	"github.com/mpaternostro/basic-crud/internal/repo/repotest"
	"github.com/mpaternostro/basic-crud/internal/service"
)

// newTestServer wires the full HTTP surface against in-memory repositories,
// mirroring the route layout in internal/app.
func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	t.Setenv("PG_DSN", "postgres://localhost/test")
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_TOKEN_SECRET", "refresh-secret")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	userSvc := service.NewUserService(repotest.NewMemUserRepo(), bcrypt.MinCost)
	todoSvc := service.NewTodoService(repotest.NewMemTodoRepo())
	tokens := auth.NewTokenService(cfg.JWT)
	authHandler := handlers.NewAuthHandler(userSvc, tokens, log)

	r := gin.New()
	g := r.Group("/auth")
	g.POST("/register", authHandler.Register)
	g.POST("/login", auth.RequireLocalCredentials(userSvc), authHandler.Login)
	g.GET("/refresh", auth.RequireRefreshToken(tokens, userSvc), authHandler.Refresh)
	g.POST("/logout", auth.RequireAccessToken(tokens, userSvc), authHandler.Logout)

	schema, err := graphql.NewSchema(userSvc, todoSvc, log)
	if err != nil {
		t.Fatalf("graphql.NewSchema: %v", err)
	}
	r.POST("/graphql", auth.RequireAccessToken(tokens, userSvc), gin.WrapH(graphql.NewHTTPHandler(schema)))

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doGraphQL(t *testing.T, r *gin.Engine, cookies []*http.Cookie, query string, vars map[string]any) map[string]any {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/graphql", map[string]any{
		"query":     query,
		"variables": vars,
	}, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /graphql = %d, body: %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode graphql response: %v", err)
	}
	return resp
}

func graphQLData(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	if errs, ok := resp["errors"]; ok {
		t.Fatalf("graphql errors: %v", errs)
	}
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("no data in response: %v", resp)
	}
	return data
}

func register(t *testing.T, r *gin.Engine, username, password string) map[string]any {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/auth/register", map[string]string{
		"username": username,
		"password": password,
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("register = %d, body: %s", w.Code, w.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return body
}

func login(t *testing.T, r *gin.Engine, username, password string) []*http.Cookie {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d, body: %s", w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("login set %d cookies, want 2", len(cookies))
	}
	return cookies
}

func TestRegister(t *testing.T) {
	r := newTestServer(t)

	body := register(t, r, "tester", "newpassword")
	if body["username"] != "tester" {
		t.Errorf("username = %v, want tester", body["username"])
	}
	if _, ok := body["password"]; ok {
		t.Error("register response must not carry a password field")
	}
	if body["id"] == "" || body["id"] == nil {
		t.Error("register response should carry the new id")
	}

	// Same username, different password: still the duplicate error.
	w := doJSON(t, r, http.MethodPost, "/auth/register", map[string]string{
		"username": "tester",
		"password": "otherpassword",
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("duplicate register = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "already taken") {
		t.Errorf("duplicate register body: %s", w.Body.String())
	}
}

func TestLoginCookieDirectives(t *testing.T) {
	r := newTestServer(t)
	register(t, r, "tester", "newpassword")

	w := doJSON(t, r, http.MethodPost, "/auth/login", map[string]string{
		"username": "tester",
		"password": "newpassword",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d, body: %s", w.Code, w.Body.String())
	}

	directives := w.Result().Header.Values("Set-Cookie")
	if len(directives) != 2 {
		t.Fatalf("got %d Set-Cookie headers, want 2", len(directives))
	}
	if !strings.HasPrefix(directives[0], "Authentication=") ||
		!strings.HasSuffix(directives[0], "; HttpOnly; Path=/; Max-Age=900") {
		t.Errorf("access directive: %q", directives[0])
	}
	if !strings.HasPrefix(directives[1], "Refresh=") ||
		!strings.HasSuffix(directives[1], "; HttpOnly; Path=/; Max-Age=604800") {
		t.Errorf("refresh directive: %q", directives[1])
	}
}

func TestLoginWrongPassword(t *testing.T) {
	r := newTestServer(t)
	register(t, r, "tester", "newpassword")

	w := doJSON(t, r, http.MethodPost, "/auth/login", map[string]string{
		"username": "tester",
		"password": "wrongpassword",
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("login with wrong password = %d, want 400", w.Code)
	}
}

func TestGraphQLRequiresAccessToken(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/graphql", map[string]any{"query": "{ whoAmI { id } }"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated graphql = %d, want 401", w.Code)
	}
}

func TestEndToEndTodoLifecycle(t *testing.T) {
	r := newTestServer(t)

	created := register(t, r, "tester", "newpassword")
	cookies := login(t, r, "tester", "newpassword")

	data := graphQLData(t, doGraphQL(t, r, cookies, `{ whoAmI { id username } }`, nil))
	whoAmI := data["whoAmI"].(map[string]any)
	if whoAmI["id"] != created["id"] {
		t.Errorf("whoAmI id = %v, want %v", whoAmI["id"], created["id"])
	}

	data = graphQLData(t, doGraphQL(t, r, cookies,
		`mutation ($input: CreateTodoInput!) { createTodo(createTodoInput: $input) { id title isCompleted user { id } } }`,
		map[string]any{"input": map[string]any{"title": "Todo test"}}))
	todo := data["createTodo"].(map[string]any)
	if todo["title"] != "Todo test" {
		t.Errorf("title = %v, want Todo test", todo["title"])
	}
	if todo["isCompleted"] != false {
		t.Error("new todo should not be completed")
	}
	owner := todo["user"].(map[string]any)
	if owner["id"] != created["id"] {
		t.Errorf("todo owner = %v, want the requesting user %v", owner["id"], created["id"])
	}

	data = graphQLData(t, doGraphQL(t, r, cookies,
		`mutation ($input: UpdateTodoInput!) { updateTodo(updateTodoInput: $input) { id title } }`,
		map[string]any{"input": map[string]any{"id": todo["id"], "title": " Updated todo test "}}))
	updated := data["updateTodo"].(map[string]any)
	if updated["title"] != "Updated todo test" {
		t.Errorf("updated title = %q, want trimmed", updated["title"])
	}

	data = graphQLData(t, doGraphQL(t, r, cookies,
		`mutation ($id: ID!) { removeTodo(id: $id) { id } }`,
		map[string]any{"id": todo["id"]}))
	if data["removeTodo"].(map[string]any)["id"] != todo["id"] {
		t.Error("removeTodo should return the removed record")
	}

	data = graphQLData(t, doGraphQL(t, r, cookies, `{ todos { id } }`, nil))
	if todos, _ := data["todos"].([]any); len(todos) != 0 {
		t.Errorf("todos after removal = %v, want empty", data["todos"])
	}
}

func TestRefreshReissuesCookies(t *testing.T) {
	r := newTestServer(t)
	register(t, r, "tester", "newpassword")
	cookies := login(t, r, "tester", "newpassword")

	w := doJSON(t, r, http.MethodGet, "/auth/refresh", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("refresh = %d, body: %s", w.Code, w.Body.String())
	}
	if got := len(w.Result().Cookies()); got != 2 {
		t.Errorf("refresh set %d cookies, want 2", got)
	}

	// Refresh without the cookie is a guard rejection.
	w = doJSON(t, r, http.MethodGet, "/auth/refresh", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("refresh without cookie = %d, want 401", w.Code)
	}
}

func TestUsernameChangeInvalidatesRefresh(t *testing.T) {
	r := newTestServer(t)
	created := register(t, r, "tester", "newpassword")
	cookies := login(t, r, "tester", "newpassword")

	data := graphQLData(t, doGraphQL(t, r, cookies,
		`mutation ($input: UpdateUserInput!) { updateUser(updateUserInput: $input) { id username } }`,
		map[string]any{"input": map[string]any{
			"id":              created["id"],
			"currentPassword": "newpassword",
			"username":        "renamed",
		}}))
	if data["updateUser"].(map[string]any)["username"] != "renamed" {
		t.Fatalf("updateUser result: %v", data)
	}

	w := doJSON(t, r, http.MethodGet, "/auth/refresh", nil, cookies)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("refresh with the old token after a username change = %d, want 401", w.Code)
	}
}

func TestUpdateUserWrongCurrentPassword(t *testing.T) {
	r := newTestServer(t)
	created := register(t, r, "tester", "newpassword")
	cookies := login(t, r, "tester", "newpassword")

	resp := doGraphQL(t, r, cookies,
		`mutation ($input: UpdateUserInput!) { updateUser(updateUserInput: $input) { id } }`,
		map[string]any{"input": map[string]any{
			"id":              created["id"],
			"currentPassword": "wrongpassword",
			"username":        "renamed",
		}})
	if _, ok := resp["errors"]; !ok {
		t.Fatal("updateUser with a wrong current password should fail")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	r := newTestServer(t)
	register(t, r, "tester", "newpassword")
	cookies := login(t, r, "tester", "newpassword")

	w := doJSON(t, r, http.MethodPost, "/auth/logout", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("logout = %d, body: %s", w.Code, w.Body.String())
	}
	directives := w.Result().Header.Values("Set-Cookie")
	if len(directives) != 2 {
		t.Fatalf("logout set %d cookies, want 2", len(directives))
	}
	for _, d := range directives {
		if !strings.Contains(d, "Max-Age=0") {
			t.Errorf("logout directive %q should expire the cookie", d)
		}
	}

	// The stored refresh hash is gone, so the old refresh cookie is rejected.
	w = doJSON(t, r, http.MethodGet, "/auth/refresh", nil, cookies)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("refresh after logout = %d, want 401", w.Code)
	}
}

func TestRemoveUser(t *testing.T) {
	r := newTestServer(t)
	created := register(t, r, "tester", "newpassword")
	cookies := login(t, r, "tester", "newpassword")

	data := graphQLData(t, doGraphQL(t, r, cookies,
		`mutation ($input: RemoveUserInput!) { removeUser(removeUserInput: $input) { id username } }`,
		map[string]any{"input": map[string]any{
			"id":              created["id"],
			"currentPassword": "newpassword",
		}}))
	if data["removeUser"].(map[string]any)["id"] != created["id"] {
		t.Error("removeUser should return the removed record")
	}

	w := doJSON(t, r, http.MethodPost, "/auth/login", map[string]string{
		"username": "tester",
		"password": "newpassword",
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("login after removal = %d, want 400", w.Code)
	}
}
