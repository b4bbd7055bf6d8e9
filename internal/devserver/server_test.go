package devserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Makepad-fr/debts/internal/model"
)

var dbSeq atomic.Int64

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := Open(fmt.Sprintf("file:devserver-%d?mode=memory&cache=shared", dbSeq.Add(1)))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	s, err := New(db, Config{Secret: "test-secret", BcryptCost: bcrypt.MinCost}, zerolog.Nop())
	require.NoError(t, err)
	return s
}

func do(t *testing.T, h http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func signIn(t *testing.T, h http.Handler, email string) (model.User, string) {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/auth/register", model.Credentials{Email: email, Password: "password1"}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	user := decode[model.User](t, rec)

	rec = do(t, h, http.MethodPost, "/auth/login", model.Credentials{Email: email, Password: "password1"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[model.LoginResponse](t, rec)
	require.True(t, login.OK)
	require.NotEmpty(t, login.Token)
	return user, login.Token
}

func TestNewRequiresSecret(t *testing.T) {
	db, err := Open("file:devserver-nosecret?mode=memory&cache=shared")
	require.NoError(t, err)
	_, err = New(db, Config{}, zerolog.Nop())
	assert.Error(t, err)
	_, err = New(nil, Config{Secret: "x"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestIndex(t *testing.T) {
	h := newTestServer(t).Handler()
	rec := do(t, h, http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Index Page API", rec.Body.String())
}

func TestRegisterValidation(t *testing.T) {
	h := newTestServer(t).Handler()

	tests := []struct {
		name   string
		creds  model.Credentials
		status int
		msg    string
	}{
		{"missing email", model.Credentials{Password: "password1"}, http.StatusBadRequest, "invalid email"},
		{"no at sign", model.Credentials{Email: "nobody", Password: "password1"}, http.StatusBadRequest, "invalid email"},
		{"short password", model.Credentials{Email: "a@example.com", Password: "short"}, http.StatusBadRequest, "password too short (min 8)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/auth/register", tt.creds, "")
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.msg, decode[model.ErrorBody](t, rec).Error)
		})
	}
}

func TestRegisterNormalizesAndRejectsDuplicates(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := do(t, h, http.MethodPost, "/auth/register", model.Credentials{Email: "  Ann@Example.COM ", Password: "password1"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	user := decode[model.User](t, rec)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.NotEmpty(t, user.ID)

	rec = do(t, h, http.MethodPost, "/auth/register", model.Credentials{Email: "ann@example.com", Password: "password2"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email already exists", decode[model.ErrorBody](t, rec).Error)
}

func TestLoginAndMe(t *testing.T) {
	h := newTestServer(t).Handler()
	user, token := signIn(t, h, "bob@example.com")

	rec := do(t, h, http.MethodGet, "/auth/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user, decode[model.User](t, rec))

	rec = do(t, h, http.MethodPost, "/auth/login", model.Credentials{Email: "bob@example.com", Password: "wrongpass"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", decode[model.ErrorBody](t, rec).Error)

	rec = do(t, h, http.MethodPost, "/auth/login", model.Credentials{Email: "nobody@example.com", Password: "password1"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeRejectsBadTokens(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "missing auth", decode[model.ErrorBody](t, rec).Error)

	rec = do(t, h, http.MethodGet, "/auth/me", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid token", decode[model.ErrorBody](t, rec).Error)

	// well signed, but for a user that does not exist
	orphan, err := s.tokens.issue("missing-user")
	require.NoError(t, err)
	rec = do(t, h, http.MethodGet, "/auth/me", nil, orphan)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	expired := &tokenIssuer{secret: s.tokens.secret, ttl: -time.Minute}
	old, err := expired.issue("missing-user")
	require.NoError(t, err)
	rec = do(t, h, http.MethodGet, "/auth/me", nil, old)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUpgradesWeakHash(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()
	user, _ := signIn(t, h, "carl@example.com")

	s.cost = bcrypt.MinCost + 1
	rec := do(t, h, http.MethodPost, "/auth/login", model.Credentials{Email: "carl@example.com", Password: "password1"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stored User
	require.NoError(t, s.db.Where("id = ?", user.ID).First(&stored).Error)
	cost, err := bcrypt.Cost([]byte(stored.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)
}

func TestDebtLifecycle(t *testing.T) {
	h := newTestServer(t).Handler()
	user, token := signIn(t, h, "dana@example.com")

	rec := do(t, h, http.MethodPost, "/debts", map[string]any{"title": "  Lunch  ", "description": ""}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[model.Debt](t, rec)
	assert.Equal(t, "Lunch", first.Title)
	assert.Nil(t, first.Description)
	assert.Equal(t, model.StatusOpen, first.Status)
	assert.Equal(t, user.ID, first.CreatedBy)
	assert.NotNil(t, first.CreatedAt)

	rec = do(t, h, http.MethodPost, "/debts", map[string]any{"title": "Taxi", "description": "airport"}, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	second := decode[model.Debt](t, rec)
	assert.Equal(t, "airport", second.Desc())

	rec = do(t, h, http.MethodGet, "/debts?created_by="+user.ID, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[model.DebtList](t, rec)
	require.Len(t, list.Items, 2)
	assert.Equal(t, second.ID, list.Items[0].ID)
	assert.Equal(t, first.ID, list.Items[1].ID)

	rec = do(t, h, http.MethodPut, "/debts/"+first.ID, map[string]any{"status": "settled"}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[model.Debt](t, rec)
	assert.Equal(t, model.StatusSettled, updated.Status)
	assert.Equal(t, "Lunch", updated.Title)

	rec = do(t, h, http.MethodGet, "/debts?status=settled", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	list = decode[model.DebtList](t, rec)
	require.Len(t, list.Items, 1)
	assert.Equal(t, first.ID, list.Items[0].ID)

	rec = do(t, h, http.MethodDelete, "/debts/"+first.ID, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/debts/"+first.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", decode[model.ErrorBody](t, rec).Error)
}

func TestCreateDebtValidation(t *testing.T) {
	h := newTestServer(t).Handler()
	_, token := signIn(t, h, "eve@example.com")

	tests := []struct {
		name  string
		body  map[string]any
		token string
		msg   string
	}{
		{"missing title", map[string]any{"title": "  "}, token, "title is required"},
		{"no owner", map[string]any{"title": "Rent"}, "", "created_by is required"},
		{"bad status", map[string]any{"title": "Rent", "status": "paid"}, token, "invalid status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/debts", tt.body, tt.token)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.msg, decode[model.ErrorBody](t, rec).Error)
		})
	}

	rec := do(t, h, http.MethodPost, "/debts", map[string]any{"title": "Rent", "created_by": "someone"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "someone", decode[model.Debt](t, rec).CreatedBy)
}

func TestUpdateDebtValidation(t *testing.T) {
	h := newTestServer(t).Handler()
	_, token := signIn(t, h, "fay@example.com")
	rec := do(t, h, http.MethodPost, "/debts", map[string]any{"title": "Gift", "description": "birthday"}, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	debt := decode[model.Debt](t, rec)

	rec = do(t, h, http.MethodPut, "/debts/"+debt.ID, map[string]any{"title": " "}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "title cannot be empty", decode[model.ErrorBody](t, rec).Error)

	rec = do(t, h, http.MethodPut, "/debts/"+debt.ID, map[string]any{"status": "lost"}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/debts/"+debt.ID, map[string]any{"description": ""}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[model.Debt](t, rec).Description)

	rec = do(t, h, http.MethodPut, "/debts/nope", map[string]any{"status": "open"}, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, h, http.MethodDelete, "/debts/nope", nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t).Handler()
	req := httptest.NewRequest(http.MethodOptions, "/debts", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Less(t, rec.Code, 300)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestBearer(t *testing.T) {
	tok, ok := bearer("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = bearer("Bearer ")
	assert.False(t, ok)
	_, ok = bearer("Basic abc")
	assert.False(t, ok)
}
