package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ecomm-platform/ecomm/internal/auth/application"
	"github.com/ecomm-platform/ecomm/internal/auth/domain"
	"github.com/ecomm-platform/ecomm/pkg/token"
	"github.com/gin-gonic/gin"
)

type memUserRepo struct {
	users map[string]*domain.User
	next  uint
}

func (r *memUserRepo) Save(_ context.Context, user *domain.User) error {
	if user.ID == 0 {
		r.next++
		user.ID = r.next
	}
	r.users[user.Username] = user
	return nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.users[username], nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uint) (*domain.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, nil
}

type memSessionRepo struct {
	sessions map[string]*domain.Session
}

func (r *memSessionRepo) Save(_ context.Context, session *domain.Session) error {
	r.sessions[session.Token] = session
	return nil
}

func (r *memSessionRepo) Get(_ context.Context, raw string) (*domain.Session, error) {
	return r.sessions[raw], nil
}

func (r *memSessionRepo) Delete(_ context.Context, raw string) error {
	delete(r.sessions, raw)
	return nil
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	users := &memUserRepo{users: make(map[string]*domain.User)}
	sessions := &memSessionRepo{sessions: make(map[string]*domain.Session)}
	tokens := token.NewManager("test-secret", time.Hour, "auth-service")
	cmd := application.NewAuthCommandService(users, sessions, tokens, nil, nil)
	query := application.NewAuthQueryService(users, sessions, tokens)

	router := gin.New()
	NewHandler(cmd, query).RegisterRoutes(router.Group("/api"))
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthFlow(t *testing.T) {
	router := newAuthRouter()

	w := postJSON(router, "/api/auth/register", `{"username":"alice","password":"secret","role":"BUYER"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want 201: %s", w.Code, w.Body.String())
	}

	var registered application.AuthResult
	if err := json.Unmarshal(w.Body.Bytes(), &registered); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if registered.Token == "" {
		t.Fatal("expected token in register response")
	}

	w = postJSON(router, "/api/auth/login", `{"username":"alice","password":"secret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var loggedIn application.AuthResult
	if err := json.Unmarshal(w.Body.Bytes(), &loggedIn); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if loggedIn.Message != "Login successful" {
		t.Errorf("Message = %q", loggedIn.Message)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/validate-token", nil)
	req.Header.Set("Authorization", "Bearer "+loggedIn.Token)
	wv := httptest.NewRecorder()
	router.ServeHTTP(wv, req)
	if wv.Code != http.StatusOK {
		t.Fatalf("validate status = %d, want 200: %s", wv.Code, wv.Body.String())
	}
	if !strings.Contains(wv.Body.String(), "Token is valid") {
		t.Errorf("body = %s, want token valid message", wv.Body.String())
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	router := newAuthRouter()

	if w := postJSON(router, "/api/auth/register", `{"username":"alice","password":"secret","role":"BUYER"}`); w.Code != http.StatusCreated {
		t.Fatalf("first register status = %d", w.Code)
	}

	w := postJSON(router, "/api/auth/register", `{"username":"alice","password":"other","role":"ADMIN"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Username already exists") {
		t.Errorf("body = %s, want duplicate username message", w.Body.String())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	router := newAuthRouter()

	if w := postJSON(router, "/api/auth/register", `{"username":"alice","password":"secret","role":"BUYER"}`); w.Code != http.StatusCreated {
		t.Fatalf("register status = %d", w.Code)
	}

	w := postJSON(router, "/api/auth/login", `{"username":"alice","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("login status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid username or password") {
		t.Errorf("body = %s, want invalid credentials message", w.Body.String())
	}
}

func TestValidateTokenRejectsBadHeader(t *testing.T) {
	router := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/validate-token", nil)
	req.Header.Set("Authorization", "garbage")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid or expired token") {
		t.Errorf("body = %s, want invalid token message", w.Body.String())
	}
}
