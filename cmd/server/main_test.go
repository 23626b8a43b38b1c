package main

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/handlers"
	applog "finance-tracker/internal/log"
	"finance-tracker/internal/storage"
	"finance-tracker/web"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSetupRouter(t *testing.T) {
	// Setup dependencies
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err, "failed to create database")
	defer db.Close()

	h := handlers.NewHandlers(auth.NewService(db, auth.WithCost(bcrypt.MinCost)), db, applog.Discard())

	static, err := fs.Sub(web.StaticFS, "static")
	require.NoError(t, err)

	mux := setupRouter(h, static, []string{"*"})

	// Verify routes
	tests := []struct {
		name        string
		method      string
		path        string
		body        string
		wantStatus  int
		wantContain string
	}{
		{
			name:        "Root serves tracker page",
			method:      "GET",
			path:        "/",
			wantStatus:  http.StatusOK,
			wantContain: `id="transactionForm"`,
		},
		{
			name:        "Static script",
			method:      "GET",
			path:        "/static/script.js",
			wantStatus:  http.StatusOK,
			wantContain: "Please fill out all fields correctly.",
		},
		{
			name:       "Unknown page",
			method:     "GET",
			path:       "/expenses",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "Health",
			method:     "GET",
			path:       "/healthz",
			wantStatus: http.StatusOK,
		},
		{
			name:        "Register",
			method:      "POST",
			path:        "/api/register",
			body:        `{"email":"ann@example.com","username":"ann","password":"s3cret"}`,
			wantStatus:  http.StatusCreated,
			wantContain: "User registered successfully",
		},
		{
			name:        "Register again",
			method:      "POST",
			path:        "/api/register",
			body:        `{"email":"ann@example.com","username":"ann","password":"s3cret"}`,
			wantStatus:  http.StatusConflict,
			wantContain: "User already exists",
		},
		{
			name:        "Login",
			method:      "POST",
			path:        "/api/login",
			body:        `{"email":"ann@example.com","password":"s3cret"}`,
			wantStatus:  http.StatusOK,
			wantContain: "Login successful",
		},
		{
			name:       "Login requires POST",
			method:     "GET",
			path:       "/api/login",
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code, "%s %s returned unexpected status", tt.method, tt.path)
			if tt.wantContain != "" {
				assert.Contains(t, w.Body.String(), tt.wantContain)
			}
		})
	}
}

func TestSetupRouter_CORS(t *testing.T) {
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	h := handlers.NewHandlers(auth.NewService(db), db, applog.Discard())
	static, err := fs.Sub(web.StaticFS, "static")
	require.NoError(t, err)
	mux := setupRouter(h, static, []string{"*"})

	req := httptest.NewRequest(http.MethodOptions, "/api/login", http.NoBody)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
