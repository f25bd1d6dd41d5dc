package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"nexusjob_backend/database"
	"nexusjob_backend/internal/app"
	"nexusjob_backend/internal/config"
)

// TestServer bundles a running httptest server with its database handle
// so tests can both call the API and seed rows directly.
type TestServer struct {
	Server   *httptest.Server
	DB       *gorm.DB
	shutdown func()
}

// NewTestServer connects to the database named by DATABASE_URL, migrates
// it and starts the full application on an httptest listener.
func NewTestServer(t *testing.T) *TestServer {
	config.LoadConfig()
	cfg := config.GetConfig()
	dsn := cfg.Database.DSN

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to test database (%s): %v", dsn, err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	router, shutdown := app.SetupRouter(cfg, db)
	server := httptest.NewServer(router)

	return &TestServer{
		Server:   server,
		DB:       db,
		shutdown: shutdown,
	}
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	ts.shutdown()
	sqlDB, _ := ts.DB.DB()
	sqlDB.Close()
}

// ClearTables truncates every application table between test cases.
func (ts *TestServer) ClearTables() {
	err := ts.DB.Exec("TRUNCATE TABLE profiles, jobs, applications, notifications, chat.chats, chat.messages RESTART IDENTITY CASCADE").Error
	if err != nil {
		panic("failed to clear tables: " + err.Error())
	}
}

// SendRequest performs an API call against the test server and returns
// the response plus its body as a string.
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	url := ts.Server.URL + path

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("failed to send request: %v", err)
	}

	resBodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	defer res.Body.Close()

	return res, string(resBodyBytes)
}
