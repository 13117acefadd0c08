package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"searchlog/internal/app"
	"searchlog/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mem := store.NewMemoryStore()
	appCore, err := app.New(app.Config{Store: mem, Sessions: mem})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	srv := httptest.NewServer(New(Config{App: appCore}).Router())
	t.Cleanup(srv.Close)
	return srv
}

func newSessionClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func postJSON(t *testing.T, client *http.Client, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func message(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body map[string]string
	decodeBody(t, resp, &body)
	return body["message"]
}

func registerUser(t *testing.T, client *http.Client, baseURL, email, password string) map[string]any {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/auth/register", map[string]string{
		"email":     email,
		"password":  password,
		"firstName": "Alice",
		"lastName":  "Smith",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register expected 200, got %d", resp.StatusCode)
	}
	var profile map[string]any
	decodeBody(t, resp, &profile)
	return profile
}

func TestSessionEndpointsRejectUnauthenticated(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth/user"},
		{http.MethodPost, "/api/search"},
		{http.MethodGet, "/api/history"},
	}
	for _, tc := range cases {
		req, _ := http.NewRequest(tc.method, srv.URL+tc.path, strings.NewReader("{}"))
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", tc.method, tc.path, err)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tc.method, tc.path, resp.StatusCode)
		}
		if msg := message(t, resp); msg != "Unauthorized" {
			t.Fatalf("%s %s: expected Unauthorized message, got %q", tc.method, tc.path, msg)
		}
	}
}

func TestRegisterSearchHistoryFlow(t *testing.T) {
	srv := newTestServer(t)
	client := newSessionClient(t)

	profile := registerUser(t, client, srv.URL, "alice@example.com", "pw123")
	if profile["email"] != "alice@example.com" {
		t.Fatalf("expected profile email, got %v", profile["email"])
	}
	if profile["id"] == "" || profile["id"] == nil {
		t.Fatalf("expected profile id, got %v", profile["id"])
	}
	if _, exposed := profile["passwordHash"]; exposed {
		t.Fatalf("profile must not expose the password hash")
	}

	// The register response started a session; /api/auth/user resolves it.
	resp, err := client.Get(srv.URL + "/api/auth/user")
	if err != nil {
		t.Fatalf("auth user: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("auth user expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, client, srv.URL+"/api/search", map[string]string{"query": "cats"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search expected 200, got %d", resp.StatusCode)
	}
	var searchBody struct {
		Query   string `json:"query"`
		Results []struct {
			Title string `json:"title"`
			URL   string `json:"url"`
			Rank  int    `json:"rank"`
		} `json:"results"`
	}
	decodeBody(t, resp, &searchBody)
	if searchBody.Query != "cats" {
		t.Fatalf("expected echoed query, got %q", searchBody.Query)
	}
	if len(searchBody.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(searchBody.Results))
	}
	for i, res := range searchBody.Results {
		if res.Rank != i+1 {
			t.Fatalf("result %d: expected rank %d, got %d", i, i+1, res.Rank)
		}
		if !strings.Contains(res.Title, "cats") {
			t.Fatalf("result %d: title %q does not contain query text", i, res.Title)
		}
	}

	resp, err = client.Get(srv.URL + "/api/history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("history expected 200, got %d", resp.StatusCode)
	}
	var history []struct {
		ID        int64  `json:"id"`
		QueryText string `json:"queryText"`
		CreatedAt string `json:"createdAt"`
	}
	decodeBody(t, resp, &history)
	if len(history) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(history))
	}
	if history[0].QueryText != "cats" {
		t.Fatalf("expected queryText cats, got %q", history[0].QueryText)
	}
	if history[0].ID == 0 || history[0].CreatedAt == "" {
		t.Fatalf("expected id and createdAt on history entry, got %+v", history[0])
	}
}

func TestRegisterValidationAndDuplicateEmail(t *testing.T) {
	srv := newTestServer(t)
	client := newSessionClient(t)

	resp := postJSON(t, client, srv.URL+"/api/auth/register", map[string]string{"email": "a@example.com"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing password expected 400, got %d", resp.StatusCode)
	}
	if msg := message(t, resp); msg != "Email and password are required" {
		t.Fatalf("unexpected message %q", msg)
	}

	registerUser(t, client, srv.URL, "a@example.com", "pw123")

	resp = postJSON(t, newSessionClient(t), srv.URL+"/api/auth/register", map[string]string{
		"email":    "a@example.com",
		"password": "different-pw",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate email expected 400, got %d", resp.StatusCode)
	}
	if msg := message(t, resp); msg != "Email already registered" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestLoginWrongPasswordLeavesSessionUnauthenticated(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, newSessionClient(t), srv.URL, "alice@example.com", "pw123")

	client := newSessionClient(t)
	resp := postJSON(t, client, srv.URL+"/api/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong password expected 401, got %d", resp.StatusCode)
	}
	if msg := message(t, resp); msg != "Invalid email or password" {
		t.Fatalf("unexpected message %q", msg)
	}

	historyResp, err := client.Get(srv.URL + "/api/history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	historyResp.Body.Close()
	if historyResp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected session to stay unauthenticated, got %d", historyResp.StatusCode)
	}
}

func TestLoginThenHistorySeesEarlierQueries(t *testing.T) {
	srv := newTestServer(t)
	first := newSessionClient(t)
	registerUser(t, first, srv.URL, "alice@example.com", "pw123")
	resp := postJSON(t, first, srv.URL+"/api/search", map[string]string{"query": "dogs"})
	resp.Body.Close()

	second := newSessionClient(t)
	resp = postJSON(t, second, srv.URL+"/api/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "pw123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	historyResp, err := second.Get(srv.URL + "/api/history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var history []struct {
		QueryText string `json:"queryText"`
	}
	decodeBody(t, historyResp, &history)
	if len(history) != 1 || history[0].QueryText != "dogs" {
		t.Fatalf("expected earlier query in history, got %+v", history)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	srv := newTestServer(t)
	client := newSessionClient(t)
	registerUser(t, client, srv.URL, "alice@example.com", "pw123")

	resp := postJSON(t, client, srv.URL+"/api/search", map[string]string{"query": ""})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty query expected 400, got %d", resp.StatusCode)
	}
	if msg := message(t, resp); msg != "Query is required" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestLogoutEndsSessionAndIsIdempotent(t *testing.T) {
	srv := newTestServer(t)
	client := newSessionClient(t)
	registerUser(t, client, srv.URL, "alice@example.com", "pw123")

	resp := postJSON(t, client, srv.URL+"/api/logout", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout expected 200, got %d", resp.StatusCode)
	}
	if msg := message(t, resp); msg != "Logged out" {
		t.Fatalf("unexpected message %q", msg)
	}

	historyResp, err := client.Get(srv.URL + "/api/history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	historyResp.Body.Close()
	if historyResp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", historyResp.StatusCode)
	}

	// Logging out again without a session is still a 200 ack.
	resp = postJSON(t, client, srv.URL+"/api/logout", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second logout expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestHistoryIsBoundedToTwenty(t *testing.T) {
	srv := newTestServer(t)
	client := newSessionClient(t)
	registerUser(t, client, srv.URL, "alice@example.com", "pw123")

	for i := 1; i <= 25; i++ {
		resp := postJSON(t, client, srv.URL+"/api/search", map[string]string{
			"query": fmt.Sprintf("query %d", i),
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("search %d expected 200, got %d", i, resp.StatusCode)
		}
		resp.Body.Close()
	}

	resp, err := client.Get(srv.URL + "/api/history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var history []struct {
		QueryText string `json:"queryText"`
	}
	decodeBody(t, resp, &history)
	if len(history) != 20 {
		t.Fatalf("expected 20 history entries, got %d", len(history))
	}
	if history[0].QueryText != "query 25" {
		t.Fatalf("expected newest first, got %q", history[0].QueryText)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	client := newSessionClient(t)
	registerUser(t, client, srv.URL, "alice@example.com", "pw123")

	resp, err := client.Get(srv.URL + "/api/auth/register")
	if err != nil {
		t.Fatalf("GET register: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("GET register expected 405, got %d", resp.StatusCode)
	}

	resp, err = client.Get(srv.URL + "/api/search")
	if err != nil {
		t.Fatalf("GET search: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("GET search expected 405, got %d", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz expected 200, got %d", resp.StatusCode)
	}
}
