package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ais-booking-backend/routes"
	"ais-booking-backend/services"
	"ais-booking-backend/session"
	"ais-booking-backend/storage"
	"ais-booking-backend/utils"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storage.NewMemoryStorage()
	hashed, err := utils.HashPassword("admin")
	require.NoError(t, err)
	_, err = store.CreateUser("admin", hashed)
	require.NoError(t, err)

	sessions := session.NewManager(session.NewMemoryStore(), time.Hour)
	srv := httptest.NewServer(routes.SetupRouter(store, sessions, services.NoopNotifier{}))
	t.Cleanup(srv.Close)
	return srv
}

// newHTTPClient returns a client with a cookie jar so the session cookie
// survives across requests, like a browser.
func newHTTPClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func doJSONList(t *testing.T, client *http.Client, url string) (int, []map[string]any) {
	t.Helper()

	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded []map[string]any
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func janePayload() map[string]any {
	return map[string]any{
		"fullName":      "Jane Doe",
		"email":         "jane@example.com",
		"phone":         "0712345678",
		"preferredDate": "2025-08-01",
		"service":       "Consultancy",
	}
}

func login(t *testing.T, client *http.Client, base, username, password string) int {
	t.Helper()
	status, _ := doJSON(t, client, http.MethodPost, base+"/api/login", map[string]any{
		"username": username,
		"password": password,
	})
	return status
}

func TestSubmitBookingCreatesClientAndBooking(t *testing.T) {
	srv := newTestServer(t)
	client := newHTTPClient(t)

	status, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/bookings", janePayload())
	require.Equal(t, http.StatusCreated, status)

	booking := body["booking"].(map[string]any)
	clientRecord := body["client"].(map[string]any)

	assert.Equal(t, "pending", booking["status"])
	assert.Equal(t, "jane@example.com", clientRecord["email"])
	assert.Equal(t, clientRecord["id"], booking["clientId"])
	assert.True(t, strings.HasPrefix(booking["bookingId"].(string), "BK-"))
}

func TestSubmitBookingReusesExistingClient(t *testing.T) {
	srv := newTestServer(t)
	client := newHTTPClient(t)

	status, first := doJSON(t, client, http.MethodPost, srv.URL+"/api/bookings", janePayload())
	require.Equal(t, http.StatusCreated, status)

	payload := janePayload()
	payload["fullName"] = "Jane D."
	payload["service"] = "Cybersecurity"
	status, second := doJSON(t, client, http.MethodPost, srv.URL+"/api/bookings", payload)
	require.Equal(t, http.StatusCreated, status)

	firstClient := first["client"].(map[string]any)
	secondClient := second["client"].(map[string]any)
	assert.Equal(t, firstClient["id"], secondClient["id"])
	// The original record wins; the later name is not applied.
	assert.Equal(t, "Jane Doe", secondClient["fullName"])

	require.Equal(t, http.StatusOK, login(t, client, srv.URL, "admin", "admin"))
	status, clients := doJSONList(t, client, srv.URL+"/api/clients")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, clients, 1)
}

func TestSubmitBookingValidation(t *testing.T) {
	srv := newTestServer(t)
	client := newHTTPClient(t)

	status, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/bookings", map[string]any{
		"fullName": "",
		"email":    "not-an-email",
		"phone":    "123",
		"service":  "Fortune Telling",
	})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_error", body["error"])

	fields := map[string]bool{}
	for _, e := range body["errors"].([]any) {
		fields[e.(map[string]any)["field"].(string)] = true
	}
	for _, f := range []string{"fullName", "email", "phone", "preferredDate", "service"} {
		assert.True(t, fields[f], "expected a field error for %s", f)
	}
}

func TestPublicBookingLookup(t *testing.T) {
	srv := newTestServer(t)
	client := newHTTPClient(t)

	status, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/bookings", janePayload())
	require.Equal(t, http.StatusCreated, status)
	booking := body["booking"].(map[string]any)
	id := int(booking["id"].(float64))
	publicID := booking["bookingId"].(string)

	status, fetched := doJSON(t, client, http.MethodGet, fmt.Sprintf("%s/api/bookings/%d", srv.URL, id), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, publicID, fetched["bookingId"])
	assert.Equal(t, "jane@example.com", fetched["client"].(map[string]any)["email"])

	status, fetched = doJSON(t, client, http.MethodGet, srv.URL+"/api/bookings/"+publicID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(id), fetched["id"])

	status, _ = doJSON(t, client, http.MethodGet, srv.URL+"/api/bookings/99999", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAdminEndpointsRequireSession(t *testing.T) {
	srv := newTestServer(t)
	client := newHTTPClient(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/bookings"},
		{http.MethodPatch, "/api/bookings/1"},
		{http.MethodDelete, "/api/bookings/1"},
		{http.MethodGet, "/api/clients"},
		{http.MethodGet, "/api/analytics"},
		{http.MethodGet, "/api/dashboard"},
	}
	for _, tc := range cases {
		status, body := doJSON(t, client, tc.method, srv.URL+tc.path, nil)
		assert.Equal(t, http.StatusUnauthorized, status, "%s %s", tc.method, tc.path)
		assert.Equal(t, "unauthorized", body["error"])
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv := newTestServer(t)

	// Wrong password and unknown user must be indistinguishable.
	wrongPass := newHTTPClient(t)
	status, body := doJSON(t, wrongPass, http.MethodPost, srv.URL+"/api/login", map[string]any{
		"username": "admin", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", body["message"])

	unknownUser := newHTTPClient(t)
	status, body = doJSON(t, unknownUser, http.MethodPost, srv.URL+"/api/login", map[string]any{
		"username": "nobody", "password": "admin",
	})
	require.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", body["message"])
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)
	client := newHTTPClient(t)

	status, body := doJSON(t, client, http.MethodGet, srv.URL+"/api/auth/check", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["isAuthenticated"])
	assert.Nil(t, body["userId"])

	require.Equal(t, http.StatusOK, login(t, client, srv.URL, "admin", "admin"))

	status, body = doJSON(t, client, http.MethodGet, srv.URL+"/api/auth/check", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["isAuthenticated"])
	assert.Equal(t, float64(1), body["userId"])

	status, _ = doJSON(t, client, http.MethodGet, srv.URL+"/api/analytics", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, client, http.MethodPost, srv.URL+"/api/logout", nil)
	require.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, client, http.MethodGet, srv.URL+"/api/auth/check", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["isAuthenticated"])

	status, _ = doJSON(t, client, http.MethodGet, srv.URL+"/api/analytics", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestUpdateBookingStatus(t *testing.T) {
	srv := newTestServer(t)
	client := newHTTPClient(t)

	status, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/bookings", janePayload())
	require.Equal(t, http.StatusCreated, status)
	booking := body["booking"].(map[string]any)
	id := int(booking["id"].(float64))
	createdUpdatedAt, err := time.Parse(time.RFC3339Nano, booking["updatedAt"].(string))
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, login(t, client, srv.URL, "admin", "admin"))

	url := fmt.Sprintf("%s/api/bookings/%d", srv.URL, id)
	status, updated := doJSON(t, client, http.MethodPatch, url, map[string]any{
		"status":     "completed",
		"assignedTo": "Alex",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "completed", updated["status"])
	assert.Equal(t, "Alex", updated["assignedTo"])

	newUpdatedAt, err := time.Parse(time.RFC3339Nano, updated["updatedAt"].(string))
	require.NoError(t, err)
	assert.True(t, newUpdatedAt.After(createdUpdatedAt))

	status, fetched := doJSON(t, client, http.MethodGet, url, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "completed", fetched["status"])

	status, body = doJSON(t, client, http.MethodPatch, url, map[string]any{"status": "archived"})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_error", body["error"])

	status, _ = doJSON(t, client, http.MethodPatch, srv.URL+"/api/bookings/99999", map[string]any{"status": "completed"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDeleteBookingTwice(t *testing.T) {
	srv := newTestServer(t)
	client := newHTTPClient(t)

	status, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/bookings", janePayload())
	require.Equal(t, http.StatusCreated, status)
	id := int(body["booking"].(map[string]any)["id"].(float64))

	require.Equal(t, http.StatusOK, login(t, client, srv.URL, "admin", "admin"))

	url := fmt.Sprintf("%s/api/bookings/%d", srv.URL, id)
	status, _ = doJSON(t, client, http.MethodDelete, url, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, client, http.MethodDelete, url, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, bookings := doJSONList(t, client, srv.URL+"/api/bookings")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, bookings)
}

func TestAnalyticsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	client := newHTTPClient(t)

	status, _ := doJSON(t, client, http.MethodPost, srv.URL+"/api/bookings", janePayload())
	require.Equal(t, http.StatusCreated, status)

	require.Equal(t, http.StatusOK, login(t, client, srv.URL, "admin", "admin"))

	status, analytics := doJSON(t, client, http.MethodGet, srv.URL+"/api/analytics", nil)
	require.Equal(t, http.StatusOK, status)
	assert.GreaterOrEqual(t, analytics["totalBookings"].(float64), float64(1))
	assert.Equal(t, float64(1), analytics["pendingBookings"])
	assert.Equal(t, float64(0), analytics["completedBookings"])
	assert.Equal(t, float64(1), analytics["activeClients"])
}

func TestDashboardOverview(t *testing.T) {
	srv := newTestServer(t)
	client := newHTTPClient(t)

	status, _ := doJSON(t, client, http.MethodPost, srv.URL+"/api/bookings", janePayload())
	require.Equal(t, http.StatusCreated, status)

	require.Equal(t, http.StatusOK, login(t, client, srv.URL, "admin", "admin"))

	status, overview := doJSON(t, client, http.MethodGet, srv.URL+"/api/dashboard", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), overview["bookingsThisMonth"])
	assert.Equal(t, float64(1), overview["totalClients"])

	breakdown := overview["statusBreakdown"].(map[string]any)
	assert.Equal(t, float64(1), breakdown["pending"])

	recent := overview["recentBookings"].([]any)
	require.Len(t, recent, 1)
	entry := recent[0].(map[string]any)
	assert.Equal(t, "Jane Doe", entry["clientName"])
	assert.Equal(t, "Today", entry["submitted"])
}

func TestConcurrentSubmissionsSameEmail(t *testing.T) {
	srv := newTestServer(t)

	const submissions = 2
	statuses := make([]int, submissions)
	var wg sync.WaitGroup
	for i := 0; i < submissions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status, _ := doJSON(t, newHTTPClient(t), http.MethodPost, srv.URL+"/api/bookings", janePayload())
			statuses[i] = status
		}(i)
	}
	wg.Wait()

	for _, status := range statuses {
		assert.Equal(t, http.StatusCreated, status)
	}

	admin := newHTTPClient(t)
	require.Equal(t, http.StatusOK, login(t, admin, srv.URL, "admin", "admin"))

	status, clients := doJSONList(t, admin, srv.URL+"/api/clients")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, clients, 1)

	status, bookings := doJSONList(t, admin, srv.URL+"/api/bookings")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, bookings, submissions)
}

func TestListBookingsStatusFilter(t *testing.T) {
	srv := newTestServer(t)
	client := newHTTPClient(t)

	status, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/bookings", janePayload())
	require.Equal(t, http.StatusCreated, status)
	id := int(body["booking"].(map[string]any)["id"].(float64))

	payload := janePayload()
	payload["email"] = "other@example.com"
	status, _ = doJSON(t, client, http.MethodPost, srv.URL+"/api/bookings", payload)
	require.Equal(t, http.StatusCreated, status)

	require.Equal(t, http.StatusOK, login(t, client, srv.URL, "admin", "admin"))

	url := fmt.Sprintf("%s/api/bookings/%d", srv.URL, id)
	status, _ = doJSON(t, client, http.MethodPatch, url, map[string]any{"status": "completed"})
	require.Equal(t, http.StatusOK, status)

	status, completed := doJSONList(t, client, srv.URL+"/api/bookings?status=completed")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, completed, 1)
	assert.Equal(t, float64(id), completed[0]["id"])

	status, pending := doJSONList(t, client, srv.URL+"/api/bookings?status=pending")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, pending, 1)

	status, _ = doJSON(t, client, http.MethodGet, srv.URL+"/api/bookings?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
