package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"points-exchange/models"
)

// fakeBackend is a minimal in-process stand-in for the server: fixed
// responses per route plus request counters, so tests can assert exactly
// how many calls a controller issued.
type fakeBackend struct {
	t  *testing.T
	mu sync.Mutex

	profile  models.Profile
	channels []models.Channel

	calls         map[string]int
	failWith      map[string]apiFailure
	profileEvents chan models.Profile
}

type apiFailure struct {
	status  int
	message string
}

func newFakeBackend(t *testing.T) (*fakeBackend, *Gateway) {
	t.Helper()
	fb := &fakeBackend{
		t: t,
		profile: models.Profile{
			ID:           "user-1",
			Email:        "user@example.com",
			Points:       5.0,
			ReferralCode: "ABCD2345",
		},
		calls:         map[string]int{},
		failWith:      map[string]apiFailure{},
		profileEvents: make(chan models.Profile, 8),
	}

	srv := httptest.NewServer(http.HandlerFunc(fb.handle))
	t.Cleanup(srv.Close)

	gateway := NewGateway(srv.URL)
	gateway.token = "test-token"
	return fb, gateway
}

func (f *fakeBackend) fail(route string, status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWith[route] = apiFailure{status: status, message: message}
}

func (f *fakeBackend) callCount(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[route]
}

func (f *fakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	route := r.Method + " " + r.URL.Path

	f.mu.Lock()
	f.calls[route]++
	failure, failing := f.failWith[route]
	profile := f.profile
	channels := f.channels
	f.mu.Unlock()

	if failing {
		w.WriteHeader(failure.status)
		json.NewEncoder(w).Encode(map[string]string{"error": failure.message})
		return
	}

	if route == "GET /profiles/me/stream" {
		f.streamProfile(w, r)
		return
	}

	if id, ok := strings.CutPrefix(r.URL.Path, "/channels/"); ok {
		switch r.Method {
		case http.MethodPatch:
			var in struct {
				Active bool `json:"active"`
			}
			json.NewDecoder(r.Body).Decode(&in)
			for _, ch := range channels {
				if ch.ID == id {
					ch.Active = in.Active
					json.NewEncoder(w).Encode(ch)
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "channel not found"})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	switch route {
	case "POST /auth/signin", "POST /auth/signup":
		json.NewEncoder(w).Encode(map[string]string{"access_token": "test-token"})
	case "GET /auth/session":
		json.NewEncoder(w).Encode(SessionInfo{
			UserID:           profile.ID,
			Email:            profile.Email,
			ProfileCompleted: profile.Completed(),
		})
	case "GET /profiles/me", "PUT /profiles/me":
		json.NewEncoder(w).Encode(profile)
	case "GET /channels":
		json.NewEncoder(w).Encode(channels)
	case "POST /channels":
		var in struct {
			Name string `json:"name"`
		}
		json.NewDecoder(r.Body).Decode(&in)
		json.NewEncoder(w).Encode(models.Channel{ID: "ch-new", Name: in.Name, Active: true})
	case "POST /rpc/claim_ad_reward", "POST /rpc/claim_follow_reward", "POST /rpc/set_referrer":
		json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	case "GET /profiles/referrals/stats":
		json.NewEncoder(w).Encode(map[string]interface{}{"count": 2, "earnings": 40.8})
	case "GET /transactions":
		json.NewEncoder(w).Encode([]models.Transaction{})
	default:
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
	}
}

// streamProfile serves the change-notification stream: every profile
// pushed via pushProfile goes out as one `profile` event. Returns when
// the subscriber cancels.
func (f *fakeBackend) streamProfile(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, ":\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case p := <-f.profileEvents:
			payload, _ := json.Marshal(p)
			fmt.Fprintf(w, "event: profile\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

func (f *fakeBackend) pushProfile(p models.Profile) {
	f.profileEvents <- p
}

func (f *fakeBackend) setChannels(channels []models.Channel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channels = channels
}

func (f *fakeBackend) setCountry(country string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profile.Country = &country
}

func testChannels() []models.Channel {
	return []models.Channel{
		{ID: "ch-1", Platform: models.PlatformTelegram, Name: "Alpha", URL: "https://t.me/alpha", Active: true},
		{ID: "ch-2", Platform: models.PlatformYouTube, Name: "Beta", URL: "https://youtube.com/@beta", Active: true},
	}
}

func toastMessages(toasts *Toasts) []string {
	var out []string
	for _, t := range toasts.Active() {
		out = append(out, t.Message)
	}
	return out
}
