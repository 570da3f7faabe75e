package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/MikeSquared-Agency/huddle/internal/chat"
	"github.com/MikeSquared-Agency/huddle/internal/dateexpr"
	"github.com/MikeSquared-Agency/huddle/internal/intent"
	"github.com/MikeSquared-Agency/huddle/internal/metrics"
	"github.com/MikeSquared-Agency/huddle/internal/schedule"
	"github.com/MikeSquared-Agency/huddle/internal/store"
	"github.com/MikeSquared-Agency/huddle/internal/timeexpr"
)

var fixedNow = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

var knownMeeting = store.Meeting{
	ID:           uuid.MustParse("9f6ed519-0000-0000-0000-000000000001"),
	Date:         "2026-10-16",
	Time:         "3:00 PM",
	Participants: []string{"alice@x.com"},
	Status:       store.StatusScheduled,
}

type fakeStore struct {
	messages []chat.Message
	statuses map[uuid.UUID]string
	fail     bool
}

func (f *fakeStore) ListMessages(_ context.Context, limit int) ([]chat.Message, error) {
	if f.fail {
		return nil, errors.New("db down")
	}
	if len(f.messages) > limit {
		return f.messages[len(f.messages)-limit:], nil
	}
	return f.messages, nil
}

func (f *fakeStore) ListMessagesByUser(_ context.Context, email string) ([]chat.Message, error) {
	out := []chat.Message{}
	for _, m := range f.messages {
		if m.SenderEmail == email {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateUser(_ context.Context, name, email string) (*store.User, error) {
	return &store.User{ID: uuid.New(), Name: name, Email: email, CreatedAt: fixedNow}, nil
}

func (f *fakeStore) ListUsers(context.Context) ([]store.User, error) {
	return []store.User{{Name: "Alice", Email: "alice@x.com"}}, nil
}

func (f *fakeStore) ListMeetings(context.Context) ([]store.Meeting, error) {
	return []store.Meeting{knownMeeting}, nil
}

func (f *fakeStore) GetMeeting(_ context.Context, id uuid.UUID) (*store.Meeting, error) {
	if id != knownMeeting.ID {
		return nil, fmt.Errorf("get meeting %s: %w", id, store.ErrNotFound)
	}
	m := knownMeeting
	return &m, nil
}

func (f *fakeStore) UpdateMeetingStatus(_ context.Context, id uuid.UUID, status string) error {
	if !store.ValidStatus(status) {
		return fmt.Errorf("%w: %q", store.ErrInvalidStatus, status)
	}
	if id != knownMeeting.ID {
		return store.ErrNotFound
	}
	if f.statuses == nil {
		f.statuses = map[uuid.UUID]string{}
	}
	f.statuses[id] = status
	return nil
}

func (f *fakeStore) Statistics(context.Context) (*store.Statistics, error) {
	return &store.Statistics{TotalMessages: len(f.messages), MeetingsByStatus: map[string]int{}}, nil
}

type fakeScheduler struct {
	ingested []chat.Message
	result   *schedule.Result
	err      error
}

func (f *fakeScheduler) Ingest(_ context.Context, m chat.Message) (chat.Message, error) {
	m.ID = "msg-1"
	f.ingested = append(f.ingested, m)
	return m, nil
}

func (f *fakeScheduler) Schedule(context.Context) (*schedule.Result, error) {
	return f.result, f.err
}

func newTestServer(token string, st *fakeStore, sched *fakeScheduler) *Server {
	reg := prometheus.NewRegistry()
	metrics.New(reg)
	return NewServer(8760, token, Deps{
		Store:     st,
		Scheduler: sched,
		Parser:    intent.NewParser(dateexpr.New(func() time.Time { return fixedNow }), timeexpr.New()),
		Gatherer:  reg,
		Now:       func() time.Time { return fixedNow },
	})
}

func do(srv *Server, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer("", &fakeStore{}, &fakeScheduler{})

	w := do(srv, "GET", "/health", "", "")

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv := newTestServer("", &fakeStore{}, &fakeScheduler{})

	w := do(srv, "GET", "/api/v1/huddle/status", "", "")

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["agent"] != "huddle" {
		t.Errorf("expected agent huddle, got %q", body["agent"])
	}
}

func TestStatusEndpoint_Degraded(t *testing.T) {
	srv := newTestServer("", &fakeStore{}, &fakeScheduler{})
	srv.deps.Ready = func(context.Context) error { return errors.New("database unreachable") }

	w := do(srv, "GET", "/api/v1/huddle/status", "", "")

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer("secret", &fakeStore{}, &fakeScheduler{})

	w := do(srv, "GET", "/metrics", "", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 without auth, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "huddle_messages_ingested_total") {
		t.Errorf("expected huddle metrics in body, got %s", w.Body.String())
	}
}

func TestNotFoundEndpoint(t *testing.T) {
	srv := newTestServer("", &fakeStore{}, &fakeScheduler{})

	w := do(srv, "GET", "/nonexistent", "", "")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestBearerAuth(t *testing.T) {
	srv := newTestServer("secret", &fakeStore{}, &fakeScheduler{})

	if w := do(srv, "GET", "/api/v1/meetings", "", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("missing token: expected 401, got %d", w.Code)
	}
	if w := do(srv, "GET", "/api/v1/meetings", "", "wrong"); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token: expected 401, got %d", w.Code)
	}
	if w := do(srv, "GET", "/api/v1/meetings", "", "secret"); w.Code != http.StatusOK {
		t.Errorf("valid token: expected 200, got %d", w.Code)
	}
}

func TestCreateMessage(t *testing.T) {
	sched := &fakeScheduler{}
	srv := newTestServer("", &fakeStore{}, sched)

	w := do(srv, "POST", "/api/v1/messages", `{"name":"Alice","email":"alice@x.com","message":"meeting at 3?"}`, "")

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(sched.ingested) != 1 || sched.ingested[0].Text != "meeting at 3?" {
		t.Errorf("unexpected ingested messages: %+v", sched.ingested)
	}
	var body chat.Message
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.ID != "msg-1" || body.SenderEmail != "alice@x.com" {
		t.Errorf("unexpected response: %+v", body)
	}
}

func TestCreateMessage_Invalid(t *testing.T) {
	srv := newTestServer("", &fakeStore{}, &fakeScheduler{})

	for _, body := range []string{`not json`, `{"email":"alice@x.com"}`, `{"message":"hi"}`} {
		if w := do(srv, "POST", "/api/v1/messages", body, ""); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, w.Code)
		}
	}
}

func TestListMessages(t *testing.T) {
	st := &fakeStore{messages: []chat.Message{
		{SenderEmail: "alice@x.com", Text: "one"},
		{SenderEmail: "bob@x.com", Text: "two"},
		{SenderEmail: "alice@x.com", Text: "three"},
	}}
	srv := newTestServer("", st, &fakeScheduler{})

	w := do(srv, "GET", "/api/v1/messages?limit=2", "", "")
	var msgs []chat.Message
	json.NewDecoder(w.Body).Decode(&msgs)
	if len(msgs) != 2 || msgs[0].Text != "two" {
		t.Errorf("unexpected messages: %+v", msgs)
	}

	w = do(srv, "GET", "/api/v1/messages/user/alice@x.com", "", "")
	msgs = nil
	json.NewDecoder(w.Body).Decode(&msgs)
	if len(msgs) != 2 {
		t.Errorf("expected 2 messages for alice, got %d", len(msgs))
	}

	if w := do(srv, "GET", "/api/v1/messages?limit=zero", "", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad limit, got %d", w.Code)
	}
}

func TestListMessages_StoreError(t *testing.T) {
	srv := newTestServer("", &fakeStore{fail: true}, &fakeScheduler{})

	w := do(srv, "GET", "/api/v1/messages", "", "")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestUsers(t *testing.T) {
	srv := newTestServer("", &fakeStore{}, &fakeScheduler{})

	if w := do(srv, "POST", "/api/v1/users", `{"name":"Bob","email":"bob@x.com"}`, ""); w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if w := do(srv, "POST", "/api/v1/users", `{"name":"Bob"}`, ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if w := do(srv, "GET", "/api/v1/users", "", ""); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestSchedule(t *testing.T) {
	tests := []struct {
		name     string
		result   *schedule.Result
		err      error
		wantCode int
	}{
		{"scheduled", &schedule.Result{Status: schedule.StatusScheduled, MeetingCount: 1}, nil, http.StatusOK},
		{"needs info", &schedule.Result{Status: schedule.StatusNeedsInfo, MissingInfo: []string{"date"}}, nil, http.StatusOK},
		{"no messages", nil, schedule.ErrNoMessages, http.StatusBadRequest},
		{"no intent", nil, schedule.ErrNoIntent, http.StatusBadRequest},
		{"failure", nil, errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer("", &fakeStore{}, &fakeScheduler{result: tt.result, err: tt.err})

			w := do(srv, "POST", "/api/v1/schedule", "", "")

			if w.Code != tt.wantCode {
				t.Errorf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
		})
	}
}

func TestGetMeeting(t *testing.T) {
	srv := newTestServer("", &fakeStore{}, &fakeScheduler{})

	w := do(srv, "GET", "/api/v1/meetings/"+knownMeeting.ID.String(), "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var m store.Meeting
	json.NewDecoder(w.Body).Decode(&m)
	if m.Time != "3:00 PM" {
		t.Errorf("unexpected meeting: %+v", m)
	}

	if w := do(srv, "GET", "/api/v1/meetings/"+uuid.NewString(), "", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if w := do(srv, "GET", "/api/v1/meetings/not-a-uuid", "", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestUpdateMeetingStatus(t *testing.T) {
	st := &fakeStore{}
	srv := newTestServer("", st, &fakeScheduler{})
	path := "/api/v1/meetings/" + knownMeeting.ID.String() + "/status"

	if w := do(srv, "PUT", path, `{"status":"cancelled"}`, ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if st.statuses[knownMeeting.ID] != store.StatusCancelled {
		t.Errorf("status not updated: %v", st.statuses)
	}

	if w := do(srv, "PUT", path, `{"status":"postponed"}`, ""); w.Code != http.StatusBadRequest {
		t.Errorf("invalid status: expected 400, got %d", w.Code)
	}
	if w := do(srv, "PUT", path, `{}`, ""); w.Code != http.StatusBadRequest {
		t.Errorf("missing status: expected 400, got %d", w.Code)
	}
	other := "/api/v1/meetings/" + uuid.NewString() + "/status"
	if w := do(srv, "PUT", other, `{"status":"confirmed"}`, ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown meeting: expected 404, got %d", w.Code)
	}
}

func TestStatistics(t *testing.T) {
	srv := newTestServer("", &fakeStore{messages: []chat.Message{{Text: "hi"}}}, &fakeScheduler{})

	w := do(srv, "GET", "/api/v1/statistics", "", "")

	var st store.Statistics
	json.NewDecoder(w.Body).Decode(&st)
	if st.TotalMessages != 1 {
		t.Errorf("expected 1 message, got %d", st.TotalMessages)
	}
}

func TestAnalyzeIntent(t *testing.T) {
	srv := newTestServer("", &fakeStore{}, &fakeScheduler{})

	w := do(srv, "POST", "/api/v1/intent", `{"text":"let's have a meeting tomorrow at 3 with alice"}`, "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var in intent.MeetingIntent
	if err := json.NewDecoder(w.Body).Decode(&in); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !in.IntentDetected || in.Confidence != 1.0 {
		t.Errorf("unexpected intent: %+v", in)
	}
	if in.SuggestedDate != "2026-10-16" || in.SuggestedTime != "3:00 PM" {
		t.Errorf("unexpected suggestion: %s %s", in.SuggestedDate, in.SuggestedTime)
	}
}

func TestSegments(t *testing.T) {
	srv := newTestServer("", &fakeStore{}, &fakeScheduler{})
	body := `{"messages":[
		{"name":"Alice","email":"alice@x.com","message":"meeting at 10 am?","timestamp":"2026-10-15T10:00:00Z"},
		{"name":"Alice","email":"alice@x.com","message":"ok","timestamp":"2026-10-15T10:01:00Z"},
		{"name":"Bob","email":"bob@x.com","message":"hi","timestamp":"2026-10-15T11:00:00Z"}
	]}`

	w := do(srv, "POST", "/api/v1/segments", body, "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp segmentsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Groups) != 2 {
		t.Errorf("expected 2 groups, got %d", len(resp.Groups))
	}
	if len(resp.Contexts) != 1 || resp.Contexts[0].ExtractedTimes[0] != "10:00 AM" {
		t.Errorf("unexpected contexts: %+v", resp.Contexts)
	}
}

func TestSegments_Empty(t *testing.T) {
	srv := newTestServer("", &fakeStore{}, &fakeScheduler{})

	w := do(srv, "POST", "/api/v1/segments", `{"messages":[]}`, "")

	if !strings.Contains(w.Body.String(), `"groups":[]`) {
		t.Errorf("expected empty groups array, got %s", w.Body.String())
	}
}

func TestSuggestions(t *testing.T) {
	srv := newTestServer("", &fakeStore{}, &fakeScheduler{})

	w := do(srv, "GET", "/api/v1/suggestions?participants=alice@x.com,bob@x.com&duration=30", "", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var slots []schedule.Slot
	json.NewDecoder(w.Body).Decode(&slots)
	if len(slots) != 6 {
		t.Fatalf("expected 6 slots, got %d", len(slots))
	}
	if slots[0].Date != "2026-10-16" || slots[0].DurationMinutes != 30 || len(slots[0].Participants) != 2 {
		t.Errorf("unexpected first slot: %+v", slots[0])
	}

	if w := do(srv, "GET", "/api/v1/suggestions?duration=-5", "", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad duration, got %d", w.Code)
	}
}
