package spacetrack

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// memoryCache is an in-process Cache for tests.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// fakeSpaceTrack serves the login endpoint and one canned query response,
// counting hits.
type fakeSpaceTrack struct {
	mu       sync.Mutex
	logins   int
	queries  int
	response string
}

func (f *fakeSpaceTrack) counts() (logins, queries int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logins, f.queries
}

func (f *fakeSpaceTrack) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ajaxauth/login", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.logins++
		f.mu.Unlock()
		if r.Method != http.MethodPost {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		if r.FormValue("identity") == "" || r.FormValue("password") == "" {
			http.Error(w, "credentials", http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/basicspacedata/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.queries++
		resp := f.response
		f.mu.Unlock()
		w.Write([]byte(resp))
	})
	return mux
}

func newTestClient(t *testing.T, f *fakeSpaceTrack, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	opts = append([]Option{WithBaseURL(srv.URL)}, opts...)
	c, err := New("user", "pass", opts...)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

const gpHistoryJSON = `[
  {"EPOCH": "2026-02-01T06:00:00.000000", "INCLINATION": "5.0123", "SEMIMAJOR_AXIS": "42164.5", "MEAN_MOTION": "1.00270000"},
  {"EPOCH": "2026-02-02T06:00:00.000000", "INCLINATION": "5.0150", "SEMIMAJOR_AXIS": "", "MEAN_MOTION": ""},
  {"EPOCH": "not-a-date", "INCLINATION": "5.0150", "SEMIMAJOR_AXIS": "42164.5", "MEAN_MOTION": "1.00270000"}
]`

func TestGPHistory_ParsesRows(t *testing.T) {
	fake := &fakeSpaceTrack{response: gpHistoryJSON}
	c := newTestClient(t, fake)

	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	records, err := c.GPHistory(context.Background(), 41241, start, end)
	if err != nil {
		t.Fatal(err)
	}

	// The unparsable-epoch row is skipped.
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].InclinationDeg != 5.0123 {
		t.Errorf("inclination = %v, want 5.0123", records[0].InclinationDeg)
	}
	if records[0].SemimajorAxisKm == nil || *records[0].SemimajorAxisKm != 42164.5 {
		t.Errorf("semimajor axis = %v, want 42164.5", records[0].SemimajorAxisKm)
	}
	// Empty optional fields propagate as nil, not zero.
	if records[1].SemimajorAxisKm != nil || records[1].MeanMotionRevPerDay != nil {
		t.Errorf("optional fields = %v/%v, want nil/nil",
			records[1].SemimajorAxisKm, records[1].MeanMotionRevPerDay)
	}
	wantEpoch := time.Date(2026, 2, 1, 6, 0, 0, 0, time.UTC)
	if !records[0].Epoch.Equal(wantEpoch) {
		t.Errorf("epoch = %s, want %s", records[0].Epoch, wantEpoch)
	}

	if logins, _ := fake.counts(); logins != 1 {
		t.Errorf("logins = %d, want 1", logins)
	}
}

func TestGPHistory_NoData(t *testing.T) {
	fake := &fakeSpaceTrack{response: "[]"}
	c := newTestClient(t, fake)

	_, err := c.GPHistory(context.Background(), 41241,
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrNoData) {
		t.Errorf("err = %v, want ErrNoData", err)
	}
}

func TestGPHistory_LoginOncePerSession(t *testing.T) {
	fake := &fakeSpaceTrack{response: gpHistoryJSON}
	c := newTestClient(t, fake)

	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	for _, id := range []int{41241, 41384, 43286} {
		if _, err := c.GPHistory(context.Background(), id, start, end); err != nil {
			t.Fatal(err)
		}
	}
	logins, queries := fake.counts()
	if logins != 1 {
		t.Errorf("logins = %d, want 1 across the session", logins)
	}
	if queries != 3 {
		t.Errorf("queries = %d, want 3", queries)
	}
}

func TestGPHistory_CacheShortCircuitsFetch(t *testing.T) {
	fake := &fakeSpaceTrack{response: gpHistoryJSON}
	c := newTestClient(t, fake, WithCache(newMemoryCache()))

	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	if _, err := c.GPHistory(context.Background(), 41241, start, end); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GPHistory(context.Background(), 41241, start, end); err != nil {
		t.Fatal(err)
	}
	if _, queries := fake.counts(); queries != 1 {
		t.Errorf("queries = %d, want 1 (second call served from cache)", queries)
	}
}

func TestLatestTLEs_ReturnsBody(t *testing.T) {
	const body = "IRNSS-1E\n1 41241U ...\n2 41241 ...\n"
	fake := &fakeSpaceTrack{response: body}
	c := newTestClient(t, fake)

	got, err := c.LatestTLEs(context.Background(), []int{41241, 56759})
	if err != nil {
		t.Fatal(err)
	}
	if got != body {
		t.Errorf("body = %q, want %q", got, body)
	}
}

func TestParseEpoch_Layouts(t *testing.T) {
	cases := []string{
		"2026-02-01T06:00:00.000000",
		"2026-02-01T06:00:00",
		"2026-02-01 06:00:00",
	}
	want := time.Date(2026, 2, 1, 6, 0, 0, 0, time.UTC)
	for _, s := range cases {
		got, err := parseEpoch(s)
		if err != nil {
			t.Errorf("parseEpoch(%q): %v", s, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("parseEpoch(%q) = %s, want %s", s, got, want)
		}
	}
	if _, err := parseEpoch("yesterday"); err == nil {
		t.Error("parseEpoch accepted garbage")
	}
}

func TestParseOptional(t *testing.T) {
	if got := parseOptional(" 42164.5 "); got == nil || *got != 42164.5 {
		t.Errorf("parseOptional(42164.5) = %v", got)
	}
	if got := parseOptional(""); got != nil {
		t.Errorf("parseOptional(empty) = %v, want nil", *got)
	}
	if got := parseOptional("n/a"); got != nil {
		t.Errorf("parseOptional(n/a) = %v, want nil", *got)
	}
}

func TestNew_Defaults(t *testing.T) {
	c, err := New("u", "p")
	if err != nil {
		t.Fatal(err)
	}
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultBaseURL)
	}
	if !strings.HasPrefix(c.baseURL, "https://") {
		t.Errorf("default base URL not HTTPS: %q", c.baseURL)
	}
}
