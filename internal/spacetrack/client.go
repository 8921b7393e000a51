// Package spacetrack retrieves orbital-element history and two-line
// ephemeris text from space-track.org. It is a thin collaborator: it
// performs single attempts, surfaces per-satellite failures to the caller,
// and leaves retry policy out of scope.
package spacetrack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/signalsfoundry/navhealth/internal/logging"
	"github.com/signalsfoundry/navhealth/model"
)

// DefaultBaseURL is the production Space-Track endpoint.
const DefaultBaseURL = "https://www.space-track.org"

// ErrNoData is returned when the catalog has no records for the requested
// satellite and window.
var ErrNoData = errors.New("no element data for requested range")

// Client is an authenticated Space-Track session. The session cookie is
// established lazily on the first query and shared by subsequent ones.
type Client struct {
	httpClient *http.Client
	baseURL    string
	username   string
	password   string
	cache      Cache
	log        logging.Logger

	mu       sync.Mutex
	loggedIn bool
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different endpoint (tests).
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithCache enables response caching.
func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger attaches a structured logger.
func WithLogger(log logging.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New constructs a client for the given credentials.
func New(username, password string, opts ...Option) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	c := &Client{
		httpClient: &http.Client{Jar: jar, Timeout: 30 * time.Second},
		baseURL:    DefaultBaseURL,
		username:   username,
		password:   password,
		cache:      NoopCache{},
		log:        logging.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient.Jar == nil {
		c.httpClient.Jar = jar
	}
	return c, nil
}

func (c *Client) login(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loggedIn {
		return nil
	}

	form := url.Values{
		"identity": {c.username},
		"password": {c.password},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/ajaxauth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed: HTTP %d", resp.StatusCode)
	}
	c.loggedIn = true
	return nil
}

// fetch retrieves a query path, consulting the cache first. The raw body is
// cached on success.
func (c *Client) fetch(ctx context.Context, key, path string) ([]byte, error) {
	if data, ok, err := c.cache.Get(ctx, key); err != nil {
		c.log.Warn(ctx, "cache read failed", logging.String("key", key), logging.String("error", err.Error()))
	} else if ok {
		c.log.Debug(ctx, "cache hit", logging.String("key", key))
		return data, nil
	}

	if err := c.login(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("query failed: HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := c.cache.Set(ctx, key, body, DefaultCacheTTL); err != nil {
		c.log.Warn(ctx, "cache write failed", logging.String("key", key), logging.String("error", err.Error()))
	}
	return body, nil
}

// gpRow mirrors the string-typed GP history JSON rows. Optional fields
// arrive empty when the catalog has no value.
type gpRow struct {
	Epoch         string `json:"EPOCH"`
	Inclination   string `json:"INCLINATION"`
	SemimajorAxis string `json:"SEMIMAJOR_AXIS"`
	MeanMotion    string `json:"MEAN_MOTION"`
}

// GPHistory fetches the element history for one satellite over [start, end]
// ordered by epoch. Rows with an unparsable epoch or inclination are
// skipped; missing optional fields propagate as nil.
func (c *Client) GPHistory(ctx context.Context, noradID int, start, end time.Time) ([]model.OrbitalRecord, error) {
	startStr := start.UTC().Format("2006-01-02")
	endStr := end.UTC().Format("2006-01-02")

	key := fmt.Sprintf("gp:%d:%s:%s", noradID, startStr, endStr)
	path := fmt.Sprintf(
		"/basicspacedata/query/class/gp_history/EPOCH/%s--%s/NORAD_CAT_ID/%d/orderby/EPOCH%%20asc/format/json",
		startStr, endStr, noradID,
	)

	body, err := c.fetch(ctx, key, path)
	if err != nil {
		return nil, fmt.Errorf("fetch GP history for %d: %w", noradID, err)
	}

	var rows []gpRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode GP history for %d: %w", noradID, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("norad %d %s--%s: %w", noradID, startStr, endStr, ErrNoData)
	}

	records := make([]model.OrbitalRecord, 0, len(rows))
	for _, row := range rows {
		epoch, err := parseEpoch(row.Epoch)
		if err != nil {
			continue
		}
		inc, err := strconv.ParseFloat(strings.TrimSpace(row.Inclination), 64)
		if err != nil {
			continue
		}
		records = append(records, model.OrbitalRecord{
			Epoch:               epoch,
			InclinationDeg:      inc,
			SemimajorAxisKm:     parseOptional(row.SemimajorAxis),
			MeanMotionRevPerDay: parseOptional(row.MeanMotion),
		})
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("norad %d %s--%s: %w", noradID, startStr, endStr, ErrNoData)
	}
	return records, nil
}

// LatestTLEs fetches the most recent ephemeris text for a set of satellites
// in 3LE format (name line plus two element lines per satellite).
func (c *Client) LatestTLEs(ctx context.Context, noradIDs []int) (string, error) {
	ids := make([]string, len(noradIDs))
	for i, id := range noradIDs {
		ids[i] = strconv.Itoa(id)
	}
	idsStr := strings.Join(ids, ",")

	key := "tle:" + idsStr
	path := fmt.Sprintf(
		"/basicspacedata/query/class/tle_latest/NORAD_CAT_ID/%s/orderby/NORAD_CAT_ID,ORDINAL/format/3le",
		idsStr,
	)

	body, err := c.fetch(ctx, key, path)
	if err != nil {
		return "", fmt.Errorf("fetch latest TLEs: %w", err)
	}
	return string(body), nil
}

// epochLayouts covers the timestamp shapes the catalog emits.
var epochLayouts = []string{
	"2006-01-02T15:04:05.000000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

func parseEpoch(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range epochLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized epoch %q", s)
}

func parseOptional(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
