package trip

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zetflow/zetflow-live/config"
	"github.com/zetflow/zetflow-live/internal"
	"github.com/zetflow/zetflow-live/model"
)

const maxBodyBytes = 4 << 20

var (
	// ErrNotFound is reported when the backend has no trip with the requested id.
	ErrNotFound = errors.New("trip not found")
	// ErrEmptyTripID is reported for a blank trip id; no request is made.
	ErrEmptyTripID = errors.New("empty trip id")
)

// Fetcher looks up trip details over HTTP. It keeps no state between calls.
type Fetcher struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewFetcher creates a fetcher with connect, response-header and total request
// timeouts taken from cfg.
func NewFetcher(cfg config.TripsConfig, logger *zap.Logger) *Fetcher {
	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout(), KeepAlive: 30 * time.Second}
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.DialContext = dialer.DialContext
	tr.ResponseHeaderTimeout = cfg.SocketTimeout()

	return NewFetcherWithClient(cfg.BaseURL, &http.Client{
		Transport: tr,
		Timeout:   cfg.RequestTimeout(),
	}, logger)
}

// NewFetcherWithClient creates a fetcher that uses the given HTTP client as is.
func NewFetcherWithClient(baseURL string, client *http.Client, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		logger:     internal.OrNop(logger),
	}
}

// URL returns the lookup URL for tripID.
func (f *Fetcher) URL(tripID string) string {
	return f.baseURL + "/getTripById/" + url.PathEscape(tripID)
}

// Fetch returns the trip, or nil when it could not be obtained for any reason.
// Use Lookup to tell "not found" apart from a failed request.
func (f *Fetcher) Fetch(ctx context.Context, tripID string) *model.TripDetail {
	return f.Lookup(ctx, tripID).Trip
}

// Lookup fetches one trip and classifies the outcome.
func (f *Fetcher) Lookup(ctx context.Context, tripID string) Result {
	if strings.TrimSpace(tripID) == "" {
		return failed(ErrEmptyTripID)
	}

	res := f.lookup(ctx, tripID)
	switch res.Status {
	case Found:
		f.logger.Debug("trip fetched", zap.String("trip", tripID), zap.Int("stops", len(res.Trip.StopTimes)))
	case NotFound:
		f.logger.Info("trip not found", zap.String("trip", tripID))
	default:
		f.logger.Warn("trip fetch failed", zap.String("trip", tripID), zap.Error(res.Err))
	}
	return res
}

func (f *Fetcher) lookup(ctx context.Context, tripID string) Result {
	u := f.URL(tripID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return failed(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return failed(fmt.Errorf("failed to fetch %s: %w", u, err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return notFound()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failed(fmt.Errorf("HTTP %d from %s", resp.StatusCode, u))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return failed(fmt.Errorf("read %s: %w", u, err))
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return notFound()
	}

	trip, err := decodeTrip(trimmed)
	if err != nil {
		return failed(fmt.Errorf("decode trip %s: %w", tripID, err))
	}
	return Result{Status: Found, Trip: trip}
}

func decodeTrip(data []byte) (*model.TripDetail, error) {
	var trip model.TripDetail
	if err := json.Unmarshal(data, &trip); err != nil {
		return nil, err
	}
	if trip.TripID == "" {
		return nil, errors.New("missing tripId")
	}
	if trip.StopTimes == nil {
		trip.StopTimes = []model.StopVisit{}
	}
	return &trip, nil
}
