package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"oceanwatch/internal/client/models"
	"oceanwatch/internal/client/store"
	"oceanwatch/internal/logging"
)

const dashboardCacheKey = "dashboard"

// HTTPClient talks to the ocean-hazard REST backend. A nil cache disables
// the offline dashboard fallback.
//
// Each call is bounded by its context, never by a client-wide deadline:
// drains pass a per-record timeout that may well exceed the interactive
// submit timeout, and a shared http.Client.Timeout would silently cap it.
// Interactive calls (SubmitReport, SubmitSOS, Dashboard) bound themselves
// with submitTimeout; Ping and the Sync* calls rely on the caller's context.
type HTTPClient struct {
	baseURL       string
	http          *http.Client
	submitTimeout time.Duration
	cache         *store.APICache
	log           logging.Logger
}

var _ Client = (*HTTPClient)(nil)

const defaultSubmitTimeout = 15 * time.Second

func NewHTTPClient(baseURL string, submitTimeout time.Duration, cache *store.APICache, log logging.Logger) *HTTPClient {
	if submitTimeout <= 0 {
		submitTimeout = defaultSubmitTimeout
	}
	return &HTTPClient{
		baseURL:       strings.TrimRight(baseURL, "/"),
		http:          &http.Client{},
		submitTimeout: submitTimeout,
		cache:         cache,
		log:           log,
	}
}

// Ping probes GET /health. Any transport error or non-200 status counts as
// unreachable.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health returned %s", ErrUnavailable, resp.Status)
	}
	return nil
}

// SubmitReport posts the report as multipart form data to /api/posts.
func (c *HTTPClient) SubmitReport(ctx context.Context, r *models.PendingReport) (*Ack, error) {
	ctx, cancel := context.WithTimeout(ctx, c.submitTimeout)
	defer cancel()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fields := map[string]string{
		"user_id":       r.UserID,
		"hazard_type":   r.HazardType,
		"severity":      r.Severity,
		"description":   r.Description,
		"latitude":      strconv.FormatFloat(r.Latitude, 'f', -1, 64),
		"longitude":     strconv.FormatFloat(r.Longitude, 'f', -1, 64),
		"location_name": r.LocationName,
		"synced":        "true",
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to build multipart request: %w", err)
		}
	}

	fw, err := mw.CreateFormFile("image", imageFileName(r.ImageType))
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart request: %w", err)
	}
	if _, err := fw.Write(r.Image); err != nil {
		return nil, fmt.Errorf("failed to build multipart request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build multipart request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/posts", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	ack := &Ack{}
	if err := c.do(req, ack); err != nil {
		return nil, err
	}
	return ack, nil
}

// syncRequest is the JSON body of POST /api/offline/sync. Local-only fields
// (store id) are not part of the wire format; the capture time travels as the
// timestamp field.
type syncRequest struct {
	UserID       string  `json:"user_id"`
	HazardType   string  `json:"hazard_type"`
	Severity     string  `json:"severity"`
	Description  string  `json:"description"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	LocationName string  `json:"location_name"`
	ImageBase64  string  `json:"image_base64"`
	Timestamp    string  `json:"timestamp"`
}

// SyncReport posts a reconstituted report as JSON to /api/offline/sync.
func (c *HTTPClient) SyncReport(ctx context.Context, r *models.PendingReport) (*SyncResult, error) {
	payload := syncRequest{
		UserID:       r.UserID,
		HazardType:   r.HazardType,
		Severity:     r.Severity,
		Description:  r.Description,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		LocationName: r.LocationName,
		ImageBase64:  base64.StdEncoding.EncodeToString(r.Image),
		Timestamp:    r.QueuedAt.UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/offline/sync", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	result := &SyncResult{}
	if err := c.do(req, result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, &SubmissionError{StatusCode: http.StatusOK, Message: result.Message}
	}
	return result, nil
}

// SubmitSOS posts an SOS alert as JSON to /api/sos.
func (c *HTTPClient) SubmitSOS(ctx context.Context, s *models.PendingSOS) (*Ack, error) {
	ctx, cancel := context.WithTimeout(ctx, c.submitTimeout)
	defer cancel()

	body, err := json.Marshal(map[string]any{
		"user_id":       s.UserID,
		"phone":         s.Phone,
		"description":   s.Description,
		"latitude":      s.Latitude,
		"longitude":     s.Longitude,
		"location_name": s.LocationName,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/sos", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	ack := &Ack{}
	if err := c.do(req, ack); err != nil {
		return nil, err
	}
	return ack, nil
}

// SyncSOS posts a queued SOS alert as a url-encoded form to /api/sos.
func (c *HTTPClient) SyncSOS(ctx context.Context, s *models.PendingSOS) error {
	form := url.Values{
		"user_id":       {s.UserID},
		"phone":         {s.Phone},
		"description":   {s.Description},
		"latitude":      {strconv.FormatFloat(s.Latitude, 'f', -1, 64)},
		"longitude":     {strconv.FormatFloat(s.Longitude, 'f', -1, 64)},
		"location_name": {s.LocationName},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/sos", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, nil)
}

// Dashboard fetches GET /api/dashboard. A successful fetch refreshes the
// cache; a failed fetch falls back to the last cached body, flagged stale.
func (c *HTTPClient) Dashboard(ctx context.Context) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.submitTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/dashboard", nil)
	if err != nil {
		return nil, false, err
	}

	body, fetchErr := c.fetch(req)
	if fetchErr == nil {
		if c.cache != nil {
			if err := c.cache.Put(ctx, dashboardCacheKey, body); err != nil {
				c.log.Warn(ctx, "failed to cache dashboard response", "error", err)
			}
		}
		return body, false, nil
	}

	if c.cache != nil {
		if entry, err := c.cache.Get(ctx, dashboardCacheKey); err == nil {
			return entry.Value, true, nil
		}
	}
	return nil, false, fetchErr
}

func (c *HTTPClient) fetch(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &SubmissionError{StatusCode: resp.StatusCode, Message: errorDetail(body)}
	}
	return body, nil
}

// do sends the request and decodes a 2xx JSON response into out (when out is
// non-nil). Non-2xx responses become SubmissionError with the backend's
// detail message when one is present.
func (c *HTTPClient) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	body, err := c.fetch(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("malformed response from %s: %w", req.URL.Path, err)
	}
	return nil
}

func errorDetail(body []byte) string {
	var e struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}

func imageFileName(contentType string) string {
	switch contentType {
	case "image/png":
		return "report.png"
	case "image/webp":
		return "report.webp"
	default:
		return "report.jpg"
	}
}
