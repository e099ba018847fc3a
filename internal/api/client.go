// Package api is the client for the classification backend. It implements
// the endpoint negotiation that lets one client talk to several deployed
// backend versions.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/Veraticus/triage/internal/common"
	"github.com/Veraticus/triage/internal/model"
)

// Backend routes, relative to the base URL.
const (
	RouteAnalyze      = "/analyze"
	RouteClassifyFile = "/classify-file"
	RouteClassifyText = "/classify-text"
	RouteClassify     = "/classify"
	RouteStats        = "/stats"
	RouteHealth       = "/health"
)

// CodePayloadShapeUnsupported is the structured error code a backend may send
// instead of prose when it received neither a multipart file nor JSON text.
const CodePayloadShapeUnsupported = "payload_shape_unsupported"

// Config configures a Client.
type Config struct {
	HTTPClient         *http.Client
	BaseURL            string
	NegotiationPattern string
	Timeout            time.Duration
	LegacyUnified      bool
}

// Client talks to the classification backend.
type Client struct {
	httpClient    *http.Client
	negotiation   *regexp.Regexp
	baseURL       string
	legacyUnified bool
}

// Request is one submission. Document wins over Text when both are set.
type Request struct {
	Document *model.Document
	Text     string
}

// HasDocument reports whether the request uploads a file.
func (r Request) HasDocument() bool {
	return !r.Document.Empty()
}

// Empty reports whether there is nothing to send.
func (r Request) Empty() bool {
	return !r.HasDocument() && strings.TrimSpace(r.Text) == ""
}

// NewClient creates a backend client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", common.ErrMissingConfig)
	}

	var negotiation *regexp.Regexp
	if cfg.NegotiationPattern != "" {
		re, err := regexp.Compile(cfg.NegotiationPattern)
		if err != nil {
			return nil, fmt.Errorf("%w: negotiation pattern: %v", common.ErrInvalidConfig, err)
		}
		negotiation = re
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	return &Client{
		httpClient:    httpClient,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		negotiation:   negotiation,
		legacyUnified: cfg.LegacyUnified,
	}, nil
}

// Classify submits req and negotiates the route:
//
//  1. POST /analyze (multipart "file" or JSON {"text"}).
//  2. On 404, the legacy route for the same payload shape, once.
//  3. On a 400 saying the payload shape was not understood, and only for
//     textual documents, the document is re-sent to /analyze as JSON text, once.
func (c *Client) Classify(ctx context.Context, req Request) (model.ClassificationResult, error) {
	if req.Empty() {
		return model.ClassificationResult{}, common.ErrNothingToSubmit
	}

	decoded, err := c.send(ctx, RouteAnalyze, req)
	if err != nil {
		return model.ClassificationResult{}, err
	}

	switch {
	case decoded.Status == http.StatusNotFound:
		route := c.legacyRoute(req)
		slog.Debug("Primary route missing, using legacy route", "route", route)
		decoded, err = c.send(ctx, route, req)
		if err != nil {
			return model.ClassificationResult{}, err
		}

	case decoded.Status == http.StatusBadRequest && req.HasDocument() && c.wantsText(decoded) && IsTextual(req.Document):
		text, readErr := readText(req.Document)
		if readErr != nil {
			return model.ClassificationResult{}, readErr
		}
		slog.Debug("Backend rejected multipart upload, resending as text",
			"file", req.Document.Name,
			"detail", decoded.Error.Detail)
		decoded, err = c.send(ctx, RouteAnalyze, Request{Text: text})
		if err != nil {
			return model.ClassificationResult{}, err
		}
	}

	if !decoded.OK() {
		return model.ClassificationResult{}, decoded.err()
	}
	return *decoded.Result, nil
}

func (c *Client) legacyRoute(req Request) string {
	switch {
	case c.legacyUnified:
		return RouteClassify
	case req.HasDocument():
		return RouteClassifyFile
	default:
		return RouteClassifyText
	}
}

// wantsText reports whether a 400 means "send multipart file or JSON text".
func (c *Client) wantsText(d Decoded) bool {
	if d.Error == nil {
		return false
	}
	if d.Error.Code == CodePayloadShapeUnsupported {
		return true
	}
	return c.negotiation != nil && c.negotiation.MatchString(d.Error.Detail)
}

func (c *Client) send(ctx context.Context, route string, req Request) (Decoded, error) {
	body, contentType, err := encodeRequest(req)
	if err != nil {
		return Decoded{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+route, body)
	if err != nil {
		return Decoded{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")

	return c.do(httpReq)
}

func (c *Client) do(req *http.Request) (Decoded, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Decoded{}, fmt.Errorf("%w: %s %s: %v", common.ErrTransport, req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Decoded{}, fmt.Errorf("%w: failed to read response: %v", common.ErrTransport, err)
	}

	slog.Debug("Backend responded",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"bytes", len(data))

	return decodeResponse(resp.StatusCode, data), nil
}

func encodeRequest(req Request) (io.Reader, string, error) {
	if req.HasDocument() {
		return encodeMultipart(req.Document)
	}

	payload, err := json.Marshal(map[string]string{"text": req.Text})
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request: %w", err)
	}
	return bytes.NewReader(payload), "application/json", nil
}

func encodeMultipart(doc *model.Document) (io.Reader, string, error) {
	rc, err := doc.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", doc.Name, err)
	}
	defer func() { _ = rc.Close() }()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	contentType := doc.MIMEType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, doc.Name))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form part: %w", err)
	}
	if _, err := io.Copy(part, rc); err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", doc.Name, err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

// textualExtensions are re-sendable as text when a backend refuses uploads.
var textualExtensions = map[string]bool{
	"txt": true, "eml": true, "msg": true, "csv": true, "json": true,
	"log": true, "md": true, "rtf": true,
}

// IsTextual reports whether doc can be read as UTF-8 text.
func IsTextual(doc *model.Document) bool {
	if doc == nil {
		return false
	}
	mimeType := strings.ToLower(doc.MIMEType)
	if strings.HasPrefix(mimeType, "text/") || strings.HasPrefix(mimeType, "message/rfc822") {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(doc.Name)), ".")
	return textualExtensions[ext]
}

func readText(doc *model.Document) (string, error) {
	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", doc.Name, err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", doc.Name, err)
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}
