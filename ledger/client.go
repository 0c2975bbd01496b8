// Package ledger talks to the spreadsheet the ledger is kept in.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gofrs/uuid"
	"github.com/gorilla/schema"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Apps Script functions exposed by the ledger web app.
const (
	FunctionAddEntries = "addEntries"
	FunctionGetStatus  = "getStatus"
)

// maxErrorBodySize limits how much of an error response is kept for diagnostics.
const maxErrorBodySize = 4 << 10

// ErrRequestFailed is returned when the ledger web app reports an unsuccessful call.
var ErrRequestFailed = errors.New("ledger request failed")

// Set an Encoder instance as a package global, because it caches
// meta-data about structs, and an instance can be shared safely.
var encoder = schema.NewEncoder()

type functionQuery struct {
	FunctionName string `schema:"functionName"`
}

// Config configures a Client.
type Config struct {
	SpreadsheetID   string
	FunctionsURL    string
	SpreadsheetsURL string
	DevMode         bool
}

// Client calls the ledger web app and the spreadsheet values API.
//
// Every request is authorized with a bearer token obtained from the token source.
// When no token can be obtained, the request is never sent.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option interface {
	applyClient(o *clientOptions)
}

type clientOptions struct {
	base   http.RoundTripper
	logger *zap.Logger
}

// WithTransport sets the transport requests are sent with (after authorization).
func WithTransport(base http.RoundTripper) Option {
	return transportOption{base}
}

type transportOption struct {
	base http.RoundTripper
}

func (o transportOption) applyClient(c *clientOptions) {
	c.base = o.base
}

// WithLogger sets the logger of a Client.
func WithLogger(logger *zap.Logger) Option {
	return loggerOption{logger}
}

type loggerOption struct {
	logger *zap.Logger
}

func (o loggerOption) applyClient(c *clientOptions) {
	c.logger = o.logger
}

// NewClient returns a new Client.
func NewClient(tokenSource oauth2.TokenSource, config Config, opts ...Option) *Client {
	var o clientOptions

	for _, opt := range opts {
		opt.applyClient(&o)
	}

	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Transport: &oauth2.Transport{
				Source: tokenSource,
				Base:   o.base,
			},
		},
		logger: o.logger,
	}
}

type addEntriesRequest struct {
	SpreadsheetID string  `json:"sprId"`
	SheetName     string  `json:"sheetName"`
	Entries       []Entry `json:"entries"`
	DevMode       bool    `json:"devMode"`
}

type functionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// AddEntries appends entries to a sheet.
func (c *Client) AddEntries(ctx context.Context, sheetName string, entries []Entry) error {
	for i, entry := range entries {
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("entry[%d]: %w", i, err)
		}
	}

	var resp functionResponse

	err := c.callFunction(ctx, FunctionAddEntries, addEntriesRequest{
		SpreadsheetID: c.config.SpreadsheetID,
		SheetName:     sheetName,
		Entries:       entries,
		DevMode:       c.config.DevMode,
	}, &resp)
	if err != nil {
		return err
	}

	if !resp.Success {
		return fmt.Errorf("%w: %s", ErrRequestFailed, resp.Message)
	}

	c.logger.Info("entries added", zap.String("sheet", sheetName), zap.Int("count", len(entries)))

	return nil
}

type statusRequest struct {
	SpreadsheetID string `json:"sprId"`
	SheetName     string `json:"sheetName"`
}

// Status is the summary of a monthly sheet.
type Status struct {
	General      [][]string `json:"general"`
	Distribution [][]string `json:"distribution"`
}

type statusResponse struct {
	functionResponse

	Data Status `json:"data"`
}

// Status returns the summary of a sheet.
func (c *Client) Status(ctx context.Context, sheetName string) (Status, error) {
	var resp statusResponse

	err := c.callFunction(ctx, FunctionGetStatus, statusRequest{
		SpreadsheetID: c.config.SpreadsheetID,
		SheetName:     sheetName,
	}, &resp)
	if err != nil {
		return Status{}, err
	}

	if !resp.Success {
		return Status{}, fmt.Errorf("%w: %s", ErrRequestFailed, resp.Message)
	}

	return resp.Data, nil
}

// Range holds the values of a spreadsheet range.
type Range struct {
	Range          string     `json:"range"`
	MajorDimension string     `json:"majorDimension"`
	Values         [][]string `json:"values"`
}

// ReadRange reads a range (in A1 notation) of the spreadsheet.
func (c *Client) ReadRange(ctx context.Context, a1Range string) (Range, error) {
	u := fmt.Sprintf("%s/%s/values/%s", c.config.SpreadsheetsURL, url.PathEscape(c.config.SpreadsheetID), url.PathEscape(a1Range))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Range{}, err
	}

	var resp Range

	if err := c.do(req, &resp); err != nil {
		return Range{}, err
	}

	return resp, nil
}

func (c *Client) functionURL(name string) (string, error) {
	u, err := url.Parse(c.config.FunctionsURL)
	if err != nil {
		return "", err
	}

	query := u.Query()

	if err := encoder.Encode(functionQuery{FunctionName: name}, query); err != nil {
		return "", err
	}

	u.RawQuery = query.Encode()

	return u.String(), nil
}

func (c *Client) callFunction(ctx context.Context, name string, body interface{}, v interface{}) error {
	u, err := c.functionURL(name)
	if err != nil {
		return err
	}

	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	return c.do(req, v)
}

func (c *Client) do(req *http.Request, v interface{}) error {
	requestID, err := uuid.NewV4()
	if err != nil {
		return err
	}

	req.Header.Set("X-Request-Id", requestID.String())

	logger := c.logger.With(zap.String("requestId", requestID.String()), zap.String("url", req.URL.Redacted()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	logger.Debug("ledger responded", zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

		return fmt.Errorf("%w (HTTP %d): %s", ErrRequestFailed, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding ledger response: %w", err)
	}

	return nil
}
