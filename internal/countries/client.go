// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package countries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

// Configuration constants for the REST Countries API.
const (
	// DefaultBaseURL is the countries endpoint, already scoped to the
	// fields the login form needs.
	DefaultBaseURL = "https://restcountries.com/v3.1/all?fields=name,cca2,idd,flag"

	// DefaultTimeout is the default timeout for lookup requests.
	DefaultTimeout = 10 * time.Second

	// MaxResponseSize caps the response body.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 5 * 1024 * 1024 // 5MB limit
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
	Timeout: DefaultTimeout,
}

// Error variables for common lookup failures.
var (
	// ErrBadStatus indicates a non-200 response from the API.
	ErrBadStatus = errors.New("country lookup returned an error status")

	// ErrEmptyList indicates the API returned no usable entries.
	ErrEmptyList = errors.New("country lookup returned no usable entries")
)

// =============================================================================
// COUNTRY TYPE
// =============================================================================

// Country is one selectable entry in the login form.
type Country struct {
	// Name is the common country name (e.g. "United Kingdom").
	Name string `json:"name"`

	// Code is the ISO 3166-1 alpha-2 code (e.g. "GB").
	Code string `json:"code"`

	// DialCode is the root plus first suffix (e.g. "+44").
	DialCode string `json:"dial_code"`

	// Flag is the emoji flag glyph.
	Flag string `json:"flag"`
}

// Label returns the selector display string: flag, name, dial code.
func (c Country) Label() string {
	return fmt.Sprintf("%s %s (%s)", c.Flag, c.Name, c.DialCode)
}

// FallbackCountries is substituted whenever the lookup fails, so the
// form always has something to offer. The fallback-on-error behavior
// is part of the login contract.
var FallbackCountries = []Country{
	{Name: "United States", Code: "US", DialCode: "+1", Flag: "\U0001F1FA\U0001F1F8"},
	{Name: "United Kingdom", Code: "GB", DialCode: "+44", Flag: "\U0001F1EC\U0001F1E7"},
	{Name: "India", Code: "IN", DialCode: "+91", Flag: "\U0001F1EE\U0001F1F3"},
}

// =============================================================================
// WIRE FORMAT
// =============================================================================

// restCountry is the REST Countries v3.1 response shape, limited to
// the requested fields.
type restCountry struct {
	Name struct {
		Common   string `json:"common"`
		Official string `json:"official"`
	} `json:"name"`
	CCA2 string `json:"cca2"`
	IDD  struct {
		Root     string   `json:"root"`
		Suffixes []string `json:"suffixes"`
	} `json:"idd"`
	Flag string `json:"flag"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client fetches the country list.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the default endpoint.
func NewClient() *Client {
	return &Client{
		baseURL:    DefaultBaseURL,
		httpClient: sharedHTTPClient,
	}
}

// NewClientWithURL creates a client for a custom endpoint (used by
// config overrides and tests).
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: sharedHTTPClient,
	}
}

// Fetch retrieves, filters, and sorts the country list.
func (c *Client) Fetch(ctx context.Context) ([]Country, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build country request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("country lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read country response: %w", err)
	}

	var raw []restCountry
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse country response: %w", err)
	}

	countries := make([]Country, 0, len(raw))
	for _, rc := range raw {
		// Keep only entries with a complete dial code.
		if rc.IDD.Root == "" || len(rc.IDD.Suffixes) == 0 {
			continue
		}
		countries = append(countries, Country{
			Name:     rc.Name.Common,
			Code:     rc.CCA2,
			DialCode: rc.IDD.Root + rc.IDD.Suffixes[0],
			Flag:     rc.Flag,
		})
	}
	if len(countries) == 0 {
		return nil, ErrEmptyList
	}

	sort.Slice(countries, func(i, j int) bool {
		return strings.ToLower(countries[i].Name) < strings.ToLower(countries[j].Name)
	})
	return countries, nil
}

// FetchWithFallback retrieves the country list, substituting the fixed
// fallback on any failure. The error is returned alongside the
// fallback so the UI can show a transient notice; it is never fatal.
func (c *Client) FetchWithFallback(ctx context.Context) ([]Country, error) {
	countries, err := c.Fetch(ctx)
	if err != nil {
		fallback := make([]Country, len(FallbackCountries))
		copy(fallback, FallbackCountries)
		return fallback, err
	}
	return countries, nil
}
