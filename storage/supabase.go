package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"analytics-dashboard/apperrors"
	"analytics-dashboard/models"
	"analytics-dashboard/utils"
)

// SupabaseSource reads the whole table through the Supabase REST API.
type SupabaseSource struct {
	baseURL string
	apiKey  string
	table   string
	client  *http.Client
	logger  *utils.Logger
}

// NewSupabaseSource creates a gateway for table at baseURL. A zero timeout
// keeps the transport defaults.
func NewSupabaseSource(baseURL, apiKey, table string, timeout time.Duration, logger *utils.Logger) *SupabaseSource {
	return &SupabaseSource{
		baseURL: baseURL,
		apiKey:  apiKey,
		table:   table,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (s *SupabaseSource) endpoint() string {
	return s.baseURL + "/rest/v1/" + url.PathEscape(s.table) + "?select=*"
}

// FetchAll issues select=* against the table and returns every row.
func (s *SupabaseSource) FetchAll(ctx context.Context) (models.Dataset, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint(), nil)
	if err != nil {
		return nil, apperrors.NewConnectivityError("build request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.NewConnectivityError("fetch "+s.table, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewConnectivityError("read "+s.table+" response", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, apperrors.NewConnectivityError(
			fmt.Sprintf("fetch %s: credentials rejected (%d)", s.table, resp.StatusCode), nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, apperrors.NewConnectivityError(
			fmt.Sprintf("fetch %s: unexpected status %d: %s", s.table, resp.StatusCode, truncate(string(body), 200)), nil)
	}

	var raw []rawRow
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, apperrors.NewSchemaError(fmt.Sprintf("decode %s rows: %v", s.table, err))
	}

	dataset, err := decodeRows(raw)
	if err != nil {
		return nil, err
	}

	s.logger.Info("[gateway] fetched %d rows from %s in %v", len(dataset), s.table, time.Since(start))
	return dataset, nil
}

func (s *SupabaseSource) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// truncate shortens s to at most max runes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
