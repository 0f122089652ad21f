// Package anthropic implements the billing provider client for the
// Anthropic admin API: cost reports, usage reports and API-key metadata.
package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/costwatch/costwatch/internal/core"
	"github.com/costwatch/costwatch/internal/providers/shared"
)

const (
	defaultBaseURL = "https://api.anthropic.com/v1/organizations"
	apiVersion     = "2023-06-01"
)

type Client struct {
	http    *http.Client
	apiKey  string
	baseURL string
}

func New(apiKey string) *Client {
	return NewWithBaseURL(apiKey, defaultBaseURL)
}

// NewWithBaseURL lets tests point the client at a local server.
func NewWithBaseURL(apiKey, baseURL string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		apiKey:  apiKey,
		baseURL: baseURL,
	}
}

func (c *Client) Provider() core.Provider { return core.ProviderAnthropic }

func (c *Client) headers() map[string]string {
	return map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": apiVersion,
		"Content-Type":      "application/json",
	}
}

type costReportResponse struct {
	Data     []costReportBucket `json:"data"`
	HasMore  bool               `json:"has_more"`
	NextPage string             `json:"next_page"`
}

type costReportBucket struct {
	StartingAt string             `json:"starting_at"`
	Results    []costReportResult `json:"results"`
}

type costReportResult struct {
	Amount      string `json:"amount"`
	Model       string `json:"model"`
	Description string `json:"description"`
}

// FetchCosts walks the paginated cost report from start. Amounts arrive
// as decimal cent strings and are converted to dollars; rows that do not
// parse or are not positive are skipped.
func (c *Client) FetchCosts(ctx context.Context, start time.Time) ([]core.CostRecord, error) {
	var records []core.CostRecord
	page := ""

	for i := 0; i < shared.MaxPages; i++ {
		query := url.Values{}
		query.Set("starting_at", start.UTC().Format(time.RFC3339))
		query.Add("group_by[]", "description")
		if page != "" {
			query.Set("page", page)
		}

		var resp costReportResponse
		if err := shared.GetJSON(ctx, c.http, c.baseURL+"/cost_report", query, c.headers(), &resp); err != nil {
			return nil, fmt.Errorf("anthropic costs: %w", err)
		}

		for _, bucket := range resp.Data {
			date, err := parseBucketDate(bucket.StartingAt)
			if err != nil {
				continue
			}
			for _, result := range bucket.Results {
				cents, err := strconv.ParseFloat(result.Amount, 64)
				if err != nil || cents <= 0 {
					continue
				}
				records = append(records, core.CostRecord{
					Date:     date,
					Amount:   cents / 100,
					Category: costCategory(result),
				})
			}
		}

		if !resp.HasMore {
			break
		}
		page = resp.NextPage
	}

	return records, nil
}

// costCategory prefers the model name; cost rows for non-model charges
// fall back to the line description.
func costCategory(r costReportResult) string {
	if strings.TrimSpace(r.Model) != "" {
		return r.Model
	}
	return r.Description
}

type usageReportResponse struct {
	Data     []usageReportBucket `json:"data"`
	HasMore  bool                `json:"has_more"`
	NextPage string              `json:"next_page"`
}

type usageReportBucket struct {
	StartingAt string              `json:"starting_at"`
	Results    []usageReportResult `json:"results"`
}

type usageReportResult struct {
	UncachedInputTokens uint64        `json:"uncached_input_tokens"`
	CacheCreation       cacheCreation `json:"cache_creation"`
	CacheReadTokens     uint64        `json:"cache_read_input_tokens"`
	OutputTokens        uint64        `json:"output_tokens"`
	Model               string        `json:"model"`
	APIKeyID            string        `json:"api_key_id"`
}

type cacheCreation struct {
	Ephemeral1h uint64 `json:"ephemeral_1h_input_tokens"`
	Ephemeral5m uint64 `json:"ephemeral_5m_input_tokens"`
}

// FetchUsage walks the paginated messages usage report. Input tokens are
// the sum of uncached, cache-creation and cache-read tokens so the chart
// totals line up with what was actually processed.
func (c *Client) FetchUsage(ctx context.Context, start time.Time) ([]core.UsageRecord, error) {
	var records []core.UsageRecord
	page := ""

	for i := 0; i < shared.MaxPages; i++ {
		query := url.Values{}
		query.Set("starting_at", start.UTC().Format(time.RFC3339))
		query.Add("group_by[]", "model")
		query.Add("group_by[]", "api_key_id")
		query.Set("bucket_width", "1d")
		if page != "" {
			query.Set("page", page)
		}

		var resp usageReportResponse
		if err := shared.GetJSON(ctx, c.http, c.baseURL+"/usage_report/messages", query, c.headers(), &resp); err != nil {
			return nil, fmt.Errorf("anthropic usage: %w", err)
		}

		for _, bucket := range resp.Data {
			date, err := parseBucketDate(bucket.StartingAt)
			if err != nil {
				continue
			}
			for _, result := range bucket.Results {
				input := result.UncachedInputTokens +
					result.CacheCreation.Ephemeral1h +
					result.CacheCreation.Ephemeral5m +
					result.CacheReadTokens
				if input == 0 && result.OutputTokens == 0 {
					continue
				}
				uncached := result.UncachedInputTokens
				cached := result.CacheReadTokens
				records = append(records, core.UsageRecord{
					Date:            date,
					InputTokens:     input,
					OutputTokens:    result.OutputTokens,
					Model:           result.Model,
					APIKeyID:        result.APIKeyID,
					UncachedTokens:  &uncached,
					CacheReadTokens: &cached,
				})
			}
		}

		if !resp.HasMore {
			break
		}
		page = resp.NextPage
	}

	return records, nil
}

type apiKeyResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ResolveKeyNames looks up each key id independently and in parallel.
// Ids that fail to resolve are simply absent from the result.
func (c *Client) ResolveKeyNames(ctx context.Context, ids []string) (map[string]string, error) {
	var mu sync.Mutex
	names := make(map[string]string, len(ids))

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			var resp apiKeyResponse
			err := shared.GetJSON(ctx, c.http, c.baseURL+"/api_keys/"+id, nil, c.headers(), &resp)
			if err != nil || resp.Name == "" {
				return
			}
			mu.Lock()
			names[id] = resp.Name
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	return names, nil
}

func parseBucketDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return core.Day(t), nil
}
