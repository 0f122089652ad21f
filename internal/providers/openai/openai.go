// Package openai implements the billing provider client for the OpenAI
// organization API: daily costs, usage sub-resources and API-key metadata.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/costwatch/costwatch/internal/core"
	"github.com/costwatch/costwatch/internal/providers/shared"
)

const defaultBaseURL = "https://api.openai.com/v1/organization"

// usageEndpoints are the usage sub-resources that live behind separate
// endpoints and have to be fetched independently.
var usageEndpoints = []string{"completions", "embeddings", "images"}

// keyResolveConcurrency bounds the per-project API-key listing fan-out.
const keyResolveConcurrency = 8

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

func (c *Client) Provider() core.Provider { return core.ProviderOpenAI }

func (c *Client) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.apiKey,
		"Content-Type":  "application/json",
	}
}

type costResponse struct {
	Data     []costBucket `json:"data"`
	HasMore  bool         `json:"has_more"`
	NextPage string       `json:"next_page"`
}

type costBucket struct {
	StartTime int64        `json:"start_time"`
	Results   []costResult `json:"results"`
}

type costResult struct {
	Amount   costAmount `json:"amount"`
	LineItem string     `json:"line_item"`
}

type costAmount struct {
	Value float64 `json:"value"`
}

// FetchCosts walks the paginated /costs resource from start and returns
// normalized daily records. A page-level failure aborts the whole call;
// no partial pages are kept.
func (c *Client) FetchCosts(ctx context.Context, start time.Time) ([]core.CostRecord, error) {
	var records []core.CostRecord
	page := ""

	for i := 0; i < shared.MaxPages; i++ {
		query := url.Values{}
		query.Set("start_time", strconv.FormatInt(start.Unix(), 10))
		query.Set("group_by", "line_item")
		query.Set("limit", "180")
		if page != "" {
			query.Set("page", page)
		}

		var resp costResponse
		if err := shared.GetJSON(ctx, c.http, c.baseURL+"/costs", query, c.headers(), &resp); err != nil {
			return nil, fmt.Errorf("openai costs: %w", err)
		}

		for _, bucket := range resp.Data {
			date := core.Day(time.Unix(bucket.StartTime, 0))
			for _, result := range bucket.Results {
				records = append(records, core.CostRecord{
					Date:     date,
					Amount:   result.Amount.Value,
					Category: result.LineItem,
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

type usageResponse struct {
	Data     []usageBucket `json:"data"`
	HasMore  bool          `json:"has_more"`
	NextPage string        `json:"next_page"`
}

type usageBucket struct {
	StartTime int64         `json:"start_time"`
	Results   []usageResult `json:"results"`
}

type usageResult struct {
	InputTokens       uint64 `json:"input_tokens"`
	OutputTokens      uint64 `json:"output_tokens"`
	InputCachedTokens uint64 `json:"input_cached_tokens"`
	NumModelRequests  uint64 `json:"num_model_requests"`
	Model             string `json:"model"`
	APIKeyID          string `json:"api_key_id"`
}

func (c *Client) fetchUsageEndpoint(ctx context.Context, endpoint string, start time.Time) ([]core.UsageRecord, error) {
	var records []core.UsageRecord
	page := ""

	for i := 0; i < shared.MaxPages; i++ {
		query := url.Values{}
		query.Set("start_time", strconv.FormatInt(start.Unix(), 10))
		query.Set("interval", "1d")
		query.Add("group_by", "model")
		query.Add("group_by", "api_key_id")
		if page != "" {
			query.Set("page", page)
		}

		var resp usageResponse
		if err := shared.GetJSON(ctx, c.http, c.baseURL+"/usage/"+endpoint, query, c.headers(), &resp); err != nil {
			return nil, fmt.Errorf("%s: %w", endpoint, err)
		}

		for _, bucket := range resp.Data {
			date := core.Day(time.Unix(bucket.StartTime, 0))
			for _, result := range bucket.Results {
				// Rows with no token counts (pure image usage) carry
				// nothing the token charts can show.
				if result.InputTokens == 0 && result.OutputTokens == 0 {
					continue
				}
				record := core.UsageRecord{
					Date:         date,
					InputTokens:  result.InputTokens,
					OutputTokens: result.OutputTokens,
					Model:        result.Model,
					APIKeyID:     result.APIKeyID,
				}
				if result.NumModelRequests > 0 {
					requests := result.NumModelRequests
					record.RequestCount = &requests
				}
				if result.InputCachedTokens > 0 && result.InputTokens >= result.InputCachedTokens {
					cached := result.InputCachedTokens
					uncached := result.InputTokens - result.InputCachedTokens
					record.CacheReadTokens = &cached
					record.UncachedTokens = &uncached
				}
				records = append(records, record)
			}
		}

		if !resp.HasMore {
			break
		}
		page = resp.NextPage
	}

	return records, nil
}

// FetchUsage fans out across the usage sub-resources concurrently. One
// failing sub-resource does not fail the others; the call errors only
// when every sub-resource failed.
func (c *Client) FetchUsage(ctx context.Context, start time.Time) ([]core.UsageRecord, error) {
	type endpointResult struct {
		endpoint string
		records  []core.UsageRecord
		err      error
	}

	results := make(chan endpointResult, len(usageEndpoints))
	for _, endpoint := range usageEndpoints {
		go func(endpoint string) {
			records, err := c.fetchUsageEndpoint(ctx, endpoint, start)
			results <- endpointResult{endpoint: endpoint, records: records, err: err}
		}(endpoint)
	}

	byEndpoint := make(map[string][]core.UsageRecord, len(usageEndpoints))
	failures := make(map[string]string)
	for range usageEndpoints {
		r := <-results
		if r.err != nil {
			failures[r.endpoint] = r.err.Error()
			continue
		}
		byEndpoint[r.endpoint] = r.records
	}

	if len(byEndpoint) == 0 && len(failures) > 0 {
		joined := make([]string, 0, len(failures))
		for _, endpoint := range usageEndpoints {
			if msg, ok := failures[endpoint]; ok {
				joined = append(joined, msg)
			}
		}
		return nil, &shared.AllSourcesFailedError{Errors: joined}
	}

	var records []core.UsageRecord
	for _, endpoint := range usageEndpoints {
		records = append(records, byEndpoint[endpoint]...)
	}
	return records, nil
}

type projectsResponse struct {
	Data    []project `json:"data"`
	HasMore bool      `json:"has_more"`
	LastID  string    `json:"last_id"`
}

type project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c *Client) fetchProjects(ctx context.Context) ([]project, error) {
	var projects []project
	after := ""

	for i := 0; i < shared.MaxPages; i++ {
		query := url.Values{}
		if after != "" {
			query.Set("after", after)
		}

		var resp projectsResponse
		if err := shared.GetJSON(ctx, c.http, c.baseURL+"/projects", query, c.headers(), &resp); err != nil {
			return nil, fmt.Errorf("projects: %w", err)
		}

		projects = append(projects, resp.Data...)
		if !resp.HasMore || resp.LastID == "" {
			break
		}
		after = resp.LastID
	}

	return projects, nil
}

type projectKeysResponse struct {
	Data    []projectKey `json:"data"`
	HasMore bool         `json:"has_more"`
	LastID  string       `json:"last_id"`
}

type projectKey struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c *Client) fetchProjectKeys(ctx context.Context, projectID string) ([]projectKey, error) {
	var keys []projectKey
	after := ""

	for i := 0; i < shared.MaxPages; i++ {
		query := url.Values{}
		if after != "" {
			query.Set("after", after)
		}

		var resp projectKeysResponse
		if err := shared.GetJSON(ctx, c.http, c.baseURL+"/projects/"+projectID+"/api_keys", query, c.headers(), &resp); err != nil {
			return nil, fmt.Errorf("project %s api keys: %w", projectID, err)
		}

		keys = append(keys, resp.Data...)
		if !resp.HasMore || resp.LastID == "" {
			break
		}
		after = resp.LastID
	}

	return keys, nil
}

// ResolveKeyNames maps API-key ids to display names by enumerating the
// organization's projects and listing each project's keys concurrently.
// A failed per-project listing drops that project's ids from the result
// instead of aborting resolution.
func (c *Client) ResolveKeyNames(ctx context.Context, ids []string) (map[string]string, error) {
	projects, err := c.fetchProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("openai key names: %w", err)
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var mu sync.Mutex
	names := make(map[string]string)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(keyResolveConcurrency)
	for _, p := range projects {
		g.Go(func() error {
			keys, err := c.fetchProjectKeys(ctx, p.ID)
			if err != nil {
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			for _, key := range keys {
				if wanted[key.ID] {
					names[key.ID] = key.Name
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return names, nil
}
