package shared

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
)

// MaxPages caps the pagination loop for a single resource so a
// misbehaving server advertising has_more forever cannot spin us.
const MaxPages = 30

// GetJSON issues a GET with the given query and headers and decodes the
// JSON body into out. Non-2xx responses become a TransportError carrying
// the status and truncated body; schema mismatches become a DecodeError.
func GetJSON(ctx context.Context, client *http.Client, rawURL string, query url.Values, headers map[string]string, out any) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return &TransportError{Err: err}
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return &TransportError{Err: err}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{Status: resp.StatusCode, Body: TruncateBody(string(body))}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &DecodeError{Body: TruncateBody(string(body)), Err: err}
	}
	return nil
}
