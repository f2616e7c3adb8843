package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/citiesense/ginkgo-stakeholder-portal/internal/community"
	dErrors "github.com/citiesense/ginkgo-stakeholder-portal/pkg/domain-errors"
)

// HTTPClient is the Ginkgo-backed Client. Routes follow the upstream API:
// {base}/community/{communityID}/{collection}, bearer-authenticated with the
// community's API key. Search and creation share the collection endpoint and
// are distinguished by request body, matching upstream behavior.
type HTTPClient struct {
	baseURL     string
	communityID string
	apiKey      string
	httpc       *http.Client
}

// NewHTTPClient binds a client to one community. The http.Client may be nil,
// in which case a default with a conservative timeout is used.
func NewHTTPClient(baseURL, communityID, apiKey string, httpc *http.Client) *HTTPClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPClient{
		baseURL:     baseURL,
		communityID: communityID,
		apiKey:      apiKey,
		httpc:       httpc,
	}
}

func (c *HTTPClient) Search(ctx context.Context, kind Kind, query string) ([]Record, error) {
	return c.listRaw(ctx, kind, map[string]any{"q": query})
}

func (c *HTTPClient) SearchByContactIDs(ctx context.Context, kind Kind, contactIDs []string) ([]Record, error) {
	recs, err := c.listRaw(ctx, kind, map[string]any{"contact_ids": contactIDs})
	if err != nil {
		// A 4xx on the structured filter means this registry cannot batch
		// by id; surface the sentinel so callers take the broad-query path.
		if statusOf(err)/100 == 4 || statusOf(err) == http.StatusNotImplemented {
			return nil, ErrBatchUnsupported
		}
		return nil, err
	}
	return recs, nil
}

func (c *HTTPClient) Get(ctx context.Context, kind Kind, id string) (Record, error) {
	var rec Record
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/%s/%s", kind, id), nil, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (c *HTTPClient) Create(ctx context.Context, kind Kind, fields map[string]any) (Record, error) {
	var rec Record
	if err := c.do(ctx, http.MethodPost, "/"+string(kind), fields, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (c *HTTPClient) Update(ctx context.Context, kind Kind, id string, fields map[string]any) (Record, error) {
	var rec Record
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/%s/%s", kind, id), fields, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (c *HTTPClient) LogEvent(ctx context.Context, fields map[string]any) (Record, error) {
	return c.Create(ctx, KindEvent, fields)
}

func (c *HTTPClient) listRaw(ctx context.Context, kind Kind, body map[string]any) ([]Record, error) {
	var recs []Record
	if err := c.do(ctx, http.MethodPost, "/"+string(kind), body, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// statusError carries the upstream HTTP status through the domain error chain
// so SearchByContactIDs can tell rejection from outage.
type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("registry returned status %d", e.status)
}

func statusOf(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.status
	}
	return 0
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	url := fmt.Sprintf("%s/community/%s%s", c.baseURL, c.communityID, path)

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "encode registry request")
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "build registry request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "registry request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return dErrors.Wrap(&statusError{status: resp.StatusCode}, dErrors.CodeUpstream,
			fmt.Sprintf("registry %s %s: status %d", method, path, resp.StatusCode))
	}

	if out == nil {
		return nil
	}
	// The registry occasionally responds with an empty body on success;
	// treat that as the zero value rather than a decode failure.
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "read registry response")
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "decode registry response")
	}
	return nil
}

// HTTPFactory builds per-community clients from the community config source.
type HTTPFactory struct {
	baseURL     string
	communities community.Source
	httpc       *http.Client
}

func NewHTTPFactory(baseURL string, communities community.Source, httpc *http.Client) *HTTPFactory {
	return &HTTPFactory{baseURL: baseURL, communities: communities, httpc: httpc}
}

func (f *HTTPFactory) ForCommunity(ctx context.Context, communityID string) (Client, error) {
	cfg, err := f.communities.Lookup(ctx, communityID)
	if err != nil {
		return nil, err
	}
	return NewHTTPClient(f.baseURL, communityID, cfg.RegistryAPIKey, f.httpc), nil
}
