package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/okian/pmtwin/internal/domain/model"
	"github.com/okian/pmtwin/pkg/logger"
)

// ErrUnexpectedStatus is returned when the service answers with a non-200 status.
var ErrUnexpectedStatus = errors.New("unexpected status")

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a new HTTP client with timeout
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Get performs a GET request against the service.
func (c *HTTPClient) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.client.Do(req)
}

// GetJSON performs a GET request and decodes a 200 response into v.
func (c *HTTPClient) GetJSON(ctx context.Context, path string, v any) error {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: GET %s: %d %s", ErrUnexpectedStatus, path, resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// MatchesResult is a provider match list returned for one request.
type MatchesResult struct {
	RequestID  string                `json:"requestId"`
	Matches    []model.ScoredMatch   `json:"matches"`
	Statistics model.MatchStatistics `json:"-"`
}

// OpportunitiesResult is an opportunity list returned for one company and role.
type OpportunitiesResult struct {
	CompanyID     string                   `json:"companyId"`
	Role          string                   `json:"role"`
	Opportunities []model.OpportunityMatch `json:"opportunities"`
}

// FetchMatches retrieves the top matches and statistics for one request.
func (c *HTTPClient) FetchMatches(ctx context.Context, requestID string, limit int) (MatchesResult, error) {
	var res MatchesResult
	base := "/requests/" + url.PathEscape(requestID)

	path := base + "/matches"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	if err := c.GetJSON(ctx, path, &res); err != nil {
		return MatchesResult{}, err
	}
	if err := c.GetJSON(ctx, base+"/statistics", &res.Statistics); err != nil {
		return MatchesResult{}, err
	}
	return res, nil
}

// FetchOpportunities retrieves the opportunities of a company for a role.
func (c *HTTPClient) FetchOpportunities(ctx context.Context, companyID, role string) (OpportunitiesResult, error) {
	var res OpportunitiesResult
	path := "/companies/" + url.PathEscape(companyID) + "/opportunities?role=" + url.QueryEscape(role)
	if err := c.GetJSON(ctx, path, &res); err != nil {
		return OpportunitiesResult{}, err
	}
	return res, nil
}

// queryAll runs fetch for every job using a worker pool. Failed queries are
// counted and logged, not returned.
func queryAll[J, R any](ctx context.Context, workers int, jobs []J, fetch func(context.Context, J) (R, error)) ([]R, int) {
	if workers < 1 {
		workers = DefaultWorkers
	}

	var (
		mu      sync.Mutex
		results = make([]R, 0, len(jobs))
		failed  int
		wg      sync.WaitGroup
	)

	jobChan := make(chan J, workers*WorkerChannelMultiplier)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobChan {
				res, err := fetch(ctx, job)
				mu.Lock()
				if err != nil {
					failed++
					logger.Get().Warn(ctx, "query failed", logger.Any("job", job), logger.Error(err))
				} else {
					results = append(results, res)
				}
				mu.Unlock()
			}
		}()
	}

	go func() {
		defer close(jobChan)
		for _, job := range jobs {
			select {
			case <-ctx.Done():
				return
			case jobChan <- job:
			}
		}
	}()

	wg.Wait()
	return results, failed
}
