package supplier

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/config"
)

// Vehicle is one row of the supplier's inventory feed.
type Vehicle struct {
	VIN   string `json:"vin"`
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  int    `json:"year"`
	Price int64  `json:"price"`
}

type Client struct {
	httpClient *http.Client
	cfg        config.SupplierConfig
}

func NewClient(cfg config.SupplierConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
			},
		},
	}
}

type inventoryResponse struct {
	Data       []Vehicle `json:"data"`
	TotalPages int       `json:"total_pages"`
}

// FetchInventory walks the paginated feed and returns every vehicle the
// supplier currently offers to this dealer. Sleeps between pages to respect
// the feed's rate limit.
func (c *Client) FetchInventory(ctx context.Context) ([]Vehicle, error) {
	if c.cfg.APIKey == "" || c.cfg.DealerID == "" {
		return nil, fmt.Errorf("supplier api_key or dealer_id is empty")
	}

	vehicles := make([]Vehicle, 0)
	page := 1
	totalPages := 1
	pageSize := c.cfg.PageSize
	if pageSize <= 0 {
		pageSize = 200
	}
	sleep := time.Duration(c.cfg.SleepMS) * time.Millisecond
	if sleep <= 0 {
		sleep = time.Second
	}

	base, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid supplier base url: %w", err)
	}

	for page <= totalPages {
		u := *base
		u.Path = fmt.Sprintf("%s/dealers/%s/inventory", base.Path, c.cfg.DealerID)

		q := u.Query()
		q.Set("api_key", c.cfg.APIKey)
		q.Set("page_size", fmt.Sprintf("%d", pageSize))
		q.Set("page_number", fmt.Sprintf("%d", page))
		u.RawQuery = q.Encode()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("call supplier api: %w", err)
		}

		var body inventoryResponse
		err = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("supplier api status %d", resp.StatusCode)
		}
		if err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}

		if len(body.Data) == 0 {
			break
		}
		vehicles = append(vehicles, body.Data...)

		if body.TotalPages > 0 {
			totalPages = body.TotalPages
		}
		page++

		if page > totalPages {
			break
		}
		select {
		case <-ctx.Done():
			return vehicles, ctx.Err()
		case <-time.After(sleep):
		}
	}

	return vehicles, nil
}
