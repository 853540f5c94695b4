package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

type client struct {
	baseURL string
	token   string
	userID  int64
	http    *http.Client
}

type zoneResult struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	ZoneID       *int64 `json:"zone_id"`
	Owner        string `json:"owner"`
	FullName     string `json:"fullname"`
	CountRecords *int64 `json:"count_records"`
}

type searchResult struct {
	Zones            []zoneResult `json:"zones"`
	ReverseAttempted bool         `json:"reverse_attempted"`
}

type searchParams struct {
	Query    string
	Reverse  bool
	Wildcard bool
	Sort     string
	Limit    int
}

func (p searchParams) values() url.Values {
	v := url.Values{}
	v.Set("q", p.Query)
	if p.Reverse {
		v.Set("reverse", "true")
	}
	if p.Wildcard {
		v.Set("wildcard", "true")
	}
	if p.Sort != "" {
		v.Set("sort", p.Sort)
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	return v
}

func (c *client) search(ctx context.Context, p searchParams) ([]byte, error) {
	return c.fetch(ctx, "/v1/zones/search?"+p.values().Encode())
}

func (c *client) fetch(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.userID > 0 {
		req.Header.Set("X-User-ID", strconv.FormatInt(c.userID, 10))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("status=%d: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}
