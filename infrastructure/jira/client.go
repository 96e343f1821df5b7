// Package jira is a thin client of the issue tracker REST API.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds a single API request
const DefaultTimeout = 30 * time.Second

// Client calls the issue tracker API with a fixed authorization token
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *logrus.Entry
}

// NewClient - creates API client, token is sent as the Authorization header verbatim
func NewClient(baseURL, token string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: DefaultTimeout},
		logger:  logger.WithField("component", "jira-client"),
	}
}

// LatestIssue - returns the most recently created issue, Data is nil when there are none
func (c *Client) LatestIssue(ctx context.Context) (Response[*Issue], error) {
	query := url.Values{}
	query.Set("jql", "ORDER BY created DESC")
	query.Set("maxResults", "1")

	var search SearchResponse
	resp, err := c.call(ctx, http.MethodGet, "/rest/api/3/search", query, nil, &search)
	if err != nil {
		return Response[*Issue]{}, err
	}

	res := Response[*Issue]{Status: resp.Status, StatusText: resp.StatusText, Error: resp.Error}
	if len(search.Issues) > 0 {
		res.Data = &search.Issues[0]
		c.logger.Debugf("Fetched latest issue %s (%s)", res.Data.Key, res.Data.ID)
	}
	return res, nil
}

// GetIssue - fetches issue by id or key
func (c *Client) GetIssue(ctx context.Context, id string) (Response[Issue], error) {
	var issue Issue
	resp, err := c.call(ctx, http.MethodGet, "/rest/api/2/issue/"+url.PathEscape(id), nil, nil, &issue)
	if err != nil {
		return Response[Issue]{}, err
	}
	c.logger.Debugf("Fetched issue %s: %d", id, resp.Status)
	return Response[Issue]{Status: resp.Status, StatusText: resp.StatusText, Data: issue, Error: resp.Error}, nil
}

// CreateIssue - creates issue, 201 on success
func (c *Client) CreateIssue(ctx context.Context, payload CreateIssuePayload) (Response[CreateIssueResponse], error) {
	var created CreateIssueResponse
	resp, err := c.call(ctx, http.MethodPost, "/rest/api/3/issue", nil, payload, &created)
	if err != nil {
		return Response[CreateIssueResponse]{}, err
	}
	c.logger.Infof("Created issue %s (%s): %d", created.Key, created.ID, resp.Status)
	return Response[CreateIssueResponse]{Status: resp.Status, StatusText: resp.StatusText, Data: created, Error: resp.Error}, nil
}

// UpdateIssue - replaces fields of issue, 204 on success
func (c *Client) UpdateIssue(ctx context.Context, id string, payload CreateIssuePayload) (Response[struct{}], error) {
	resp, err := c.call(ctx, http.MethodPut, "/rest/api/3/issue/"+url.PathEscape(id), nil, payload, nil)
	if err != nil {
		return Response[struct{}]{}, err
	}
	c.logger.Infof("Updated issue %s: %d %s", id, resp.Status, resp.StatusText)
	return resp, nil
}

// DeleteIssue - deletes issue, 204 on success
func (c *Client) DeleteIssue(ctx context.Context, id string) (Response[struct{}], error) {
	resp, err := c.call(ctx, http.MethodDelete, "/rest/api/2/issue/"+url.PathEscape(id), nil, nil, nil)
	if err != nil {
		return Response[struct{}]{}, err
	}
	c.logger.Infof("Deleted issue %s: %d %s", id, resp.Status, resp.StatusText)
	return resp, nil
}

// call - performs request, decoding 2xx bodies into out and other bodies into the error response.
// Only transport and encoding failures are returned as errors.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, in, out any) (Response[struct{}], error) {
	var body io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return Response[struct{}]{}, fmt.Errorf("failed to marshal %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(jsonData)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return Response[struct{}]{}, fmt.Errorf("failed to create %s %s request: %w", method, path, err)
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Atlassian-Token", "no-check")

	resp, err := c.client.Do(req)
	if err != nil {
		return Response[struct{}]{}, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response[struct{}]{}, fmt.Errorf("failed to read %s %s response: %w", method, path, err)
	}

	res := Response[struct{}]{Status: resp.StatusCode, StatusText: http.StatusText(resp.StatusCode)}
	if len(bytes.TrimSpace(data)) == 0 {
		return res, nil
	}

	if !res.OK() {
		if err := json.Unmarshal(data, &res.Error); err != nil {
			res.Error.ErrorMessages = []string{strings.TrimSpace(string(data))}
		}
		c.logger.Warnf("%s %s returned %d: %v %v", method, path, res.Status, res.Error.ErrorMessages, res.Error.Errors)
		return res, nil
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return res, fmt.Errorf("failed to parse %s %s response: %w", method, path, err)
		}
	}
	return res, nil
}
