package devops

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://dev.azure.com"
	apiVersion     = "7.0"
	batchSize      = 200
	commentWorkers = 8
)

// fields requested for every work item in the release query.
var workItemFields = []string{
	"System.Id",
	"System.WorkItemType",
	"System.State",
	"System.Title",
	"System.Parent",
	"System.Description",
	"System.Tags",
	"System.CommentCount",
	"Microsoft.VSTS.TCM.ReproSteps",
	"Microsoft.VSTS.Common.AcceptanceCriteria",
}

// Config represents work item service configuration.
type Config struct {
	Organization string
	Project      string
	PAT          string // personal access token, sent as basic auth
	BaseURL      string // default: https://dev.azure.com
}

// Client fetches release work items from an Azure-DevOps-style REST API.
// Requests are rate limited so large releases do not trip the service's
// throttling.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	org        string
	project    string
	pat        string
}

// NewClient creates a work item client for one organization/project.
func NewClient(cfg *Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(10), 10),
		baseURL:    strings.TrimRight(baseURL, "/"),
		org:        cfg.Organization,
		project:    cfg.Project,
		pat:        cfg.PAT,
	}
}

// FetchReleaseItems runs the stored release query and returns the fully
// populated work items, including icons and comments.
func (c *Client) FetchReleaseItems(ctx context.Context, queryID string) ([]*WorkItem, error) {
	ids, err := c.queryIDs(ctx, queryID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	slog.Info("release query resolved", "query", queryID, "items", len(ids))

	icons, err := c.typeIcons(ctx)
	if err != nil {
		// Icons are decorative, the notes degrade to plain headers.
		slog.Warn("failed to fetch work item type icons", "error", err)
		icons = map[string]string{}
	}

	var items []*WorkItem
	for start := 0; start < len(ids); start += batchSize {
		end := min(start+batchSize, len(ids))
		batch, err := c.fetchBatch(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}
		items = append(items, batch...)
	}

	for _, item := range items {
		item.Icon = icons[item.Type]
	}

	if err := c.fetchComments(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) queryIDs(ctx context.Context, queryID string) ([]int, error) {
	var result struct {
		WorkItems []struct {
			ID int `json:"id"`
		} `json:"workItems"`
	}
	url := fmt.Sprintf("%s/%s/%s/_apis/wit/wiql/%s?api-version=%s", c.baseURL, c.org, c.project, queryID, apiVersion)
	if err := c.do(ctx, http.MethodGet, url, nil, &result); err != nil {
		return nil, errors.Wrapf(err, "running release query %s", queryID)
	}
	ids := make([]int, 0, len(result.WorkItems))
	for _, ref := range result.WorkItems {
		ids = append(ids, ref.ID)
	}
	return ids, nil
}

func (c *Client) fetchBatch(ctx context.Context, ids []int) ([]*WorkItem, error) {
	payload := map[string]any{
		"ids":    ids,
		"fields": workItemFields,
	}
	var result struct {
		Value []struct {
			ID     int            `json:"id"`
			URL    string         `json:"url"`
			Fields map[string]any `json:"fields"`
		} `json:"value"`
	}
	url := fmt.Sprintf("%s/%s/%s/_apis/wit/workitemsbatch?api-version=%s", c.baseURL, c.org, c.project, apiVersion)
	if err := c.do(ctx, http.MethodPost, url, payload, &result); err != nil {
		return nil, errors.Wrap(err, "fetching work item batch")
	}

	items := make([]*WorkItem, 0, len(result.Value))
	for _, raw := range result.Value {
		items = append(items, &WorkItem{
			ID:                 raw.ID,
			URL:                raw.URL,
			Type:               fieldString(raw.Fields, "System.WorkItemType"),
			State:              fieldString(raw.Fields, "System.State"),
			Title:              fieldString(raw.Fields, "System.Title"),
			Parent:             fieldInt(raw.Fields, "System.Parent"),
			CommentCount:       fieldInt(raw.Fields, "System.CommentCount"),
			Description:        fieldString(raw.Fields, "System.Description"),
			ReproSteps:         fieldString(raw.Fields, "Microsoft.VSTS.TCM.ReproSteps"),
			AcceptanceCriteria: fieldString(raw.Fields, "Microsoft.VSTS.Common.AcceptanceCriteria"),
			Tags:               splitTags(fieldString(raw.Fields, "System.Tags")),
		})
	}
	return items, nil
}

// fetchComments loads comment texts for every item that has any, a few
// items at a time.
func (c *Client) fetchComments(ctx context.Context, items []*WorkItem) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(commentWorkers)
	for _, item := range items {
		if item.CommentCount == 0 {
			continue
		}
		item := item
		g.Go(func() error {
			var result struct {
				Comments []struct {
					Text string `json:"text"`
				} `json:"comments"`
			}
			url := fmt.Sprintf("%s/%s/%s/_apis/wit/workItems/%d/comments?api-version=%s-preview", c.baseURL, c.org, c.project, item.ID, apiVersion)
			if err := c.do(ctx, http.MethodGet, url, nil, &result); err != nil {
				return errors.Wrapf(err, "fetching comments for work item %d", item.ID)
			}
			for _, comment := range result.Comments {
				item.Comments = append(item.Comments, comment.Text)
			}
			return nil
		})
	}
	return g.Wait()
}

func (c *Client) typeIcons(ctx context.Context) (map[string]string, error) {
	var result struct {
		Value []struct {
			Name string `json:"name"`
			Icon struct {
				URL string `json:"url"`
			} `json:"icon"`
		} `json:"value"`
	}
	url := fmt.Sprintf("%s/%s/%s/_apis/wit/workitemtypes?api-version=%s", c.baseURL, c.org, c.project, apiVersion)
	if err := c.do(ctx, http.MethodGet, url, nil, &result); err != nil {
		return nil, err
	}
	icons := make(map[string]string, len(result.Value))
	for _, t := range result.Value {
		icons[t.Name] = t.Icon.URL
	}
	return icons, nil
}

func (c *Client) do(ctx context.Context, method, url string, payload, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth("", c.pat)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("work item service returned %s for %s %s", resp.Status, method, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func fieldString(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

func fieldInt(fields map[string]any, key string) int {
	if v, ok := fields[key].(float64); ok {
		return int(v)
	}
	return 0
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
