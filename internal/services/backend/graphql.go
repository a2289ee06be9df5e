package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"shopdash/internal/logger"
	"shopdash/internal/models"
)

type GraphQLClient struct {
	endpoint   string
	httpClient *http.Client
	logger     *logger.Logger
}

func NewGraphQLClient(endpoint string, httpClient *http.Client, logger *logger.Logger) *GraphQLClient {
	return &GraphQLClient{
		endpoint:   endpoint,
		httpClient: httpClient,
		logger:     logger,
	}
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Do posts query and returns the raw value of the named top-level field.
// notModified is true when the server answered 304, in which case raw is nil.
func (c *GraphQLClient) Do(ctx context.Context, query, field string, variables map[string]interface{}) (raw json.RawMessage, notModified bool, err error) {
	jsonData, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("POST %s %s", c.endpoint, field)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return nil, true, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, false, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var gqlResp graphQLResponse
	if err := json.Unmarshal(body, &gqlResp); err != nil {
		return nil, false, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		messages := make([]string, len(gqlResp.Errors))
		for i, e := range gqlResp.Errors {
			messages[i] = e.Message
		}
		return nil, false, &GraphQLError{Messages: messages}
	}

	raw, ok := gqlResp.Data[field]
	if !ok || string(raw) == "null" {
		return nil, false, fmt.Errorf("response is missing field %q", field)
	}
	return raw, false, nil
}

// envelope is the payload shape every backend field returns.
type envelope[T any] struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message"`
	Data       T                `json:"data"`
	PageInfo   *models.PageInfo `json:"pageInfo"`
	TotalCount int              `json:"totalCount"`
}

func decodeEnvelope[T any](raw json.RawMessage) (*envelope[T], error) {
	var env envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	if !env.Success {
		return nil, &EnvelopeError{Message: env.Message}
	}
	return &env, nil
}

func pageOf[T any](env *envelope[[]T]) models.Page[T] {
	page := models.Page[T]{
		Items:      env.Data,
		TotalCount: env.TotalCount,
	}
	if env.PageInfo != nil {
		page.PageInfo = *env.PageInfo
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page
}

// queryPage runs a list query and unwraps its paginated envelope.
func queryPage[T any](ctx context.Context, c *GraphQLClient, query, field string, variables map[string]interface{}) (models.Page[T], error) {
	raw, notModified, err := c.Do(ctx, query, field, variables)
	if err != nil {
		return models.Page[T]{}, err
	}
	if notModified {
		return models.Page[T]{NotModified: true}, nil
	}

	env, err := decodeEnvelope[[]T](raw)
	if err != nil {
		return models.Page[T]{}, err
	}

	return pageOf(env), nil
}

// queryOne runs a query or mutation whose envelope carries a single value.
func queryOne[T any](ctx context.Context, c *GraphQLClient, query, field string, variables map[string]interface{}) (T, string, error) {
	var zero T
	raw, notModified, err := c.Do(ctx, query, field, variables)
	if err != nil {
		return zero, "", err
	}
	if notModified {
		return zero, "", fmt.Errorf("unexpected 304 for %s", field)
	}

	env, err := decodeEnvelope[T](raw)
	if err != nil {
		return zero, "", err
	}
	return env.Data, env.Message, nil
}

// ListParams selects one page of a collection.
type ListParams struct {
	First  int
	After  string
	Status string
	Search string
}

func (p ListParams) variables(shop string) map[string]interface{} {
	vars := map[string]interface{}{
		"shop":  shop,
		"first": p.First,
	}
	if p.After != "" {
		vars["after"] = p.After
	}
	if p.Status != "" {
		vars["status"] = p.Status
	}
	if p.Search != "" {
		vars["search"] = p.Search
	}
	return vars
}

// SyncResult is returned by the sync mutations.
type SyncResult struct {
	Synced  int    `json:"synced"`
	Message string `json:"message"`
}
