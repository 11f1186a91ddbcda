package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fintrackapp/fintrack-be/internal/apperrors"
	"github.com/fintrackapp/fintrack-be/internal/models"
)

// TransactionAPI is the server action surface the controllers call.
type TransactionAPI interface {
	GetTransactions(ctx context.Context, page, pageSize int, filter *models.Filter) (*models.PaginatedTransactions, error)
	GetFormOptions(ctx context.Context) (*models.FormOptions, error)
	CreateTransaction(ctx context.Context, req *models.CreateTransactionRequest) (*models.TransactionView, error)
	UpdateTransaction(ctx context.Context, id string, req *models.UpdateTransactionRequest) error
	DeleteTransaction(ctx context.Context, id string) error
}

// HTTPClient implements TransactionAPI against the fintrack HTTP API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a client for the given API base URL, e.g.
// "http://localhost:8080/api/v1". The token is sent as a bearer token.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *HTTPClient) GetTransactions(ctx context.Context, page, pageSize int, filter *models.Filter) (*models.PaginatedTransactions, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("page_size", strconv.Itoa(pageSize))
	if filter != nil {
		if filter.Search != "" {
			params.Set("search", filter.Search)
		}
		if filter.DateRange != nil {
			params.Set("date_from", filter.DateRange.Start)
			params.Set("date_to", filter.DateRange.End)
		}
		if filter.AmountRange != nil {
			params.Set("amount_min", strconv.FormatInt(filter.AmountRange.Min, 10))
			params.Set("amount_max", strconv.FormatInt(filter.AmountRange.Max, 10))
		}
		setList(params, "types", filter.Types)
		setList(params, "categories", filter.Categories)
		setList(params, "payment_methods", filter.PaymentMethods)
		setList(params, "statuses", filter.Statuses)
	}

	var result models.PaginatedTransactions
	if err := c.do(ctx, http.MethodGet, "/transactions?"+params.Encode(), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetFormOptions(ctx context.Context) (*models.FormOptions, error) {
	var options models.FormOptions
	if err := c.do(ctx, http.MethodGet, "/transactions/options", nil, &options); err != nil {
		return nil, err
	}
	return &options, nil
}

func (c *HTTPClient) CreateTransaction(ctx context.Context, req *models.CreateTransactionRequest) (*models.TransactionView, error) {
	var view models.TransactionView
	if err := c.do(ctx, http.MethodPost, "/transactions", req, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *HTTPClient) UpdateTransaction(ctx context.Context, id string, req *models.UpdateTransactionRequest) error {
	return c.do(ctx, http.MethodPut, "/transactions/"+url.PathEscape(id), req, nil)
}

func (c *HTTPClient) DeleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/transactions/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrap(apperrors.KindUnexpected, "Failed to encode request", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperrors.Wrap(apperrors.KindUnexpected, "Failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.KindTransaction, "Request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		if errBody.Error == "" {
			errBody.Error = fmt.Sprintf("Request failed with status %d", resp.StatusCode)
		}
		return apperrors.Transaction(errBody.Error)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperrors.Wrap(apperrors.KindTransaction, "Failed to decode response", err)
		}
	}
	return nil
}

func setList(params url.Values, key string, values []string) {
	if len(values) > 0 {
		params.Set(key, strings.Join(values, ","))
	}
}
