// Package httpclient 提供远程生成后端的 HTTP 客户端
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"

	"z-novel-studio/internal/application/generation"
	"z-novel-studio/internal/config"
	"z-novel-studio/internal/domain/entity"
)

var tracer = otel.Tracer("transport.http")

const (
	defaultTimeout = 60 * time.Second
	maxErrorBody   = 4 << 10
)

// Client 远程生成后端客户端，同时作为动态目录来源
type Client struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
}

// NewClient 创建客户端
func NewClient(cfg config.RemoteBackendConfig) (*Client, error) {
	endpoint := strings.TrimRight(cfg.BaseURL, "/")
	if endpoint == "" {
		return nil, fmt.Errorf("remote backend base url is empty")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid remote backend base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: u,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Call 实现 generation.Transport
func (c *Client) Call(ctx context.Context, call generation.TransportCall) (*generation.RawResponse, error) {
	ctx, span := tracer.Start(ctx, "transport.http.Call")
	defer span.End()
	span.SetAttributes(attribute.String("generation.operation", string(call.Operation)))

	body, err := json.Marshal(call.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", call.Operation, err)
	}

	var raw generation.RawResponse
	if err := c.do(ctx, http.MethodPost, "/v1/ai/"+string(call.Operation), body, &raw); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &raw, nil
}

// providerEntry 目录接口中单个提供商的形状
type providerEntry struct {
	DisplayName  string   `json:"displayName"`
	Models       []string `json:"models"`
	DefaultModel string   `json:"defaultModel"`
}

// ListProviders 实现 provider.CatalogSource
func (c *Client) ListProviders(ctx context.Context) ([]entity.ProviderInfo, error) {
	ctx, span := tracer.Start(ctx, "transport.http.ListProviders")
	defer span.End()

	var catalogue map[string]providerEntry
	if err := c.do(ctx, http.MethodGet, "/v1/ai/providers", nil, &catalogue); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	ids := make([]string, 0, len(catalogue))
	for id := range catalogue {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	infos := make([]entity.ProviderInfo, 0, len(ids))
	for _, id := range ids {
		e := catalogue[id]
		name := e.DisplayName
		if name == "" {
			name = id
		}
		infos = append(infos, entity.ProviderInfo{
			ID:           id,
			DisplayName:  name,
			Models:       e.Models,
			DefaultModel: e.DefaultModel,
		})
	}
	return infos, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return &generation.TransportError{Message: "generation timed out", Err: err}
		}
		return &generation.TransportError{Err: err}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(httpResp.Body, maxErrorBody))
		return &generation.TransportError{
			StatusCode: httpResp.StatusCode,
			Message:    errorMessage(data),
		}
	}

	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return &generation.TransportError{
			StatusCode: httpResp.StatusCode,
			Err:        fmt.Errorf("failed to decode response: %w", err),
		}
	}
	return nil
}

// errorMessage 从错误响应体中取 message 或 error 字段
func errorMessage(data []byte) string {
	var body struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(body.Message); msg != "" {
		return msg
	}
	if len(body.Error) == 0 {
		return ""
	}
	// error 可能是字符串，也可能是 {"message": "..."}
	var s string
	if err := json.Unmarshal(body.Error, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body.Error, &nested); err == nil {
		return strings.TrimSpace(nested.Message)
	}
	return ""
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
