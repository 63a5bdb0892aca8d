package digikey

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"PartHunter/internal/core"
	"PartHunter/internal/models"
	"PartHunter/internal/platform"
	"PartHunter/pkg/logger"
)

var log = logger.WithPrefix("digikey")

const (
	tokenPath        = "/v1/oauth2/token"
	keywordPath      = "/Search/v3/Products/Keyword"
	productPath      = "/Search/v3/Products/"
	batchDetailsPath = "/BatchSearch/v3/ProductDetails"
)

type Adapter struct {
	config     *Config
	httpClient *http.Client
}

type Option func(*options)

type options struct {
	baseClient *http.Client
}

// WithHTTPClient 替换底层 HTTP 客户端（token 请求和 API 请求共用），测试里用来挂 mock transport
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.baseClient = c }
}

func NewAdapter(config *Config, opts ...Option) (*Adapter, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	base := o.baseClient
	if base == nil {
		c, err := core.NewHTTPClient(time.Duration(config.Timeout)*time.Second, config.Proxy)
		if err != nil {
			return nil, err
		}
		base = c
	}

	if config.StoragePath != "" {
		if err := os.MkdirAll(config.StoragePath, 0700); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	cc := &clientcredentials.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenURL:     config.BaseURL() + tokenPath,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	ts := oauth2.ReuseTokenSource(nil,
		newFileTokenSource(config.StoragePath, config.ClientID, config.Sandbox, cc.TokenSource(tokenCtx)))

	return &Adapter{
		config: config,
		httpClient: &http.Client{
			Timeout:   base.Timeout,
			Transport: &oauth2.Transport{Source: ts, Base: base.Transport},
		},
	}, nil
}

func (a *Adapter) Name() string { return "digikey" }

func (a *Adapter) GetConfig() platform.Config { return a.config }

func (a *Adapter) KeywordSearch(ctx context.Context, keyword string, limit int) ([]*models.ProductRecord, error) {
	body := KeywordSearchRequest{Keywords: keyword, RecordCount: limit}
	var resp KeywordSearchResponse
	if err := a.do(ctx, http.MethodPost, keywordPath, body, &resp); err != nil {
		return nil, err
	}
	log.Debug("关键词 %q 共 %d 个产品，本次返回 %d 个", keyword, resp.ProductsCount, len(resp.Products))
	return NormalizeAll(resp.Products), nil
}

func (a *Adapter) ProductDetails(ctx context.Context, partNumber string) (*models.ProductRecord, error) {
	var p Product
	if err := a.do(ctx, http.MethodGet, productPath+url.PathEscape(partNumber), nil, &p); err != nil {
		return nil, err
	}
	return Normalize(&p), nil
}

func (a *Adapter) BatchProductDetails(ctx context.Context, partNumbers []string) ([]*models.ProductRecord, error) {
	if len(partNumbers) == 0 {
		return nil, fmt.Errorf("batch request needs at least one part number")
	}
	if len(partNumbers) > platform.MaxBatchSize {
		return nil, fmt.Errorf("batch request carries %d part numbers, max %d", len(partNumbers), platform.MaxBatchSize)
	}

	var resp BatchProductDetailsResponse
	if err := a.do(ctx, http.MethodPost, batchDetailsPath, BatchProductDetailsRequest{Products: partNumbers}, &resp); err != nil {
		return nil, err
	}
	for _, e := range resp.Errors {
		log.Warn("批量查询部分失败: %s", e)
	}
	return NormalizeAll(resp.ProductDetails), nil
}

func (a *Adapter) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.config.BaseURL()+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-DIGIKEY-Client-Id", a.config.ClientID)
	if a.config.LocaleSite != "" {
		req.Header.Set("X-DIGIKEY-Locale-Site", a.config.LocaleSite)
	}
	if a.config.LocaleLanguage != "" {
		req.Header.Set("X-DIGIKEY-Locale-Language", a.config.LocaleLanguage)
	}
	if a.config.LocaleCurrency != "" {
		req.Header.Set("X-DIGIKEY-Locale-Currency", a.config.LocaleCurrency)
	}
	if a.config.CustomerID != "" {
		req.Header.Set("X-DIGIKEY-Customer-Id", a.config.CustomerID)
	}

	log.Debug("%s %s", method, req.URL.String())
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classifyStatus(resp.StatusCode, errorMessage(data))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.ErrorMessage != "" {
		if er.ErrorDetails != "" {
			return er.ErrorMessage + ": " + er.ErrorDetails
		}
		return er.ErrorMessage
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return string(bytes.TrimSpace(body))
}
