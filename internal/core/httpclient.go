package core

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultTimeout = 30 * time.Second

// NewHTTPClient 创建分销商 API 使用的 HTTP 客户端
// - timeout: 整个请求的超时时间，<=0 时使用 30s
// - proxy: 代理地址，例如 "http://127.0.0.1:7890"，留空则走环境变量代理
func NewHTTPClient(timeout time.Duration, proxy string) (*http.Client, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConnsPerHost:   4,
	}

	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy %q: %w", proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}, nil
}
