package digikey

import (
	"fmt"
	"net/url"
	"strings"
)

type Config struct {
	ClientID     string `mapstructure:"client_id" yaml:"client_id"`
	ClientSecret string `mapstructure:"client_secret" yaml:"client_secret"`
	Sandbox      bool   `mapstructure:"sandbox" yaml:"sandbox"`           // 使用沙箱环境
	StoragePath  string `mapstructure:"storage_path" yaml:"storage_path"` // token 缓存目录
	Timeout      int    `mapstructure:"timeout" yaml:"timeout"`           // 请求超时（秒）
	Proxy        string `mapstructure:"proxy" yaml:"proxy"`               // 代理地址，如 "http://127.0.0.1:7890"

	APIBase     string `mapstructure:"api_base" yaml:"api_base"`
	SandboxBase string `mapstructure:"sandbox_base" yaml:"sandbox_base"`

	LocaleSite     string `mapstructure:"locale_site" yaml:"locale_site"`
	LocaleLanguage string `mapstructure:"locale_language" yaml:"locale_language"`
	LocaleCurrency string `mapstructure:"locale_currency" yaml:"locale_currency"`
	CustomerID     string `mapstructure:"customer_id" yaml:"customer_id"`
}

func DefaultConfig() *Config {
	return &Config{
		Sandbox:        true,
		Timeout:        30,
		APIBase:        "https://api.digikey.com",
		SandboxBase:    "https://sandbox-api.digikey.com",
		LocaleSite:     "US",
		LocaleLanguage: "en",
		LocaleCurrency: "USD",
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.ClientID) == "" || strings.TrimSpace(c.ClientSecret) == "" {
		return fmt.Errorf("client_id and client_secret must be set")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %d", c.Timeout)
	}
	base := c.BaseURL()
	if base == "" {
		return fmt.Errorf("api_base cannot be empty")
	}
	if u, err := url.Parse(base); err != nil || u.Host == "" {
		return fmt.Errorf("invalid api base %q", base)
	}
	return nil
}

// BaseURL 根据 sandbox 开关选择 API 地址
func (c *Config) BaseURL() string {
	if c.Sandbox {
		return strings.TrimRight(c.SandboxBase, "/")
	}
	return strings.TrimRight(c.APIBase, "/")
}
