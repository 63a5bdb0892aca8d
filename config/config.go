package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"PartHunter/internal/core"
	"PartHunter/internal/platform/digikey"
	"PartHunter/pkg/logger"
)

// LogConfig 日志配置
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // DEBUG/INFO/WARN/ERROR
	Color bool   `mapstructure:"color" yaml:"color"`
}

// BatchConfig CSV 批量模式配置
type BatchConfig struct {
	Workers     int  `mapstructure:"workers" yaml:"workers"`             // 并发数，1 为串行
	MemoSize    int  `mapstructure:"memo_size" yaml:"memo_size"`         // 本次执行内重复料号的记忆条数
	UseBatchAPI bool `mapstructure:"use_batch_api" yaml:"use_batch_api"` // 走批量接口，每次 50 个
}

// ReportConfig 输出配置
type ReportConfig struct {
	Format            string `mapstructure:"format" yaml:"format"`                           // csv / json
	ShowEmptyOptional bool   `mapstructure:"show_empty_optional" yaml:"show_empty_optional"` // 终端也打印缺失的可选字段
}

// FeiShuConfig 飞书多维表格上传配置（可选）
type FeiShuConfig struct {
	AppID     string `mapstructure:"app_id" yaml:"app_id"`
	AppSecret string `mapstructure:"app_secret" yaml:"app_secret"`
	FileName  string `mapstructure:"file_name" yaml:"file_name"`
	BaseURL   string `mapstructure:"base_url" yaml:"base_url"` // 国际版 Lark 填 https://open.larksuite.com
}

// AppConfig 应用总配置
type AppConfig struct {
	Env     string         `mapstructure:"env" yaml:"env"`
	Log     LogConfig      `mapstructure:"log" yaml:"log"`
	DigiKey digikey.Config `mapstructure:"digikey" yaml:"digikey"`
	Batch   BatchConfig    `mapstructure:"batch" yaml:"batch"`
	Report  ReportConfig   `mapstructure:"report" yaml:"report"`
	FeiShu  FeiShuConfig   `mapstructure:"feishu" yaml:"feishu"`

	path string
}

// Path 实际读取的配置文件
func (c *AppConfig) Path() string { return c.path }

const (
	storageDirName = ".digikey_storage"
	envPrefix      = "PARTHUNTER"
)

var digikeyEnv = map[string][]string{
	"digikey.client_id":     {"DIGIKEY_CLIENT_ID"},
	"digikey.client_secret": {"DIGIKEY_CLIENT_SECRET"},
	"digikey.sandbox":       {"DIGIKEY_CLIENT_SANDBOX", "DIGIKEY_SANDBOX"},
	"digikey.storage_path":  {"DIGIKEY_STORAGE_PATH"},
}

// 支持的输出格式，与 core.NewExporter 保持一致
var reportFormats = map[string]bool{"csv": true, "json": true}

func DefaultConfigDir() string {
	homedir, _ := os.UserHomeDir()
	return filepath.Join(homedir, ".parthunter", "config")
}

func setDefaults(v *viper.Viper) {
	dk := digikey.DefaultConfig()

	v.SetDefault("env", "prod")
	v.SetDefault("log.level", "INFO")
	v.SetDefault("log.color", true)

	v.SetDefault("digikey.client_id", "")
	v.SetDefault("digikey.client_secret", "")
	v.SetDefault("digikey.sandbox", dk.Sandbox)
	v.SetDefault("digikey.storage_path", "")
	v.SetDefault("digikey.timeout", dk.Timeout)
	v.SetDefault("digikey.proxy", "")
	v.SetDefault("digikey.api_base", dk.APIBase)
	v.SetDefault("digikey.sandbox_base", dk.SandboxBase)
	v.SetDefault("digikey.locale_site", dk.LocaleSite)
	v.SetDefault("digikey.locale_language", dk.LocaleLanguage)
	v.SetDefault("digikey.locale_currency", dk.LocaleCurrency)
	v.SetDefault("digikey.customer_id", "")

	v.SetDefault("batch.workers", 1)
	v.SetDefault("batch.memo_size", 128)
	v.SetDefault("batch.use_batch_api", false)

	v.SetDefault("report.format", "csv")
	v.SetDefault("report.show_empty_optional", false)

	v.SetDefault("feishu.app_id", "")
	v.SetDefault("feishu.app_secret", "")
	v.SetDefault("feishu.file_name", "PartHunter 查询结果")
	v.SetDefault("feishu.base_url", "https://open.feishu.cn")
}

// Load 读取配置。path 为空时依次查找 ./config.yaml、./config/config.yaml、~/.parthunter/config/config.yaml；
// 全都没有时在 home 目录下生成示例配置并返回 ConfigError。
// 凭据为空同样返回 ConfigError，此时不会发出任何网络请求。
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, &core.ConfigError{Path: path, Err: err}
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath(DefaultConfigDir())
	}

	// 其余配置项只认 PARTHUNTER_ 前缀，例如 PARTHUNTER_LOG_LEVEL
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// 兼容 digikey SDK 的环境变量，不带前缀
	for key, names := range digikeyEnv {
		_ = v.BindEnv(append([]string{key}, names...)...)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			examplePath, cerr := CreateExampleConfig(DefaultConfigDir())
			if cerr != nil {
				return nil, &core.ConfigError{Err: fmt.Errorf("未找到配置文件，创建示例配置失败: %w", cerr)}
			}
			return nil, &core.ConfigError{Path: examplePath, Err: fmt.Errorf("未找到配置文件，已生成示例配置，请填写 client_id 和 client_secret")}
		}
		return nil, &core.ConfigError{Path: path, Err: fmt.Errorf("读取配置文件失败: %w", err)}
	}
	used := v.ConfigFileUsed()
	logger.Debug("使用配置文件: %s", used)

	cfg := &AppConfig{path: used}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, &core.ConfigError{Path: used, Err: fmt.Errorf("配置解析失败: %w", err)}
	}

	if err := cfg.DigiKey.Validate(); err != nil {
		return nil, &core.ConfigError{Path: used, Err: fmt.Errorf("digikey 配置不合法: %w", err)}
	}

	if !reportFormats[cfg.Report.Format] {
		return nil, &core.ConfigError{Path: used, Err: fmt.Errorf("report.format 不支持 %q (csv, json)", cfg.Report.Format)}
	}

	if cfg.DigiKey.StoragePath == "" {
		cfg.DigiKey.StoragePath = filepath.Join(filepath.Dir(used), storageDirName)
	}
	if err := os.MkdirAll(cfg.DigiKey.StoragePath, 0755); err != nil {
		return nil, &core.ConfigError{Path: used, Err: fmt.Errorf("创建存储目录失败: %w", err)}
	}

	return cfg, nil
}

// CreateExampleConfig 在 dir 下写一份示例配置；文件已存在时不覆盖
func CreateExampleConfig(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("创建配置目录失败: %w", err)
	}
	configFile := filepath.Join(dir, "config.yaml")

	if _, err := os.Stat(configFile); err == nil {
		logger.Warn("配置文件 %s 已存在，请前往编辑即可", configFile)
		return configFile, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("检查配置文件时出错: %w", err)
	}

	example := AppConfig{
		Env: "prod",
		Log: LogConfig{Level: "INFO", Color: true},
		DigiKey: func() digikey.Config {
			c := *digikey.DefaultConfig()
			c.ClientID = "your-client-id"
			c.ClientSecret = "your-client-secret"
			return c
		}(),
		Batch:  BatchConfig{Workers: 1, MemoSize: 128},
		Report: ReportConfig{Format: "csv"},
	}
	body, err := yaml.Marshal(example)
	if err != nil {
		return "", fmt.Errorf("生成示例配置失败: %w", err)
	}

	header := "# PartHunter 配置文件\n# 在 https://developer.digikey.com 创建应用后填写 client_id / client_secret\n\n"
	if err := os.WriteFile(configFile, append([]byte(header), body...), 0600); err != nil {
		return "", fmt.Errorf("写入配置文件失败: %w", err)
	}
	logger.Info("已在 %s 中创建配置文件", configFile)
	return configFile, nil
}
