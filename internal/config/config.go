package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config 应用程序配置
type Config struct {
	// 服务器配置
	Server ServerConfig `yaml:"server"`

	// 生成服务（OpenAI兼容接口）配置
	Generation GenerationConfig `yaml:"generation"`

	// 文档解码配置
	Document DocumentConfig `yaml:"document"`

	// 文本归一化配置
	Normalizer NormalizerConfig `yaml:"normalizer"`

	// 日志配置
	Logger LoggerConfig `yaml:"logger"`
}

// ServerConfig 定义服务器配置
type ServerConfig struct {
	Address string `yaml:"address"` // 例如 ":8080" or "0.0.0.0:8080"
}

// GenerationConfig 定义外部文本生成服务的配置
type GenerationConfig struct {
	APIKey         string  `yaml:"api_key"`         // API密钥，通常通过环境变量注入
	APIURL         string  `yaml:"api_url"`         // chat completions 端点
	Model          string  `yaml:"model"`           // 默认模型名
	MaxTokens      int     `yaml:"max_tokens"`      // 默认最大输出token数
	Temperature    float64 `yaml:"temperature"`     // 默认温度
	TimeoutSeconds int     `yaml:"timeout_seconds"` // 单次调用超时(秒)
	// 每分钟允许的请求数，0表示不限流
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// DocumentConfig 定义文档解码配置
type DocumentConfig struct {
	// 上传文件大小上限(字节)，超过则在解码前直接拒绝
	MaxFileSizeBytes int64 `yaml:"max_file_size_bytes"`
}

// NormalizerConfig 定义文本归一化配置
type NormalizerConfig struct {
	// 文档文本的最大保留字符数(按rune计)
	DocumentMaxChars int `yaml:"document_max_chars"`
	// 补足信息(用户手输备注)的最大保留字符数
	NotesMaxChars int `yaml:"notes_max_chars"`
	// 是否启用关键词分段过滤(仅作用于文档文本)
	EnableKeywordFilter bool `yaml:"enable_keyword_filter"`
	// 关键词表，为空时使用内置的领域默认词表
	Keywords []string `yaml:"keywords"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error
	Format       string `yaml:"format"`        // json, pretty
	TimeFormat   string `yaml:"time_format"`   // 时间格式
	ReportCaller bool   `yaml:"report_caller"` // 是否报告调用位置
}

// 各项配置的默认值
const (
	DefaultMaxFileSizeBytes = 10 * 1024 * 1024 // 10 MiB
	DefaultDocumentMaxChars = 15000
	DefaultNotesMaxChars    = 3000
	DefaultModel            = "gpt-4o-mini"
	DefaultMaxTokens        = 4096
	DefaultTemperature      = 0.7
	DefaultTimeoutSeconds   = 60
	DefaultAPIURL           = "https://api.openai.com/v1/chat/completions"
)

// LoadConfig 从文件加载配置
// configPath为空时按常见位置查找；文件缺失的字段回落到默认值；
// 密钥类字段允许用环境变量覆盖，避免写入配置文件。
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		searchPaths := []string{
			"config.yaml",
			"./config.yaml",
			"../config.yaml",
			filepath.Join(os.Getenv("HOME"), ".ai-reactor-tools", "config.yaml"),
		}

		if execPath, err := os.Executable(); err == nil {
			execDir := filepath.Dir(execPath)
			searchPaths = append(searchPaths,
				filepath.Join(execDir, "config.yaml"),
				filepath.Join(execDir, "..", "config.yaml"),
			)
		}

		for _, p := range searchPaths {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	cfg := defaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件 %s 失败: %w", configPath, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件 %s 失败: %w", configPath, err)
		}
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Address: ":8080"},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// applyDefaults 为未设置的字段补充默认值
func applyDefaults(cfg *Config) {
	if cfg.Generation.APIURL == "" {
		cfg.Generation.APIURL = DefaultAPIURL
	}
	if cfg.Generation.Model == "" {
		cfg.Generation.Model = DefaultModel
	}
	if cfg.Generation.MaxTokens <= 0 {
		cfg.Generation.MaxTokens = DefaultMaxTokens
	}
	if cfg.Generation.Temperature <= 0 {
		cfg.Generation.Temperature = DefaultTemperature
	}
	if cfg.Generation.TimeoutSeconds <= 0 {
		cfg.Generation.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if cfg.Document.MaxFileSizeBytes <= 0 {
		cfg.Document.MaxFileSizeBytes = DefaultMaxFileSizeBytes
	}
	if cfg.Normalizer.DocumentMaxChars <= 0 {
		cfg.Normalizer.DocumentMaxChars = DefaultDocumentMaxChars
	}
	if cfg.Normalizer.NotesMaxChars <= 0 {
		cfg.Normalizer.NotesMaxChars = DefaultNotesMaxChars
	}
}

// applyEnvOverrides 用环境变量覆盖敏感配置
func applyEnvOverrides(cfg *Config) {
	if envKey := os.Getenv("OPENAI_API_KEY"); envKey != "" {
		cfg.Generation.APIKey = envKey
	}
	if envURL := os.Getenv("OPENAI_API_URL"); envURL != "" {
		cfg.Generation.APIURL = envURL
	}
	if envModel := os.Getenv("OPENAI_MODEL"); envModel != "" {
		cfg.Generation.Model = envModel
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Address == "" {
		return fmt.Errorf("配置校验失败: server.address 不能为空")
	}
	if cfg.Normalizer.NotesMaxChars > cfg.Normalizer.DocumentMaxChars {
		return fmt.Errorf("配置校验失败: notes_max_chars(%d) 不应大于 document_max_chars(%d)",
			cfg.Normalizer.NotesMaxChars, cfg.Normalizer.DocumentMaxChars)
	}
	return nil
}
