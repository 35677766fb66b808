package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（匹配 config/config.yaml）
type Config struct {
	Server    ServerConfig            `mapstructure:"server"`    // 服务器配置
	Database  DatabaseConfig          `mapstructure:"database"`  // PostgreSQL配置
	Log       LogConfig               `mapstructure:"log"`       // 日志配置
	Search    SearchConfig            `mapstructure:"search"`    // 检索/合并配置
	Sources   map[string]SourceConfig `mapstructure:"sources"`   // 各数据源独立配置
	Predictor PredictorConfig         `mapstructure:"predictor"` // 价格模型配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int    `mapstructure:"port"`         // 服务端口
	Mode        string `mapstructure:"mode"`         // Gin运行模式：debug/release/test
	CorsOrigins string `mapstructure:"cors_origins"` // 逗号分隔，"*" 表示全部放行
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN（URL形式）
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug/info/warn/error
	Format string `mapstructure:"format"` // text/json
}

// SearchConfig 检索合并配置
type SearchConfig struct {
	AdapterTimeout    time.Duration `mapstructure:"adapter_timeout"`     // 单个数据源调用超时
	DefaultWindowDays int           `mapstructure:"default_window_days"` // 未指定结束日期时的检索窗口
	EnabledSources    []string      `mapstructure:"enabled_sources"`     // 启用的数据源列表，为空表示全部
}

// SourceConfig 单个数据源的独立配置
type SourceConfig struct {
	BaseURL   string  `mapstructure:"base_url"`   // API基础地址
	Timeout   int     `mapstructure:"timeout"`    // HTTP超时（秒）
	APIKey    string  `mapstructure:"api_key"`    // Ticketmaster apikey / SeatGeek client_id
	AuthToken string  `mapstructure:"auth_token"` // Eventbrite Bearer Token
	Proxy     string  `mapstructure:"proxy"`      // 代理地址
	PageSize  int     `mapstructure:"page_size"`  // 单次拉取条数
	RateLimit float64 `mapstructure:"rate_limit"` // 每秒请求数，<=0 不限流
	RateBurst int     `mapstructure:"rate_burst"` // 突发请求数
}

// PredictorConfig 外部价格模型配置
type PredictorConfig struct {
	ModelPath  string  `mapstructure:"model_path"` // 模型文件路径，不存在时仅用启发式
	Confidence float64 `mapstructure:"confidence"` // 模型可用时的置信度（即混合权重）
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）
	return LoadConfigFrom("./config")
}

// LoadConfigFrom 从指定目录读取 config.yaml
func LoadConfigFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	setDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.cors_origins", "*")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("search.adapter_timeout", 10*time.Second)
	v.SetDefault("search.default_window_days", 18*30)
	v.SetDefault("predictor.model_path", "./models/price_model.json")
	v.SetDefault("predictor.confidence", 0.7)
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]SourceConfig)
	}
	if t, ok := cfg.Sources["ticketmaster"]; ok {
		if v := os.Getenv("TICKETMASTER_API_KEY"); v != "" {
			t.APIKey = v
		}
		cfg.Sources["ticketmaster"] = t
	}
	if s, ok := cfg.Sources["seatgeek"]; ok {
		if v := os.Getenv("SEATGEEK_CLIENT_ID"); v != "" {
			s.APIKey = v
		}
		cfg.Sources["seatgeek"] = s
	}
	if e, ok := cfg.Sources["eventbrite"]; ok {
		if v := os.Getenv("EVENTBRITE_PRIVATE_TOKEN"); v != "" {
			e.AuthToken = v
		}
		cfg.Sources["eventbrite"] = e
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CorsOrigins = v
	}
}

// SourceEnabled 数据源是否启用（enabled_sources 为空时全部启用）
func (s *SearchConfig) SourceEnabled(name string) bool {
	if len(s.EnabledSources) == 0 {
		return true
	}
	for _, n := range s.EnabledSources {
		if strings.EqualFold(strings.TrimSpace(n), name) {
			return true
		}
	}
	return false
}

// DefaultWindow 默认检索窗口
func (s *SearchConfig) DefaultWindow() time.Duration {
	days := s.DefaultWindowDays
	if days <= 0 {
		days = 18 * 30
	}
	return time.Duration(days) * 24 * time.Hour
}
