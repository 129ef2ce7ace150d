package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath 是未设置 CONFIG_PATH 时使用的配置文件路径。
const DefaultPath = "config.yaml"

// RedisConfig 定义了 Redis 数据库的连接配置。
type RedisConfig struct {
	Address  string `yaml:"address"`  // Redis 服务器地址 (例如: "localhost:6379")
	Password string `yaml:"password"` // Redis 密码
	DB       int    `yaml:"db"`       // Redis 数据库编号
}

// MySQLConfig 定义了 MySQL 数据库的连接配置。
type MySQLConfig struct {
	Address         string `yaml:"address"`         // MySQL 服务器地址
	Username        string `yaml:"username"`        // 用户名
	Password        string `yaml:"password"`        // 密码
	Database        string `yaml:"database"`        // 数据库名称
	MaxOpenConns    int    `yaml:"maxOpenConns"`    // 最大打开连接数
	MaxIdleConns    int    `yaml:"maxIdleConns"`    // 最大空闲连接数
	ConnMaxLifetime int    `yaml:"connMaxLifetime"` // 连接最大生命周期 (秒)
}

// KafkaConfig 定义了目录事件使用的 Kafka 配置。
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"` // 是否发布和消费目录事件
	Brokers []string `yaml:"brokers"` // Kafka Broker 地址列表
	Topic   string   `yaml:"topic"`   // 目录事件主题，默认 "catalog_events"
	GroupID string   `yaml:"groupId"` // 消费者组前缀，每个实例会追加自己的 ID
}

// DatabaseConfigs 包含所有数据库的配置。
type DatabaseConfigs struct {
	Redis RedisConfig `yaml:"redis"` // Redis 数据库配置
	MySQL MySQLConfig `yaml:"mysql"` // MySQL 数据库配置
	Kafka KafkaConfig `yaml:"kafka"` // Kafka 消息队列配置
}

// AppInfo 对应 'app' 部分，包含应用程序的基本信息。
type AppInfo struct {
	Name        string `yaml:"name"`        // 应用程序名称
	Version     string `yaml:"version"`     // 应用程序版本
	Environment string `yaml:"environment"` // 运行环境 (例如: "development", "production")
}

// LoggerConfig 定义了日志记录器的配置。
type LoggerConfig struct {
	Level string `yaml:"level"` // 日志级别 (例如: "info", "debug", "warn", "error")
}

// ServerConfig 定义了 HTTP 服务器的配置。
type ServerConfig struct {
	Address         string `yaml:"address"`         // 监听地址，默认 ":8080"
	ShutdownTimeout string `yaml:"shutdownTimeout"` // 优雅关闭的超时时间，例如 "10s"
}

// CatalogConfig 定义了影片目录页面的行为。
type CatalogConfig struct {
	Language          string `yaml:"language"`          // 列表连接词使用的语言 (BCP 47, 例如 "pt-BR")
	ActorMovieLimit   int    `yaml:"actorMovieLimit"`   // 演员详情页最多显示的影片数量
	RelatedMovieLimit int    `yaml:"relatedMovieLimit"` // 影片详情页最多显示的相关影片数量
}

// CacheConfig 定义了相关影片缓存的配置。
type CacheConfig struct {
	Backend  string `yaml:"backend"`  // "redis", "memory" 或 "none"
	TTL      string `yaml:"ttl"`      // 缓存条目的存活时间，例如 "10m"
	Capacity int    `yaml:"capacity"` // memory 后端的最大条目数量
}

// AppConfig 是整个 YAML 文件的根结构，包含了应用程序的所有配置。
type AppConfig struct {
	App        AppInfo          `yaml:"app"`        // 应用程序信息
	Logger     LoggerConfig     `yaml:"logger"`     // 日志记录器配置
	Server     ServerConfig     `yaml:"server"`     // HTTP 服务器配置
	Catalog    CatalogConfig    `yaml:"catalog"`    // 影片目录配置
	Cache      CacheConfig      `yaml:"cache"`      // 缓存配置
	Databases  DatabaseConfigs  `yaml:"databases"`  // 数据库配置
	Middleware MiddlewareConfig `yaml:"middleware"` // 中间件配置
}

// MiddlewareConfig 包含所有中间件的配置。
type MiddlewareConfig struct {
	RateLimiter    RateLimiterConfig    `yaml:"rateLimiter"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuitBreaker"`
}

// RateLimiterConfig 定义了限流器的配置。
type RateLimiterConfig struct {
	Enabled     bool              `yaml:"enabled"`
	Algorithm   string            `yaml:"algorithm"` // 支持: "fixedWindow", "tokenBucket"
	FixedWindow FixedWindowConfig `yaml:"fixedWindow"`
	TokenBucket TokenBucketConfig `yaml:"tokenBucket"`
}

// FixedWindowConfig 定义了固定窗口计数器算法的配置。
type FixedWindowConfig struct {
	Limit  int    `yaml:"limit"`
	Window string `yaml:"window"` // 例如: "1m", "30s"
}

// TokenBucketConfig 定义了令牌桶算法的配置。
type TokenBucketConfig struct {
	Rate     float64 `yaml:"rate"` // 每秒速率
	Capacity int     `yaml:"capacity"`
}

// CircuitBreakerConfig 定义了熔断器的配置。
type CircuitBreakerConfig struct {
	Enabled          bool   `yaml:"enabled"`
	FailureThreshold uint32 `yaml:"failureThreshold"`
	SuccessThreshold uint32 `yaml:"successThreshold"`
	Timeout          string `yaml:"timeout"` // 例如: "30s"
}

// LoadConfig 函数从指定路径加载并解析 YAML 配置文件，并为缺失的字段填充默认值。
func LoadConfig(path string) (*AppConfig, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取 YAML 文件 '%s': %w", path, err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(yamlFile, &cfg); err != nil {
		return nil, fmt.Errorf("解析 YAML 文件失败: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// PathFromEnv 返回 CONFIG_PATH 环境变量指定的路径，未设置时返回 DefaultPath。
func PathFromEnv() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultPath
}

// ApplyDefaults 为零值字段填充默认值。
func (c *AppConfig) ApplyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "filmoteca"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.Catalog.Language == "" {
		c.Catalog.Language = "pt-BR"
	}
	if c.Catalog.ActorMovieLimit == 0 {
		c.Catalog.ActorMovieLimit = 20
	}
	if c.Catalog.RelatedMovieLimit == 0 {
		c.Catalog.RelatedMovieLimit = 10
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.TTL == "" {
		c.Cache.TTL = "10m"
	}
	if c.Cache.Capacity == 0 {
		c.Cache.Capacity = 1024
	}
	if c.Databases.Kafka.Topic == "" {
		c.Databases.Kafka.Topic = "catalog_events"
	}
	if c.Databases.Kafka.GroupID == "" {
		c.Databases.Kafka.GroupID = c.App.Name
	}
	if c.Middleware.CircuitBreaker.Timeout == "" {
		c.Middleware.CircuitBreaker.Timeout = "30s"
	}
}

// Validate 检查配置中无法通过默认值修正的错误。
func (c *AppConfig) Validate() error {
	switch c.Cache.Backend {
	case "redis", "memory", "none":
	default:
		return fmt.Errorf("未知的缓存后端: %s", c.Cache.Backend)
	}
	if _, err := c.Cache.TTLDuration(); err != nil {
		return err
	}
	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("无效的 server.shutdownTimeout: %w", err)
	}
	if c.Databases.Kafka.Enabled && len(c.Databases.Kafka.Brokers) == 0 {
		return fmt.Errorf("已启用 Kafka 但未配置 brokers")
	}
	if c.Catalog.ActorMovieLimit < 0 || c.Catalog.RelatedMovieLimit < 0 {
		return fmt.Errorf("catalog 数量限制不能为负数")
	}
	return nil
}

// TTLDuration 将 TTL 字符串解析为 time.Duration。
func (c CacheConfig) TTLDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, fmt.Errorf("无效的 cache.ttl: %w", err)
	}
	return d, nil
}
