package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 结构体定义了应用程序的所有配置项
// 它与 config.yaml 文件的结构完全对应
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Judge    JudgeConfig    `mapstructure:"judge"`
	Admin    AdminConfig    `mapstructure:"admin"`
}

// ServerConfig 定义了服务器相关的配置
type ServerConfig struct {
	Mode    string     `mapstructure:"mode"`
	Address string     `mapstructure:"address"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 定义了数据库和缓存相关的配置
type DatabaseConfig struct {
	Sqlite SqliteConfig `mapstructure:"sqlite"`
	Redis  RedisConfig  `mapstructure:"redis"`
}

// SqliteConfig 定义了SQLite的配置
type SqliteConfig struct {
	Path string `mapstructure:"path"`
}

// RedisConfig 定义了Redis的配置
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JudgeConfig 定义了外部LLM裁判服务的配置
// APIKey 推荐通过环境变量 JUDGE_APIKEY 注入，不要写进配置文件
type JudgeConfig struct {
	APIKey  string        `mapstructure:"apiKey"`
	BaseURL string        `mapstructure:"baseUrl"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AdminConfig 定义了管理端登录凭据
type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// LoadConfig 函数负责查找、加载和解析配置文件
// 它会在指定的路径中查找名为 config.yaml 的文件
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// 可以添加多个路径，Viper会按顺序查找
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	// 允许通过环境变量覆盖配置，例如 JUDGE_APIKEY、SERVER_ADDRESS
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 敏感项只通过环境变量注入，没有默认值也不写进配置文件。
	// AutomaticEnv只覆盖已知的键，这些键必须显式绑定才能被Unmarshal看到。
	v.BindEnv("judge.apiKey", "JUDGE_APIKEY")
	v.BindEnv("admin.username", "ADMIN_USERNAME")
	v.BindEnv("admin.password", "ADMIN_PASSWORD")
	v.BindEnv("database.redis.password", "DATABASE_REDIS_PASSWORD")

	// 合理的默认值，保证裸启动也能跑起来
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.sqlite.path", "whatbeats.db")
	v.SetDefault("database.redis.address", "localhost:6379")
	v.SetDefault("judge.baseUrl", "https://openrouter.ai/api/v1")
	v.SetDefault("judge.model", "openai/gpt-3.5-turbo")
	v.SetDefault("judge.timeout", 30*time.Second)

	if err := v.ReadInConfig(); err != nil {
		// 配置文件缺失时依赖默认值和环境变量，不视为致命错误
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
