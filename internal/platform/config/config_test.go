package config

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig失败: %v", err)
	}
	if cfg.Server.Address != ":8080" {
		t.Fatalf("默认监听地址 = %q, 期望 :8080", cfg.Server.Address)
	}
	if cfg.Database.Sqlite.Path != "whatbeats.db" {
		t.Fatalf("默认SQLite路径 = %q", cfg.Database.Sqlite.Path)
	}
	if cfg.Judge.BaseURL == "" || cfg.Judge.Model == "" {
		t.Fatalf("裁判服务默认值缺失: %+v", cfg.Judge)
	}
}

func TestLoadConfigEnvOnlySecrets(t *testing.T) {
	// 这些键没有默认值也不在配置文件中，必须能从环境变量读到
	t.Setenv("JUDGE_APIKEY", "sk-secret")
	t.Setenv("ADMIN_USERNAME", "root")
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("DATABASE_REDIS_PASSWORD", "redis-pass")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig失败: %v", err)
	}
	if cfg.Judge.APIKey != "sk-secret" {
		t.Fatalf("Judge.APIKey = %q, 期望 sk-secret", cfg.Judge.APIKey)
	}
	if cfg.Admin.Username != "root" || cfg.Admin.Password != "hunter2" {
		t.Fatalf("管理员凭据未从环境变量读取: %+v", cfg.Admin)
	}
	if cfg.Database.Redis.Password != "redis-pass" {
		t.Fatalf("Redis密码未从环境变量读取: %q", cfg.Database.Redis.Password)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("JUDGE_MODEL", "openai/gpt-4o-mini")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig失败: %v", err)
	}
	if cfg.Server.Address != ":9090" {
		t.Fatalf("环境变量未覆盖监听地址: %q", cfg.Server.Address)
	}
	if cfg.Judge.Model != "openai/gpt-4o-mini" {
		t.Fatalf("环境变量未覆盖裁判模型: %q", cfg.Judge.Model)
	}
}
