package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/SlpAus/what-beats-backend/api"
	"github.com/SlpAus/what-beats-backend/internal/admin"
	"github.com/SlpAus/what-beats-backend/internal/comparison"
	"github.com/SlpAus/what-beats-backend/internal/frequency"
	"github.com/SlpAus/what-beats-backend/internal/game"
	"github.com/SlpAus/what-beats-backend/internal/judge"
	"github.com/SlpAus/what-beats-backend/internal/oracle"
	"github.com/SlpAus/what-beats-backend/internal/platform/config"
	"github.com/SlpAus/what-beats-backend/internal/platform/database"
	"github.com/SlpAus/what-beats-backend/internal/platform/health"
	"github.com/SlpAus/what-beats-backend/internal/platform/shutdown"
	"github.com/SlpAus/what-beats-backend/internal/platform/startup"
	"github.com/SlpAus/what-beats-backend/internal/ratelimit"
	"github.com/SlpAus/what-beats-backend/internal/report"
	"github.com/SlpAus/what-beats-backend/pkg/lifecycle"
	"github.com/SlpAus/what-beats-backend/pkg/token"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("服务器启动失败: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 密钥必须在签发任何令牌之前就绪
	token.GenerateSecretKey()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	gin.SetMode(cfg.Server.Mode)

	db, err := database.NewSqliteDB(cfg.Database.Sqlite)
	if err != nil {
		return fmt.Errorf("连接SQLite失败: %w", err)
	}

	// Redis是纯缓存层，连不上时降级运行
	rdb, err := database.NewRedisClient(cfg.Database.Redis)
	if err != nil {
		fmt.Printf("连接Redis失败，以降级模式继续运行: %v\n", err)
		rdb = nil
	}

	judgeClient, err := judge.NewLLMClient(cfg.Judge)
	if err != nil {
		return fmt.Errorf("初始化裁判客户端失败: %w", err)
	}

	// 组装领域服务
	bandRepo := frequency.NewRepository(db, rdb)
	annotator := frequency.NewAnnotator(bandRepo, judgeClient)
	cmpRepo := comparison.NewRepository(db)
	resolver := comparison.NewResolver(cmpRepo, oracle.New(), judgeClient, annotator)
	gameRepo := game.NewRepository(db)
	gameService := game.NewService(gameRepo, resolver)
	reportRepo := report.NewRepository(db)
	reportService := report.NewService(reportRepo, cmpRepo, resolver)

	if err := startup.MigrateModels(db); err != nil {
		return err
	}
	if err := startup.SeedData(annotator); err != nil {
		return err
	}

	// 后台服务
	manager := lifecycle.NewManager()
	checkerHandle, err := manager.NewServiceHandle("redis-health-checker")
	if err != nil {
		return err
	}
	go health.NewChecker(rdb, bandRepo).Run(checkerHandle)

	// HTTP层
	router := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.Cors.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AddAllowHeaders("Authorization")
	router.Use(cors.New(corsConfig))

	api.RegisterRoutes(router, api.Handlers{
		Game:       game.NewHandler(gameService, gameRepo),
		Comparison: comparison.NewHandler(cmpRepo),
		Report:     report.NewHandler(reportService),
		Admin:      admin.NewHandler(cfg.Admin, resolver),
		Limiter:    ratelimit.NewLimiter(rdb),
	})

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}
	go func() {
		fmt.Printf("服务器监听于 %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("HTTP服务器异常退出: %v\n", err)
		}
	}()

	shutdown.NewCoordinator(manager, server).WaitForSignal()
	return nil
}
