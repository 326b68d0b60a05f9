package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/SlpAus/what-beats-backend/internal/platform/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	// connectAttempts 是首次建立连接时的最大尝试次数
	connectAttempts = 3
	// connectBackoff 是两次尝试之间的基础等待时间，按次数线性递增
	connectBackoff = 2 * time.Second
)

// NewSqliteDB 建立与SQLite数据库的连接，并返回一个可注入的句柄。
// 连接失败时会进行有限次数的退避重试，全部失败后返回错误，由调用方决定是否退出。
func NewSqliteDB(cfg config.SqliteConfig) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 0,
			LogLevel:      logger.Silent,
			Colorful:      true,
		},
	)

	var db *gorm.DB
	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		db, err = gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
			Logger: newLogger,
		})
		if err == nil {
			fmt.Println("数据库连接成功！")
			return db, nil
		}
		fmt.Printf("连接数据库失败 (第%d次): %v\n", attempt, err)
		time.Sleep(time.Duration(attempt) * connectBackoff)
	}

	return nil, fmt.Errorf("无法连接到SQLite数据库 %s: %w", cfg.Path, err)
}
