package main

import (
	"github.com/gin-gonic/gin"
	"github.com/recipebox/internal/config"
	"github.com/recipebox/internal/db"
	"github.com/recipebox/internal/handler"
	"github.com/recipebox/internal/logger"
	"github.com/recipebox/internal/router"
	"github.com/recipebox/internal/service"
	"go.uber.org/zap"
)

func main() {
	logger.Init()
	defer logger.Close()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		logger.Logger.Fatal("failed to initialize database", zap.Error(err))
	}

	// 保证存在一个后台账号（可选，由环境变量提供）
	if err := service.EnsureStaffUser(db.DB, cfg.StaffEmail, cfg.StaffPassword); err != nil {
		logger.Logger.Fatal("failed to ensure staff user", zap.Error(err))
	}

	api := handler.NewAPI(db.DB, cfg.UploadDir, cfg.UploadURLPath)
	r := router.SetupRouter(api, cfg.SessionSecret)
	r.Static(cfg.UploadURLPath, cfg.UploadDir)

	logger.Info("server starting", zap.String("addr", cfg.ListenAddr))
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Logger.Fatal("failed to run server", zap.Error(err))
	}
}
