package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/jengzang/activity-ranks/internal/achievement"
	"github.com/jengzang/activity-ranks/internal/api"
	"github.com/jengzang/activity-ranks/internal/config"
	"github.com/jengzang/activity-ranks/internal/database"
	"github.com/jengzang/activity-ranks/internal/handler"
	"github.com/jengzang/activity-ranks/internal/logging"
	"github.com/jengzang/activity-ranks/internal/profile"
	"github.com/jengzang/activity-ranks/internal/repository"
	"github.com/jengzang/activity-ranks/internal/service"
)

func main() {
	// 加载配置
	cfg := config.Load()
	if err := logging.Setup(os.Stderr, cfg.LogLevel); err != nil {
		log.Fatal().Err(err).Str("level", cfg.LogLevel).Msg("invalid log level")
	}

	// 初始化数据库
	if err := database.Init(context.Background(), database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer database.Close()

	badges, err := achievement.LoadConfig(cfg.BadgeTable)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load badge table")
	}

	profileService := service.NewProfileService(repository.NewProfileRepository(database.GetDB()), profile.Options{
		LinkBase: cfg.LinkBase,
		Engine:   achievement.New(badges),
	})
	profileHandler := handler.NewProfileHandler(profileService, cfg.MaxUploadBytes)

	// 初始化路由
	router := api.SetupRouter(cfg, profileHandler)

	// 启动服务器
	log.Info().Str("address", cfg.Port).Str("db", cfg.DBPath).Msg("serving")
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
