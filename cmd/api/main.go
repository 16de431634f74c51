package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-chatbot/internal/api"
	"recipe-chatbot/internal/core/session"
	"recipe-chatbot/internal/infrastructure/config"
	"recipe-chatbot/internal/infrastructure/corpus"
	"recipe-chatbot/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	// 使用 logger 記錄啟動信息
	common.LogInfo("載入設定",
		zap.String("corpus_path", cfg.Corpus.Path),
		zap.String("session_store", cfg.Session.Store),
	)

	// 開啟食譜庫
	db, err := corpus.Open(cfg.Corpus.Path, cfg.Corpus.QueryTimeout)
	if err != nil {
		common.LogFatal("Failed to open recipe corpus",
			zap.Error(err),
			zap.String("path", cfg.Corpus.Path),
		)
	}
	defer db.Close()

	if count, err := db.Count(context.Background()); err != nil {
		common.LogWarn("Failed to count recipes", zap.Error(err))
	} else {
		common.LogInfo("食譜庫就緒", zap.Int("recipes", count))
	}

	// 初始化會話儲存
	store, err := session.NewStore(cfg.Session)
	if err != nil {
		common.LogFatal("Failed to initialize session store",
			zap.Error(err),
			zap.String("store", cfg.Session.Store),
		)
	}
	defer store.Close()

	// 設置路由
	router, err := api.SetupRouter(cfg, db, store)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
