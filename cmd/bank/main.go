package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	http_adapter "github.com/JoeShih716/go-bank-ledger/internal/app/bank/adapter/in/http"
	memory_adapter "github.com/JoeShih716/go-bank-ledger/internal/app/bank/adapter/out/memory"
	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/usecase"
	"github.com/JoeShih716/go-bank-ledger/pkg/authz"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Auth   AuthConfig   `yaml:"auth"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type AuthConfig struct {
	Tokens []authz.TokenEntry `yaml:"tokens"`
}

func main() {
	// 1. 載入設定
	cfg := loadConfig()

	// 2. 初始化記憶體引擎並啟動
	engine := memory_adapter.NewEngine()
	if err := engine.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start bank engine: %v", err)
	}

	// 3. 初始化 UseCase 與權限裝飾器
	core := usecase.NewBankUseCase(engine)
	secured := usecase.NewSecured(core)

	// 4. 初始化 HTTP Adapter (Driving Adapter)
	policy := authz.NewPolicy(cfg.Auth.Tokens)
	server := http_adapter.NewServer(secured, policy)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.Router(),
	}

	// Graceful Shutdown
	go func() {
		log.Printf("Starting HTTP server on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to serve: %v", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown: %v", err)
	}

	// 引擎收尾：清空所有帳戶
	engine.Dispose(context.Background())
	log.Println("Server exited")
}

func loadConfig() Config {
	cfgData, err := os.ReadFile("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(cfgData, &cfg); err != nil {
		log.Fatalf("Failed to parse config: %v", err)
	}

	// 補全預設配置 (如果 yaml 沒寫)
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if len(cfg.Auth.Tokens) == 0 {
		log.Fatal("Config has no auth tokens; no caller could ever be authorized")
	}
	return cfg
}
