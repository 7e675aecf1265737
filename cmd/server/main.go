package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/user/siamlacorns/internal/config"
	"github.com/user/siamlacorns/internal/handler"
	"github.com/user/siamlacorns/internal/repository"
	"github.com/user/siamlacorns/internal/router"
	"github.com/user/siamlacorns/internal/service"
	"github.com/user/siamlacorns/internal/token"
	"github.com/user/siamlacorns/internal/utils"
)

func main() {
	// 加载 .env 文件（如果存在）
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用环境变量")
	}

	cfg := config.Load()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	utils.InitCache()

	repos := repository.NewRepositories(db)
	codec := token.NewCodec(cfg.AppSecret, cfg.JWTExpiry)

	userService := service.NewUserService(repos.User, repos.Collection, cfg.AvatarDir, cfg.AvatarURLBase)
	lacornService := service.NewLacornService(repos.Lacorn, repos.Episode, repos.History)
	actorService := service.NewActorService(repos.Actor, repos.Lacorn)
	watchService := service.NewWatchService(repos.History, repos.Lacorn, repos.Episode, repos.User)
	collectionService := service.NewCollectionService(repos.Collection, repos.Lacorn)
	tmdbService := service.NewTMDBService(repos.Lacorn, repos.Actor, cfg.TMDBAPIKey, cfg.TMDBBaseURL, cfg.TMDBImageBase)

	h := handler.NewHandler(
		userService,
		lacornService,
		actorService,
		watchService,
		collectionService,
		tmdbService,
		codec,
	)

	engine := router.Setup(h, codec, repos.User, cfg.AvatarDir, cfg.AvatarURLBase)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        engine,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("服务启动，监听端口 %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("收到退出信号，开始关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务关闭异常: %v", err)
	}
	log.Println("服务已退出")
}
