package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marlex/internal/database"
	"marlex/internal/router"
	"marlex/internal/services"
	"marlex/pkg/config"
	"marlex/pkg/logger"
)

func main() {
	// 加载配置
	cfg := config.GetConfig()

	// 初始化日志
	if err := logger.Initialize(cfg); err != nil {
		panic("初始化日志失败: " + err.Error())
	}
	log := logger.GetLogger()

	// 初始化数据库
	if err := database.Initialize(cfg); err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	defer database.Close()

	// 迁移表结构
	if err := database.Migrate(); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	// 初始化种子数据
	if err := seedData(database.GetDB()); err != nil {
		log.Fatalf("初始化种子数据失败: %v", err)
	}

	// 初始化订单事件队列，Redis不可用时降级为不推送
	orderQueue := database.GetOrderQueue()
	if err := orderQueue.Ping(); err != nil {
		log.Warnf("Redis连接失败，订单实时推送不可用: %v", err)
		orderQueue = nil
	} else {
		defer database.CloseOrderQueue()
	}

	// 启动会话清理调度器
	cleanupService := services.NewSessionCleanupService(database.GetDB())
	if err := cleanupService.Start(); err != nil {
		log.Fatalf("启动会话清理调度器失败: %v", err)
	}
	defer cleanupService.Stop()

	// 创建路由与HTTP服务
	r := router.Setup(database.GetDB(), orderQueue, cleanupService)
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		log.Infof("服务启动，监听端口 %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("收到退出信号，开始优雅关闭")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("服务关闭失败: %v", err)
	}
	log.Info("服务已退出")
}
