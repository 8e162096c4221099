/*
 * 主程序入口
 * @description: 初始化应用、配置路由、启动服务器、等待中断信号
 * @func: main
 */
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"adminboard/internal/app/admin"
)

func main() {
	var (
		configPath = flag.String("config", "", "配置文件目录(缺省读取ADMINBOARD_CONFIG_PATH或configs/)")
		env        = flag.String("env", "", "环境标识 (development, test, production)")
	)
	flag.Parse()

	// 创建应用实例
	app, err := admin.NewApp(*configPath, *env)
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	// 启动服务器的goroutine
	go func() {
		if err := app.Start(); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// 给服务器一定时间来完成现有请求
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Stop(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
