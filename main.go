// @title Health Survey 后端 API
// @version 1.0
// @description 泰语性健康问卷的提交服务和问卷数据接口。

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:3001
// @BasePath /api

package main

import (
	"context"
	"flag"
	"health_survey_backend/internal/app"
	"health_survey_backend/internal/config"
	"health_survey_backend/pkg/logger"
	"log"
)

func main() {
	// 命令行参数
	configDir := flag.String("config", "configs", "配置文件所在目录")
	migrateOnly := flag.Bool("migrate-only", false, "只执行存储迁移（MySQL 建表 / MongoDB 建索引），完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 设置迁移标志
	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg, *configDir)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		application.Close(context.Background())
		log.Println("存储迁移完成，退出程序")
		return
	}

	application.Run()
}
