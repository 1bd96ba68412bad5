package main

import (
	"flag"
	"log"
	"strings"
	"time"

	"budget/config"
	"budget/database"
	"budget/middleware"
	"budget/router"
	"budget/service"
)

// @title 预算管理系统 API
// @version 1.0
// @description 分期预算管理系统 API，支持预算创建、缴款、利率配置、状态维护与数据导出
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 8080 或 :8080")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("预算管理系统 v1.0.0")
		return
	}

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		// 自动添加冒号前缀
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("命令行指定端口: %s", port)
	}

	// 打印配置信息
	config.PrintConfig()

	// 初始化数据库
	if err := database.Init(cfg); err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}

	// 初始化 JWT
	middleware.InitJWT(cfg)

	// 后台状态维护：定期将到期预算置为过期、缴清预算置为完成
	if cfg.Maintenance.Enabled {
		go runMaintenanceLoop(cfg)
	}

	// 设置路由
	r := router.SetupRouter(cfg)

	// 启动服务器
	log.Printf("==========================================")
	log.Printf("  📒 预算管理系统已启动")
	log.Printf("==========================================")
	log.Printf("  Swagger:  http://localhost%s/swagger/index.html", cfg.Server.Port)
	log.Printf("  API接口:  http://localhost%s/api/v1/", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("服务器启动失败: %v", err)
	}
}

// runMaintenanceLoop 启动时先跑一次状态维护，之后按配置间隔循环执行
func runMaintenanceLoop(cfg *config.Config) {
	runMaintenanceOnce(cfg)

	ticker := time.NewTicker(cfg.Maintenance.Interval)
	defer ticker.Stop()

	for range ticker.C {
		runMaintenanceOnce(cfg)
	}
}

func runMaintenanceOnce(cfg *config.Config) {
	manager := service.NewStatusManager(database.DB)
	result, err := manager.PerformStatusMaintenance()
	if err != nil {
		log.Printf("状态维护失败: %v", err)
		return
	}
	log.Printf("状态维护完成: 过期 %d 个, 完成 %d 个", result.Expired, result.Finished)

	// 配置了收件人时发送维护报告与过期提醒；邮件失败只记日志
	if cfg.Email.Enabled && cfg.Email.NotifyTo != "" && (result.Expired > 0 || result.Finished > 0) {
		emailService := service.NewEmailService(&cfg.Email)
		if err := emailService.SendMaintenanceReport(cfg.Email.NotifyTo, result.Expired, result.Finished, time.Now()); err != nil {
			log.Printf("发送维护报告邮件失败: %v", err)
		}
		if len(result.ExpiredCodes) > 0 {
			if err := emailService.SendExpiredBudgetsNotice(cfg.Email.NotifyTo, result.ExpiredCodes); err != nil {
				log.Printf("发送过期提醒邮件失败: %v", err)
			}
		}
	}
}
