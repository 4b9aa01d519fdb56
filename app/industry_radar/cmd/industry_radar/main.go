package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/config"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/engine"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/logger"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/render"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/storage/factory"
)

var (
	flagconf      string
	flagKeywords  string
	flagResults   int
	flagSites     int
	flagSocial    bool
	flagOutputDir string
)

func init() {
	flag.StringVar(&flagconf, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
	flag.StringVar(&flagKeywords, "keywords", "", "comma separated research keywords (default from config)")
	flag.IntVar(&flagResults, "results", 0, "number of search results, 5-50")
	flag.IntVar(&flagSites, "sites", 0, "number of websites to scrape, 3-20")
	flag.BoolVar(&flagSocial, "social", true, "include social media data")
	flag.StringVar(&flagOutputDir, "out", "reports", "directory for the markdown export")
}

func main() {
	flag.Parse()

	// 1. 加载配置
	confPath := flagconf
	if _, err := os.Stat(confPath); err != nil {
		log.Printf("配置文件 %s 不存在，使用默认配置与环境变量", confPath)
		confPath = ""
	}
	cfg, err := config.Load(confPath)
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}

	// 2. 初始化日志
	if err = logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	logger.Log.Info("启动行业雷达...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. 初始化存储
	store, err := factory.Open(ctx, cfg.DB)
	if err != nil {
		logger.Log.Fatalf("无法连接数据库: %v", err)
	}
	defer store.Close()

	// 4. 初始化引擎
	eng, err := engine.NewEngine(ctx, cfg, store)
	if err != nil {
		logger.Log.Fatalf("引擎初始化失败: %v", err)
	}

	// 5. 运行
	res, runErr := eng.Run(ctx, engine.RunOptions{
		Keywords:      flagKeywords,
		MaxResults:    flagResults,
		MaxSites:      flagSites,
		IncludeSocial: flagSocial,
	})
	if runErr != nil {
		logger.Log.Errorf("报告未能保存到数据库: %v", runErr)
	}

	// 6. 导出 Markdown
	md, err := render.Markdown(res.Report)
	if err != nil {
		logger.Log.Fatalf("渲染 Markdown 失败: %v", err)
	}
	if err := os.MkdirAll(flagOutputDir, 0o755); err != nil {
		logger.Log.Fatalf("无法创建输出目录: %v", err)
	}
	outputFile := filepath.Join(flagOutputDir, render.Filename(res.Report))
	if err := os.WriteFile(outputFile, md, 0o644); err != nil {
		logger.Log.Fatalf("写入文件失败: %v", err)
	}

	logger.Log.Infof("报告已生成: %s (id=%d, %s)", outputFile, res.ReportID, res.State)
	if runErr != nil {
		_ = store.Close()
		stop()
		os.Exit(1)
	}
}
