package main

import (
	"expvar"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/liliang-cn/catalog/internal/data"
	"github.com/liliang-cn/catalog/internal/jsonlog"
)

var (
	buildTime string
	version   string
)

// 应用配置
type config struct {
	port    int
	env     string
	storage struct {
		dir string
	}
	limiter struct {
		rps     float64
		burst   int
		enabled bool
	}
	cors struct {
		trustedOrigins []string
	}
}

// 应用定义
type application struct {
	config config
	logger *jsonlog.Logger
	models data.Models
}

func main() {
	var cfg config
	flag.IntVar(&cfg.port, "port", 4000, "API server port")
	flag.StringVar(&cfg.env, "env", "development", "Environment (development|staging|production)")
	flag.StringVar(&cfg.storage.dir, "storage-dir", "./data", "Directory holding movies.json and texts.json")
	flag.Float64Var(&cfg.limiter.rps, "limiter-rps", 2, "Rate limiter maximum requests per second")
	flag.IntVar(&cfg.limiter.burst, "limiter-burst", 4, "Rate limiter maximum burst")
	flag.BoolVar(&cfg.limiter.enabled, "limiter-enabled", true, "Enable rate limiter")
	flag.Func("cors-trusted-origins", "Trusted CORS origins (space separated)", func(val string) error {
		cfg.cors.trustedOrigins = strings.Fields(val)
		return nil
	})

	configFile := flag.String("config", "", "Path to a TOML config file (explicit flags take precedence)")
	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	// 显示版本
	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		fmt.Printf("Build time:\t%s\n", buildTime)
		os.Exit(0)
	}

	var cfgErr error
	if *configFile != "" {
		explicit := map[string]bool{}
		flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		cfgErr = loadConfigFile(*configFile, &cfg, explicit)
	}

	minLevel := jsonlog.LevelInfo
	if cfg.env == "development" {
		minLevel = jsonlog.LevelDebug
	}
	logger := jsonlog.New(os.Stdout, minLevel)

	if cfgErr != nil {
		logger.PrintFatal(cfgErr, nil)
	}

	models := data.NewModels(cfg.storage.dir)

	// 启动时检查集合文件, 损坏的文件只记录错误, 对应的请求会返回 500
	if movies, err := models.Movies.GetAll(data.MovieFilters{}); err != nil {
		logger.PrintError(err, map[string]string{"collection": "movies"})
	} else {
		logger.PrintInfo("collection loaded", map[string]string{"collection": "movies", "records": strconv.Itoa(len(movies))})
	}
	if texts, err := models.Texts.GetAll(data.TextFilters{}); err != nil {
		logger.PrintError(err, map[string]string{"collection": "texts"})
	} else {
		logger.PrintInfo("collection loaded", map[string]string{"collection": "texts", "records": strconv.Itoa(len(texts))})
	}

	// 发布版本信息
	expvar.NewString("version").Set(version)

	// 发布活动的 goroutine 数
	expvar.Publish("goroutines", expvar.Func(func() interface{} {
		return runtime.NumGoroutine()
	}))

	// 发布当前的时间信息
	expvar.Publish("timestamp", expvar.Func(func() interface{} {
		return time.Now().Unix()
	}))

	// 初始化应用
	app := &application{
		config: cfg,
		logger: logger,
		models: models,
	}

	// 启动 server
	err := app.serve()
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}
