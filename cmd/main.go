package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ats-engine/internal/api/handler"
	"ats-engine/internal/api/router"
	"ats-engine/internal/config"
	"ats-engine/internal/constants"
	appCoreLogger "ats-engine/internal/logger"
	"ats-engine/internal/parser"
	"ats-engine/internal/processor"
	"ats-engine/internal/storage"
	"ats-engine/internal/tracing"
	"ats-engine/pkg/ratelimit"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/spf13/pflag"
)

// 上传表单除文件外的余量
const multipartOverhead = 1 << 20

func main() {
	var (
		configPath   string
		writeSample  string
		printVersion bool
	)
	pflag.StringVarP(&configPath, "config", "c", "", "Path to config file, searches config.yaml when empty")
	pflag.StringVar(&writeSample, "write-sample-config", "", "Write the default config to this path and exit")
	pflag.BoolVarP(&printVersion, "version", "v", false, "Print version and exit")
	pflag.Parse()

	if printVersion {
		fmt.Println(constants.AppVersion)
		return
	}
	if writeSample != "" {
		if err := config.CreateSampleConfig(writeSample); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	appCoreLogger.Init(appCoreLogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})
	appCoreLogger.BridgeHertz()
	glog.Infof("配置加载成功, 版本 %s", constants.AppVersion)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.InitProvider(ctx, cfg.Tracing)
	if err != nil {
		glog.Fatalf("初始化链路追踪失败: %v", err)
	}

	storageManager, err := storage.NewStorage(ctx, cfg, appCoreLogger.Named("storage"))
	if err != nil {
		glog.Fatalf("初始化存储失败: %v", err)
	}
	defer storageManager.Close(appCoreLogger.Logger)

	pdfExtractor, err := parser.NewEinoPDFTextExtractor(ctx,
		parser.WithEinoLogger(appCoreLogger.Named("pdf")),
		parser.WithEinoTimeout(cfg.PDFExtractTimeout()),
	)
	if err != nil {
		glog.Fatalf("初始化PDF解析器失败: %v", err)
	}
	glog.Info("PDF解析器初始化成功")

	// 避免 nil 指针包装成非 nil 接口
	var profileCache processor.ProfileCache
	if storageManager.Redis != nil {
		profileCache = storageManager.Redis
	}

	resumeService := processor.NewResumeServiceFromConfig(cfg, pdfExtractor, profileCache, appCoreLogger.Named("resume_service"))
	matchService := processor.NewMatchServiceFromConfig(cfg, appCoreLogger.Named("match_service"))

	resumeHandler := handler.NewResumeHandler(resumeService, cfg.Extractor.Placeholders)
	matchHandler := handler.NewMatchHandler(matchService)

	tracer, tracerCfg := hertztracing.NewServerTracer()
	h := server.New(
		tracer,
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		server.WithMaxRequestBodySize(int(cfg.MaxUploadBytes())+multipartOverhead),
	)
	h.Use(hertztracing.ServerMiddleware(tracerCfg))
	h.Use(func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c)
		glog.CtxInfof(c, "%s %s status=%d cost=%s", ctx.Method(), ctx.Path(), ctx.Response.StatusCode(), time.Since(start))
	})

	routeOpts := router.Options{APIKeys: cfg.Server.APIKeys}
	if cfg.Upload.RateLimitQPM > 0 {
		routeOpts.UploadLimiter = ratelimit.NewTokenBucket(cfg.Upload.RateLimitQPM, cfg.Upload.RateLimitBurst)
	}
	router.RegisterRoutes(h, resumeHandler, matchHandler, routeOpts)
	glog.Infof("HTTP 路由注册成功, API Key 认证: %t", len(cfg.Server.APIKeys) > 0)

	go func() {
		glog.Infof("HTTP 服务器启动中，监听地址: %s", cfg.Server.Address)
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	shutdownTimeout := config.GetDuration(cfg.Server.ShutdownTimeout, 5*time.Second)
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Errorf("服务器关闭失败: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		glog.Errorf("关闭链路追踪失败: %v", err)
	}
	glog.Info("优雅退出完成")
}
