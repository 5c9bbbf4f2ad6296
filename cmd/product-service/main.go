package main

import (
	"fmt"
	"os"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/tracing"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"

	"productmanagement/cmd/product-service/internal/conf"
	"productmanagement/cmd/product-service/internal/data"
	"productmanagement/cmd/product-service/internal/server"
	"productmanagement/cmd/product-service/internal/service"
	plog "productmanagement/pkg/log"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	Name    = "product-service"
	Version = "v1.0.0"

	configPath string

	id, _ = os.Hostname()
)

var rootCmd = &cobra.Command{
	Use:   "product-service [subcommand]",
	Short: "Product catalog service backed by a single XML document",
	// main 负责打印错误
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: ./configs/product-service.yaml)")
	rootCmd.AddCommand(serveCmd, initCmd, seedCmd, eventsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app 组装后的应用
type app struct {
	http    *server.HTTPServer
	catalog *service.CatalogService
	data    *data.Data
}

func newApp(hs *server.HTTPServer, catalog *service.CatalogService, d *data.Data) *app {
	return &app{http: hs, catalog: catalog, data: d}
}

// bootstrap 加载配置并构建日志
func bootstrap() (*conf.Config, *plog.ZapLogger, error) {
	cfg, err := conf.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	zl, err := plog.NewZap(plog.Config{
		Level:          cfg.Observability.LogLevel,
		Format:         cfg.Observability.LogFormat,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		Environment:    cfg.Observability.Environment,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, plog.NewZapLogger(zl), nil
}

// withTraceFields 为日志附加实例与链路字段，时间与调用位置由 zap 输出
func withTraceFields(logger log.Logger) log.Logger {
	return log.With(logger,
		"service.id", id,
		"trace.id", tracing.TraceID(),
		"span.id", tracing.SpanID(),
	)
}
