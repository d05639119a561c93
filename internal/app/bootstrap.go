package app

import (
	"errors"

	"github.com/built-mlm/internal/provider"
	"github.com/built-mlm/internal/router"
	"github.com/built-mlm/internal/worker"
)

// BuildRunner 按模式装配 API 与 worker 服务
func BuildRunner(opts Options) (*Runner, error) {
	opts, err := normalizeOptions(opts)
	if err != nil {
		return nil, err
	}
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	container := provider.NewContainer(cfg)

	var services []Service
	if runsAPI(opts.Mode) {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server.Addr(), engine, opts.HTTP))
	}
	if runsWorker(opts.Mode) {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(cfg, consumer)
		if err != nil {
			return nil, err
		}
		services = append(services, workerService)
	}
	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts, err := normalizeOptions(opts)
	if err != nil {
		return err
	}
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts)
	if err != nil {
		return err
	}

	mlmCfg := opts.Config.MLM
	opts.Logger.Infow("app_start",
		"addr", opts.Config.Server.Addr(),
		"mode", opts.Mode,
		"services", runner.Names(),
		"mlm_max_tree_depth", mlmCfg.MaxTreeDepth,
		"report_cache_ttl_seconds", mlmCfg.ReportCacheTTLSeconds,
	)
	return RunWithOptions(runner, opts)
}
