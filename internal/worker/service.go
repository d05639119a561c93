package worker

import (
	"context"
	"errors"
	"time"

	"github.com/built-mlm/internal/config"
	"github.com/built-mlm/internal/logger"
	"github.com/built-mlm/internal/metrics"
	"github.com/built-mlm/internal/queue"

	"github.com/hibiken/asynq"
)

// reportWarmReason 定时预热报表缓存时使用的刷新原因
const reportWarmReason = queue.ReportRefreshReasonManual

// Service 异步队列服务
type Service struct {
	name         string
	server       *asynq.Server
	mux          *asynq.ServeMux
	consumer     *Consumer
	warmInterval time.Duration
}

// NewService 创建异步队列服务
func NewService(cfg *config.Config, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Queue.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(&cfg.Queue)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:         "worker",
		server:       server,
		mux:          mux,
		consumer:     consumer,
		warmInterval: reportWarmInterval(cfg.MLM.ReportCacheTTLSeconds),
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.Container != nil && s.consumer.ReportService != nil {
		go s.runReportWarmLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runReportWarmLoop 在缓存过期前重建报表，保持管理端读取命中缓存
func (s *Service) runReportWarmLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.ReportService == nil || s.warmInterval <= 0 {
		return
	}
	runOnce := func() {
		if _, err := s.consumer.ReportService.RefreshCommissionReport(ctx); err != nil {
			logger.Warnw("worker_report_warm_failed", "error", err)
			metrics.Domain().ObserveReportRefresh(reportWarmReason, metrics.ResultError)
			return
		}
		metrics.Domain().ObserveReportRefresh(reportWarmReason, metrics.ResultOK)
	}
	runOnce()

	ticker := time.NewTicker(s.warmInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

// reportWarmInterval 取缓存时长的一半，最短 10 秒
func reportWarmInterval(ttlSeconds int) time.Duration {
	if ttlSeconds <= 0 {
		return 0
	}
	interval := time.Duration(ttlSeconds) * time.Second / 2
	if interval < 10*time.Second {
		interval = 10 * time.Second
	}
	return interval
}
