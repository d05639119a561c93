package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/built-mlm/internal/config"
	"github.com/built-mlm/internal/logger"

	"go.uber.org/zap"
)

// 启动模式
const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

// Options 应用启动选项
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            string
	HTTP            HTTPOptions
}

// HTTPOptions API 服务超时；零值取 server.* 配置
type HTTPOptions struct {
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

// ParseMode 校验启动模式，空值视为 all
func ParseMode(raw string) (string, error) {
	switch mode := strings.ToLower(strings.TrimSpace(raw)); mode {
	case "":
		return ModeAll, nil
	case ModeAll, ModeAPI, ModeWorker:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown mode %q", raw)
	}
}

func runsAPI(mode string) bool {
	return mode == ModeAll || mode == ModeAPI
}

func runsWorker(mode string) bool {
	return mode == ModeAll || mode == ModeWorker
}

// normalizeOptions 校验模式，并用配置补齐日志、超时
func normalizeOptions(opts Options) (Options, error) {
	mode, err := ParseMode(opts.Mode)
	if err != nil {
		return opts, err
	}
	opts.Mode = mode
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}

	var srv config.ServerConfig
	if opts.Config != nil {
		srv = opts.Config.Server
	}
	opts.ShutdownTimeout = pickDuration(opts.ShutdownTimeout, srv.ShutdownTimeoutSeconds, 10*time.Second)
	opts.HTTP.ReadHeaderTimeout = pickDuration(opts.HTTP.ReadHeaderTimeout, srv.ReadHeaderTimeoutSeconds, 10*time.Second)
	opts.HTTP.ReadTimeout = pickDuration(opts.HTTP.ReadTimeout, srv.ReadTimeoutSeconds, 30*time.Second)
	opts.HTTP.WriteTimeout = pickDuration(opts.HTTP.WriteTimeout, srv.WriteTimeoutSeconds, 30*time.Second)
	opts.HTTP.IdleTimeout = pickDuration(opts.HTTP.IdleTimeout, srv.IdleTimeoutSeconds, 2*time.Minute)
	return opts, nil
}

func pickDuration(explicit time.Duration, seconds int, fallback time.Duration) time.Duration {
	switch {
	case explicit > 0:
		return explicit
	case seconds > 0:
		return time.Duration(seconds) * time.Second
	default:
		return fallback
	}
}
