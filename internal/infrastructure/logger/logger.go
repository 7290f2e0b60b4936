// Package logger 基于logrus的全局日志配置
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/xiebiao/catalog/internal/infrastructure/config"
)

// Setup 按配置设置标准logger，返回的函数用于关闭日志文件
func Setup(cfg config.LogConfig) (func() error, error) {
	return Configure(log.StandardLogger(), cfg)
}

// Configure 设置指定logger（测试中使用独立实例）
func Configure(logger *log.Logger, cfg config.LogConfig) (func() error, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", cfg.Level, err)
	}
	logger.SetLevel(level)
	logger.SetReportCaller(cfg.EnableCaller)

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	case "", "text", "console":
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("无效的日志格式: %s", cfg.Format)
	}

	closer := func() error { return nil }
	var out io.Writer
	switch cfg.Output {
	case "", "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.Output), 0o755); err != nil {
			return nil, fmt.Errorf("创建日志目录失败: %w", err)
		}
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("打开日志文件失败: %w", err)
		}
		out = file
		closer = file.Close
	}
	logger.SetOutput(out)

	return closer, nil
}
