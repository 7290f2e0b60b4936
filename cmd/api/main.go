package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xiebiao/catalog/internal/infrastructure/config"
	"github.com/xiebiao/catalog/internal/infrastructure/logger"
)

// rootOptions 全局参数
type rootOptions struct {
	ConfigPath string

	cfg         *config.Config
	closeLogger func() error
}

// main 程序入口
//
//	catalog serve                  启动HTTP服务
//	catalog migrate                迁移MySQL/SQLite表结构
//	catalog notify-worker          消费通知队列并发送邮件
//	catalog token issue|revoke     签发/吊销访问Token
func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.WithError(err).Error("命令执行失败")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "catalog",
		Short:         "图书与车辆目录服务",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}
			closeLogger, err := logger.Setup(cfg.Log)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.closeLogger = closeLogger
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.closeLogger != nil {
				return opts.closeLogger()
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "配置文件路径（默认查找 ./config/config.yaml）")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newWorkerCommand(opts))
	cmd.AddCommand(newTokenCommand(opts))

	return cmd
}
