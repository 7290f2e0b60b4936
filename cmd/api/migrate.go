package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xiebiao/catalog/internal/infrastructure/config"
	"github.com/xiebiao/catalog/internal/infrastructure/persistence/mysql"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "迁移数据库表结构（mysql、sqlite）",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cfg.Storage.Driver == config.DriverBolt {
				return fmt.Errorf("bolt存储无需迁移")
			}

			db, cleanup, err := provideDB(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := mysql.Migrate(db); err != nil {
				return err
			}
			logrus.WithField("driver", cfg.Storage.Driver).Info("数据库迁移完成")
			return nil
		},
	}
}
