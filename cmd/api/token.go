package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xiebiao/catalog/pkg/jwt"
)

// newTokenCommand 运维工具：签发与吊销访问Token
// 账号体系在外部认证服务，这里只用于运维和联调
func newTokenCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "签发/吊销访问Token",
	}
	cmd.AddCommand(newTokenIssueCommand(opts))
	cmd.AddCommand(newTokenRevokeCommand(opts))
	return cmd
}

func newTokenIssueCommand(opts *rootOptions) *cobra.Command {
	var (
		username string
		roles    []string
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "签发Token",
		Example: `  catalog token issue --user alice --role editor
  catalog token issue --user root --role admin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, role := range roles {
				if role != jwt.RoleAdmin && role != jwt.RoleEditor {
					return fmt.Errorf("未知角色: %s", role)
				}
			}

			token, err := provideJWTManager(opts.cfg).GenerateToken(username, roles...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "用户名")
	cmd.Flags().StringSliceVarP(&roles, "role", "r", nil, "角色（admin、editor），可重复")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newTokenRevokeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <token>",
		Short: "吊销Token直到其过期（需要启用Redis）",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if !cfg.Redis.Enabled {
				return errors.New("未启用Redis，无法吊销Token")
			}

			claims, err := provideJWTManager(cfg).ParseToken(args[0])
			if err != nil {
				return err
			}

			blacklist, cleanup, err := provideTokenBlacklist(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			ttl := time.Until(claims.ExpiresAt.Time)
			if err := blacklist.Revoke(cmd.Context(), args[0], ttl); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已吊销 %s 的Token，剩余有效期 %s\n", claims.Username, ttl.Round(time.Second))
			return nil
		},
	}
}
