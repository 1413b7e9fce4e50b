package main

import (
	"github.com/dichokey/dichokey/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve <dir>",
	Short: "Preview a generated site over HTTP",
	Long: `Serves an already generated output directory. Exposes /healthz and
Prometheus metrics on /metrics alongside the site itself.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.Addr
		}

		srv := server.New(args[0],
			server.WithAddr(addr),
			server.WithLogger(logger),
		)
		return srv.ListenAndServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address; overrides DICHOKEY_ADDR")
	rootCmd.AddCommand(serveCmd)
}
