package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/splatworks/splatview/diag"
	"github.com/splatworks/splatview/server"
)

func main() {
	var (
		configPath string
		addr       string
		staticDir  string
		predictor  string
	)

	rootCmd := &cobra.Command{
		Use:   "splatview-server",
		Short: "Serve the splat viewer and its upload/session API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := server.DefaultConfig()
			if configPath != "" {
				var err error
				if cfg, err = server.LoadConfig(configPath); err != nil {
					return err
				}
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if staticDir != "" {
				cfg.StaticDir = staticDir
			}
			if predictor != "" {
				cfg.PredictorURL = predictor
			}

			lg := diag.Std()
			lg.Infof("listening on %s", cfg.Addr)
			return http.ListenAndServe(cfg.Addr, server.New(cfg, lg).Handler())
		},
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "server config file (YAML)")
	rootCmd.Flags().StringVar(&addr, "addr", "", "listen address")
	rootCmd.Flags().StringVar(&staticDir, "static", "", "static assets directory")
	rootCmd.Flags().StringVar(&predictor, "predictor", "", "external predictor URL")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
