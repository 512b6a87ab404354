package main

import (
	"github.com/spf13/cobra"

	"github.com/robert-malhotra/scene-availability/pkg/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the survey reports over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := root.load()
			if err != nil {
				return err
			}
			if host != "" {
				e.cfg.Server.Host = host
			}
			if port != 0 {
				e.cfg.Server.Port = port
			}
			if err := e.cfg.Validate(); err != nil {
				return err
			}

			e.logger.Info("starting scene availability service",
				"host", e.cfg.Server.Host,
				"port", e.cfg.Server.Port,
				"collections", e.collections.Count(),
			)

			srv, err := server.New(server.Options{
				Config:      e.cfg,
				Collections: e.collections,
				Logger:      e.logger,
			})
			if err != nil {
				return err
			}
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides SERVER_HOST)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides SERVER_PORT)")
	return cmd
}
