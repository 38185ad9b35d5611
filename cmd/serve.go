package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/chrisdamba/couriermatch/internal/admin"
	"github.com/chrisdamba/couriermatch/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve search sessions and the driver photo admin API over HTTP",
	Long: `Serve search sessions and the driver photo admin API over HTTP.

The /admin routes require a bearer token signed with admin_jwt_secret
(COURIERMATCH_ADMIN_JWT_SECRET). Without a secret they are not mounted
unless --insecure-admin is given, which exposes them unauthenticated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bindFlag(cmd.Flags().Lookup("addr"), "http_addr")
		bindFlag(cmd.Flags().Lookup("time-scale"), "time_scale")
		bindFlag(cmd.Flags().Lookup("insecure-admin"), "insecure_admin")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.Close(context.Background())

		if a.cfg.AdminJWTSecret == "" && a.cfg.InsecureAdmin {
			a.logger.Warn("admin_jwt_secret is empty and insecure_admin is set, admin API is unauthenticated")
		}

		srv := server.New(server.Config{
			Logger:    a.logger,
			Sequencer: a.sequencer(),
			Factory:   a.factory,
			Admin:     admin.NewService(a.repo, a.logger),
			Health: func(ctx context.Context) error {
				_, err := a.repo.Count(ctx)
				return err
			},
			Addr:           a.cfg.HTTPAddr,
			AdminJWTSecret: a.cfg.AdminJWTSecret,
			InsecureAdmin:  a.cfg.InsecureAdmin,
			AllowedOrigins: a.cfg.AllowedOrigins,
			DefaultRegion:  a.cfg.RegionHint,
		})
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "HTTP listen address")
	serveCmd.Flags().Float64("time-scale", 1.0, "playback speed of served sessions")
	serveCmd.Flags().Bool("insecure-admin", false, "mount the admin API without authentication when no secret is set")
}
