package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tasvirchi/tasvir/cache"
	"github.com/tasvirchi/tasvir/config"
	"github.com/tasvirchi/tasvir/icon"
	"github.com/tasvirchi/tasvir/key"
	"github.com/tasvirchi/tasvir/server"
	"github.com/tasvirchi/tasvir/style"
	"github.com/tasvirchi/tasvir/where"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("addr", "a", "", "Listen address")
	lo.Must0(viper.BindPFlag(key.ServeAddr, serveCmd.Flags().Lookup("addr")))

	serveCmd.Flags().Int("rate-limit", 0, "Requests per minute per client IP, 0 disables the limit")
	lo.Must0(viper.BindPFlag(key.ServeRateLimit, serveCmd.Flags().Lookup("rate-limit")))
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve media configs over HTTP",
	Long: `Serve media configs over HTTP.

Routes:
  GET  /v1/{provider}/media/{entryId}
  POST /v1/{provider}/entries
  GET  /v1/{provider}/playlists/{playlistId}
  GET  /healthz
  GET  /metrics

The session ts is read from the Authorization header as a bearer token.
Requests without one use anonymous sessions of the configured partner.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg := server.Config{
			Envs:      config.Envs(),
			Options:   config.Options,
			RateLimit: viper.GetInt(key.ServeRateLimit),
		}
		if viper.GetBool(key.CacheEnable) {
			cfg.Cache = cache.New(where.MediaConfigs(), viper.GetDuration(key.CacheTTL))
		}

		addr := viper.GetString(key.ServeAddr)
		cmd.Printf("%s listening on %s\n", icon.Get(icon.Mark), style.Bold(addr))

		handleErr(server.New(cfg).Run(ctx, addr))
	},
}
