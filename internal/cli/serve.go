package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/stylometer/internal/server"
	"github.com/ppiankov/stylometer/internal/upload"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve exposes the operations over HTTP:

  POST /api/detect-text     {"text": ...}               (?format=text for plain text)
  POST /api/humanize-text   {"text": ..., "intensity": ...}
  POST /api/remove-ai-text  {"text": ...} or multipart "file" upload
  GET  /uploads/:key        download a cleaned document
  GET  /healthz
  GET  /metrics             Prometheus metrics

Example:
  stylometer serve --addr :8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	addr := a.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	store := upload.NewFromConfig(a.cfg.Upload)
	if layered, ok := store.(*upload.LayeredStore); ok {
		removed, err := layered.Sweep()
		if err != nil {
			a.logger.Warn("sweep expired uploads", zap.Error(err))
		} else if removed > 0 {
			a.logger.Info("removed expired uploads", zap.Int("count", removed))
		}
	}

	srv := server.New(a.pipeline, server.Options{
		Store:          store,
		Metrics:        a.metrics,
		Logger:         a.logger,
		MaxUploadBytes: a.cfg.Server.MaxUploadBytes,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider := a.pipeline.ProviderName()
	if provider == "" {
		provider = "none"
	}
	a.logger.Info("starting server", zap.String("address", addr), zap.String("provider", provider))

	return srv.Run(ctx, addr, a.cfg.Server.ShutdownTimeout)
}
