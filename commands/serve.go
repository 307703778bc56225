package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roomadmin/config"
	"roomadmin/controllers"
	"roomadmin/jobs"
	"roomadmin/routes"
	"roomadmin/services/notification"

	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Chạy dashboard API",
	Long: `Chạy dashboard API (gin) cùng websocket /ws và job dọn ảnh mồ côi.

Example:
  roomadmin serve
  roomadmin serve --port 9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Port = port
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "", "Cổng HTTP (mặc định PORT hoặc 8083)")
}

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	router, m, c := config.InitApp(cfg)
	events := notification.NewMelodyService(m)

	a, err := newApp(ctx, cfg, appOptions{
		WithCache:  true,
		WithLedger: true,
		Navigator:  events,
		Notifier:   events,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	reaperOpts := jobs.ReaperOptions{
		Images:  a.images,
		Data:    a.data,
		Session: a.store,
		Bucket:  cfg.Storage.Bucket,
		Sweep:   cfg.Orphan.SweepEnabled,
		Grace:   cfg.Orphan.SweepGrace,
		Logger:  a.log,
	}
	if a.ledger != nil {
		reaperOpts.Ledger = a.ledger
	}
	reaper := jobs.NewReaper(reaperOpts)
	if err := jobs.InitCronJobs(c, cfg.Orphan.ReaperSpec, reaper, a.log); err != nil {
		return err
	}
	defer c.Stop()

	config.InitWebSocket(router, m)
	routes.SetupRoutes(router, a.store, routes.Controllers{
		Auth:         controllers.NewAuthController(a.auth),
		Rooms:        controllers.NewRoomController(a.rooms, a.rdb, a.log),
		Packages:     controllers.NewPackageController(a.packages),
		Orders:       controllers.NewOrderController(a.orders),
		Images:       controllers.NewImageController(a.images),
		Notification: controllers.NewNotificationController(events, a.log),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("Server starting on port %s...", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("Đang tắt server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = m.Close()
	return srv.Shutdown(shutdownCtx)
}
