package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/timeguardian/timeguardian/internal/config"
	"github.com/timeguardian/timeguardian/internal/daemon"
	"github.com/timeguardian/timeguardian/internal/tracker"
	"github.com/timeguardian/timeguardian/internal/web"
	"github.com/timeguardian/timeguardian/pkg/detector"
)

var (
	foreground bool
	servePort  int
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the tracking daemon",
	RunE: func(_ *cobra.Command, _ []string) error {
		return launch(false)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tracking daemon with the web API",
	RunE: func(_ *cobra.Command, _ []string) error {
		return launch(true)
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the tracking daemon",
	RunE:  runStop,
}

func init() {
	rootCmd.AddCommand(startCmd, serveCmd, stopCmd)

	for _, cmd := range []*cobra.Command{startCmd, serveCmd} {
		cmd.Flags().BoolVarP(&foreground, "foreground", "f", false, "run in the foreground and log to stderr")
	}
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "web API port (overrides config)")
}

func launch(withWeb bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Check if already running
	dm := daemon.New(cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running {
		return fmt.Errorf("daemon is already running (PID: %d)", pid)
	}

	if !foreground && !daemon.IsChild() {
		// Parent process - fork and exit
		childPID, err := daemon.Spawn()
		if err != nil {
			return err
		}
		fmt.Printf("Daemon started successfully (PID: %d)\n", childPID)
		if withWeb {
			port := cfg.Web.Port
			if servePort > 0 {
				port = servePort
			}
			fmt.Printf("Web API available at: http://%s:%d\n", cfg.Web.Host, port)
		}
		fmt.Printf("Logs: %s\n", daemon.LogPath())
		return nil
	}

	if !foreground {
		defer redirectLog(daemon.LogPath())()
	}

	return runDaemon(cfg, dm, withWeb)
}

func runDaemon(cfg *config.Config, dm *daemon.Daemon, withWeb bool) error {
	db, repo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	enum, err := detector.New()
	if err != nil {
		return fmt.Errorf("failed to initialize window enumerator: %w", err)
	}
	defer enum.Close()

	if err := dm.WritePID(); err != nil {
		return err
	}
	defer dm.RemovePID()

	trackerSvc := tracker.NewService(cfg, repo, enum)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("Starting %s daemon...", appName)
	log.Printf("Configuration:\n%s", cfg.String())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := trackerSvc.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("tracker error: %w", err)
		}
		return nil
	})

	if withWeb {
		webServer := web.NewServer(cfg, repo, servePort)
		webServer.SetTrackerStatus(trackerSvc.IsRunning)

		g.Go(webServer.Start)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return webServer.Shutdown(shutdownCtx)
		})
		log.Printf("Web API available at: http://%s", webServer.GetAddress())
	}

	if err := g.Wait(); err != nil {
		log.Printf("Daemon stopped with error: %v", err)
		return err
	}

	log.Println("Daemon stopped successfully")
	return nil
}

func runStop(_ *cobra.Command, _ []string) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	dm := daemon.New(cfg.Daemon.PIDFile)

	running, pid, err := dm.IsRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if !running {
		fmt.Println("Daemon is not running")
		return nil
	}

	fmt.Printf("Stopping daemon (PID: %d)...\n", pid)
	if err := dm.Stop(); err != nil {
		return fmt.Errorf("failed to stop daemon: %w", err)
	}

	fmt.Println("Daemon stopped successfully")
	return nil
}
