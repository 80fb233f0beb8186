package main

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/timeguardian/timeguardian/internal/config"
	"github.com/timeguardian/timeguardian/internal/tracker"
	"github.com/timeguardian/timeguardian/pkg/detector"
	"github.com/timeguardian/timeguardian/pkg/utils"
	"github.com/timeguardian/timeguardian/pkg/visibility"
	"github.com/timeguardian/timeguardian/pkg/window"
)

var (
	snapshotVisualize string
	snapshotLayers    string
	snapshotJSON      bool
	snapshotVerbose   bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Compute window visibility once and print it",
	RunE:  runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringVar(&snapshotVisualize, "visualize", "", "write a color-coded image of the window bitmap to `PATH`")
	snapshotCmd.Flags().StringVar(&snapshotLayers, "layers", "", "comma separated layers to include (default all)")
	snapshotCmd.Flags().BoolVar(&snapshotJSON, "json", false, "output as JSON")
	snapshotCmd.Flags().BoolVarP(&snapshotVerbose, "verbose", "v", false, "log phase timings")
}

type snapshotEntry struct {
	visibility.Window
	VisiblePercent float64 `json:"visible_percent"`
	LayerName      string  `json:"layer_name"`
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("layers") {
		layers, err := config.ParseLayers(snapshotLayers)
		if err != nil {
			return fmt.Errorf("invalid --layers: %w", err)
		}
		cfg.Tracker.Layers = layers
	}

	if snapshotVerbose {
		visibility.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	enum, err := detector.New()
	if err != nil {
		return fmt.Errorf("failed to initialize window enumerator: %w", err)
	}
	defer enum.Close()

	obs, err := tracker.NewService(cfg, nil, enum).Observe(context.Background())
	if err != nil {
		return err
	}

	entries := make([]snapshotEntry, 0, len(obs.Windows))
	for _, w := range obs.Windows {
		entries = append(entries, snapshotEntry{
			Window:         w,
			VisiblePercent: obs.Result[w.ID],
			LayerName:      window.LayerName(w.Layer),
		})
	}
	slices.SortStableFunc(entries, func(a, b snapshotEntry) int {
		return cmp.Compare(b.VisiblePercent, a.VisiblePercent)
	})

	if snapshotVisualize != "" {
		if err := obs.Bitmap.Save(snapshotVisualize); err != nil {
			// percentages are still valid
			fmt.Fprintf(os.Stderr, "Visualization failed: %v\n", err)
		}
	}

	if snapshotJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	canvas := obs.Bitmap.Canvas()
	fmt.Printf("Canvas: %s across %d display(s)\n\n", canvas.Rect(), len(obs.Displays))
	fmt.Printf("%-12s %-20s %-28s %-10s %8s\n", "Window", "Application", "Title", "Layer", "Visible")
	fmt.Printf("%s\n", "--------------------------------------------------------------------------------")
	for _, e := range entries {
		fmt.Printf("%-12s %-20s %-28s %-10s %7.1f%%  %s\n",
			fmt.Sprintf("0x%x", uint64(e.ID)),
			truncateName(e.AppName, 20),
			truncateName(e.Title, 28),
			e.LayerName,
			e.VisiblePercent,
			utils.Bar(e.VisiblePercent, 10))
	}
	return nil
}
