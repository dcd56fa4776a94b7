package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/haldane-labs/memora/internal/logger"
)

// watchDebounce coalesces rapid write events for the same file.
const watchDebounce = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and ingest files on change",
	Long: `Watches a directory and re-ingests files whenever they are created
or written. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if memoryService == nil {
		return errors.New("memory service not configured")
	}
	if scopeID == "" {
		return errors.New("--scope is required for ingestion")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watching %s: not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (scope %s). Press Ctrl+C to stop.\n", dir, scopeID)
	return watchLoop(ctx, cmd, watcher)
}

// watchLoop processes watcher events until the context is cancelled.
func watchLoop(ctx context.Context, cmd *cobra.Command, watcher *fsnotify.Watcher) error {
	var mu sync.Mutex
	pending := make(map[string]*time.Timer)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			// Debounce: editors fire several writes per save.
			mu.Lock()
			if timer, exists := pending[event.Name]; exists {
				timer.Stop()
			}
			path := event.Name
			pending[path] = time.AfterFunc(watchDebounce, func() {
				mu.Lock()
				delete(pending, path)
				mu.Unlock()
				ingestWatched(ctx, cmd, path)
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// ingestWatched ingests a single changed file, logging failures instead
// of stopping the watch loop.
func ingestWatched(ctx context.Context, cmd *cobra.Command, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	doc, err := documentFromFile(path)
	if err != nil {
		logger.Warn("skipping %s: %v", path, err)
		return
	}

	result, err := memoryService.IngestDocument(ctx, doc)
	if err != nil {
		logger.Warn("ingesting %s: %v", path, err)
		return
	}
	cmd.Printf("%s: stored %d chunks\n", path, result.ChunksStored)
}
