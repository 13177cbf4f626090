package cli

import (
	"context"
	"errors"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/kagami-labs/hansei-cli/internal/core/domain"
	"github.com/kagami-labs/hansei-cli/internal/logger"
)

// pdfSuffix is the filename convention for scanned reflection sheets.
const pdfSuffix = "_daily_filled.pdf"

// defaultDebounce absorbs the burst of events a scanner produces while
// it is still writing the file.
const defaultDebounce = 2 * time.Second

// WatchConfig configures the watch command.
type WatchConfig struct {
	// PDFDir is the scanned-input directory to watch.
	PDFDir string

	// Debounce is how long to wait after the last event for a file
	// before running the pipeline. Zero uses the default.
	Debounce time.Duration
}

var watchConfig *WatchConfig

// SetWatchConfig injects the watch command configuration.
func SetWatchConfig(cfg *WatchConfig) {
	watchConfig = cfg
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the scan folder and ingest new reflection PDFs",
	Long: `Watches the vault's scanned-input folder and runs the daily
pipeline whenever a reflection PDF appears or changes. Events are
debounced so a file is processed once the scanner finishes writing it.
Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if dailyPipeline == nil {
		return errors.New("daily pipeline not configured")
	}
	if watchConfig == nil || watchConfig.PDFDir == "" {
		return errors.New("watch not configured")
	}

	debounce := watchConfig.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(watchConfig.PDFDir); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", watchConfig.PDFDir)

	pending := newDebouncer(debounce)
	defer pending.stop()

	for {
		select {
		case <-ctx.Done():
			cmd.Println("Stopping.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			date, ok := dateFromPDFName(event.Name)
			if !ok {
				continue
			}
			logger.Debug("watch: event %s for %s", event.Op, date)
			pending.schedule(date.String(), func() {
				ingest(ctx, cmd, date)
			})

		case werr, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			logger.Warn("watch: %v", werr)
		}
	}
}

// ingest runs the pipeline for one watched date. Failures are reported
// and the watch continues.
func ingest(ctx context.Context, cmd *cobra.Command, date domain.ReflectionDate) {
	if ctx.Err() != nil {
		return
	}
	report, err := dailyPipeline.Run(ctx, date)
	if err != nil {
		logger.Warn("watch: ingest %s: %v", date, err)
		return
	}
	printRunReport(cmd, report)
}

// dateFromPDFName extracts the reflection date from a scanned PDF
// filename ({date}_daily_filled.pdf).
func dateFromPDFName(path string) (domain.ReflectionDate, bool) {
	name := filepath.Base(path)
	if !strings.HasSuffix(name, pdfSuffix) {
		return domain.ReflectionDate{}, false
	}
	date, err := domain.ParseReflectionDate(strings.TrimSuffix(name, pdfSuffix))
	if err != nil {
		return domain.ReflectionDate{}, false
	}
	return date, true
}

// debouncer coalesces bursts of events per key, firing the callback
// once the key has been quiet for the configured delay.
type debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timers map[string]*time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
	}
}

// schedule (re)arms the timer for a key.
func (d *debouncer) schedule(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.timers[key]; ok {
		timer.Stop()
	}
	d.timers[key] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, key)
		d.mu.Unlock()
		fn()
	})
}

// stop cancels all pending timers.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, timer := range d.timers {
		timer.Stop()
		delete(d.timers, key)
	}
}
