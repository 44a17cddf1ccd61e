package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/rstlinker/internal/config"
	"git.home.luguber.info/inful/rstlinker/internal/linker"
	"git.home.luguber.info/inful/rstlinker/internal/logfields"
)

// WatchCmd implements the 'watch' command: reprocess files whenever they
// change, for live-preview documentation workflows.
type WatchCmd struct {
	Files    []string      `arg:"" help:"RST files to watch and transform" type:"existingfile"`
	Output   string        `short:"o" help:"Directory to write transformed files into (keeps source names)"`
	NoDates  bool          `help:"Skip heading date annotation (no repository access)"`
	Debounce time.Duration `default:"500ms" help:"Quiet period before reprocessing after a change"`
}

// Run executes the watch command. Blocks until interrupted.
func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	l, err := buildLinker(cfg, w.NoDates)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the containing directories; editors replace files on save, which
	// drops watches registered on the files themselves.
	watched := make(map[string]string, len(w.Files))
	dirs := make(map[string]bool)
	for _, f := range w.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", f, err)
		}
		watched[abs] = f
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initial pass so output exists before the first change.
	w.processAll(l, w.Files)
	slog.Info("Watching for changes", logfields.Count(len(w.Files)))

	pending := make(map[string]bool)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			slog.Info("Watch stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			src, tracked := watched[filepath.Clean(event.Name)]
			if !tracked {
				continue
			}
			pending[src] = true
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			fire = timer.C
		case <-fire:
			files := make([]string, 0, len(pending))
			for f := range pending {
				files = append(files, f)
			}
			pending = make(map[string]bool)
			fire = nil
			w.processAll(l, files)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (w *WatchCmd) processAll(l *linker.Linker, files []string) {
	for _, src := range files {
		dst := w.destination(src)
		if err := l.ProcessFile(src, dst); err != nil {
			slog.Error("Failed to process file", logfields.File(src), logfields.Error(err))
			continue
		}
		slog.Info("Document processed", logfields.File(src), logfields.Path(dst))
	}
}

func (w *WatchCmd) destination(src string) string {
	if w.Output != "" {
		return filepath.Join(w.Output, filepath.Base(src))
	}
	return linker.ExtendName(src)
}
