package attribute

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce 合并编辑器连续写入产生的多个事件
const defaultDebounce = 250 * time.Millisecond

// Watcher 监听映射文件变化并触发热重载
type Watcher struct {
	loader   *Loader
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration
	reloaded chan struct{}
}

// NewWatcher 创建映射文件监听器
func NewWatcher(loader *Loader, logger *slog.Logger) (*Watcher, error) {
	if loader.FilePath() == "" {
		return nil, fmt.Errorf("attribute mapping file not configured")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		loader:   loader,
		watcher:  fsw,
		logger:   logger,
		debounce: defaultDebounce,
		reloaded: make(chan struct{}, 1),
	}, nil
}

// Reloaded 每次成功重载后发出通知
func (w *Watcher) Reloaded() <-chan struct{} {
	return w.reloaded
}

// Start 开始监听，ctx 结束时停止
func (w *Watcher) Start(ctx context.Context) error {
	// 监听目录而不是文件，编辑器通常通过重命名替换文件
	dir := filepath.Dir(w.loader.FilePath())
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go w.processEvents(ctx)

	w.logger.Info("Attribute mapping watcher started", slog.String("path", w.loader.FilePath()))
	return nil
}

// Stop 停止监听
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) processEvents(ctx context.Context) {
	target := filepath.Clean(w.loader.FilePath())

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Attribute mapping watcher error", slog.String("error", err.Error()))

		case <-fire:
			fire = nil
			if err := w.loader.Reload(); err != nil {
				w.logger.Warn("Failed to reload attribute mapping", slog.String("error", err.Error()))
				continue
			}
			select {
			case w.reloaded <- struct{}{}:
			default:
			}
		}
	}
}
