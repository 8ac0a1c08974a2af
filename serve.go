package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/store"
)

const rebuildDebounce = 500 * time.Millisecond

var servePort string // For the --port flag

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Builds the page, serves it locally and rebuilds on change",
	Long: `The serve command performs an initial build, serves the output directory
and rebuilds whenever the content document, the page skeleton or the static
directory changes. The run journal is exposed under /_diagnostics when a
database is configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if servePort != "" {
			appConfig.Port = servePort
		}

		st, err := openStore(ctx, appConfig)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close()
			go func() {
				if _, err := st.Prune(ctx, store.Retention); err != nil {
					logger.Error("journal cleanup failed", "error", err)
				}
			}()
		}

		b := &builder{cfg: appConfig, logger: logger, store: st}
		// Runs before st.Close and waits for an in-flight rebuild.
		defer b.close()
		if err := b.build(ctx); err != nil {
			return err
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer watcher.Close()
		watchInputs(watcher, appConfig, logger)
		go b.watch(ctx, watcher)

		srv := &http.Server{
			Addr:    ":" + appConfig.Port,
			Handler: newRouter(appConfig, st),
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		logger.Info("serving", "dir", appConfig.OutputDir, "addr", "http://localhost"+srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to serve the site on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

// builder serializes rebuilds. Once closed it builds nothing.
type builder struct {
	mu     sync.Mutex
	closed bool
	cfg    config.Config
	logger *slog.Logger
	store  *store.Store
}

func (b *builder) build(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	_, err := runBuild(ctx, b.cfg, b.logger, b.store)
	return err
}

// rebuild is the debounced rebuild triggered by the watcher.
func (b *builder) rebuild(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := b.build(ctx); err != nil {
		b.logger.Error("rebuild failed", "error", err)
	}
}

func (b *builder) close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
}

func (b *builder) watch(ctx context.Context, watcher *fsnotify.Watcher) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			b.logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(rebuildDebounce, func() { b.rebuild(ctx) })
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			b.logger.Warn("watcher error", "error", err)
		}
	}
}

// watchInputs watches the directories holding the build inputs. Editors
// replace files on save, so parent directories are watched, not files.
func watchInputs(watcher *fsnotify.Watcher, cfg config.Config, logger *slog.Logger) {
	dirs := map[string]bool{filepath.Dir(cfg.Template): true}
	if !isRemote(cfg.Content) {
		dirs[filepath.Dir(cfg.Content)] = true
	}
	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		filepath.WalkDir(cfg.StaticDir, func(path string, d os.DirEntry, err error) error {
			if err == nil && d.IsDir() {
				dirs[path] = true
			}
			return nil
		})
	}

	out, _ := filepath.Abs(cfg.OutputDir)
	for dir := range dirs {
		abs, _ := filepath.Abs(dir)
		if abs == out || strings.HasPrefix(abs, out+string(filepath.Separator)) {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			logger.Warn("cannot watch", "path", dir, "error", err)
		}
	}
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func newRouter(cfg config.Config, st *store.Store) *gin.Engine {
	r := gin.Default()
	r.Use(noCache())

	r.Static("/static", filepath.Join(cfg.OutputDir, "static"))

	r.GET("/", func(c *gin.Context) {
		c.File(filepath.Join(cfg.OutputDir, "index.html"))
	})

	if !isRemote(cfg.Content) {
		r.GET("/content.json", func(c *gin.Context) {
			c.Header("Content-Type", "application/json")
			c.File(strings.TrimPrefix(cfg.Content, "file://"))
		})
	}

	if st != nil {
		setupDiagnosticsRoutes(r, st)
	}
	return r
}

// noCache keeps the browser from holding on to a stale build.
func noCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Next()
	}
}
