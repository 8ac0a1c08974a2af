package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/dom"
	"github.com/Zachkp/folio/internal/mapkey"
	"github.com/Zachkp/folio/internal/render"
	"github.com/Zachkp/folio/internal/store"
)

const mapKeyAttr = "data-map-key"

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Renders the content document into <outputDir>/index.html",
	Long: `The build command loads the content document, renders every section into
the page skeleton, resolves the map key and writes the page together with the
static assets into the output directory. Sections whose data or container is
missing are skipped and reported; a document that cannot be loaded leaves
every section empty and fails the command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx, appConfig)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close()
		}

		res, err := runBuild(ctx, appConfig, logger, st)
		if err != nil {
			return err
		}
		if res.Report.State == render.Failed {
			return res.Report.Err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

type buildResult struct {
	Report render.Report
	MapKey mapkey.Resolution
	MapErr error
	Output string
}

// runBuild performs one page load and writes the result. Load failures are
// reported in the result, not as an error; the page is still written with
// empty sections.
func runBuild(ctx context.Context, cfg config.Config, logger *slog.Logger, st *store.Store) (*buildResult, error) {
	page, err := loadSkeleton(cfg.Template, logger)
	if err != nil {
		return nil, err
	}

	o := render.New(content.NewLoader(cfg.FetchTimeout), logger)
	res := &buildResult{Report: o.Run(ctx, cfg.Content, page)}

	if st != nil {
		run := journalRun(res.Report)
		if err := st.RecordRun(ctx, &run); err != nil {
			logger.Warn("could not journal run", "error", err)
		}
	}

	providers := []mapkey.Provider{
		mapkey.Env(cfg.MapKeyEnv),
		mapkey.Attribute(page, cfg.MapContainer, mapKeyAttr),
	}
	if st != nil {
		providers = append(providers, mapkey.Stored(st, cfg.MapKeyStoreKey))
	}
	res.MapKey, res.MapErr = mapkey.Resolve(ctx, providers...)
	switch {
	case res.MapErr != nil:
		logger.Warn("map disabled", "error", res.MapErr)
	case !page.SetAttr(cfg.MapContainer, mapKeyAttr, res.MapKey.Key):
		logger.Warn("map container not found", "id", cfg.MapContainer)
	default:
		logger.Debug("map key resolved", "source", res.MapKey.Source)
	}

	if err := os.MkdirAll(cfg.OutputDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", cfg.OutputDir, err)
	}
	if err := copyStatic(cfg.StaticDir, filepath.Join(cfg.OutputDir, "static")); err != nil {
		return nil, err
	}

	res.Output = filepath.Join(cfg.OutputDir, "index.html")
	if err := writePage(page, res.Output); err != nil {
		return nil, err
	}
	logger.Info("page written", "path", res.Output, "state", res.Report.State.String())
	return res, nil
}

func loadSkeleton(path string, logger *slog.Logger) (*dom.Page, error) {
	page, err := dom.ParseFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("template not found, using built-in skeleton", "path", path)
		return dom.ParseString(defaultSkeleton)
	}
	if err != nil {
		return nil, fmt.Errorf("load template %s: %w", path, err)
	}
	return page, nil
}

// writePage replaces path atomically.
func writePage(page *dom.Page, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".index-*.html")
	if err != nil {
		return fmt.Errorf("create page: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := page.Render(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("render page: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func journalRun(rep render.Report) store.Run {
	run := store.Run{
		Source:    rep.Source,
		State:     rep.State.String(),
		StartedAt: rep.Started,
		Duration:  rep.Duration,
	}
	if rep.Err != nil {
		run.Error = rep.Err.Error()
	}
	for _, k := range rep.Rendered() {
		run.Rendered = append(run.Rendered, string(k))
	}
	for _, s := range rep.Skipped() {
		if run.Skipped == nil {
			run.Skipped = map[string]string{}
		}
		run.Skipped[string(s.Kind)] = s.Err.Error()
	}
	return run
}

// copyStatic mirrors the static directory into dst. A missing source is not
// an error.
func copyStatic(src, dst string) error {
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", path, err)
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, os.ModePerm)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}
