package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gallery-viewer/internal/gallery"
	"gallery-viewer/internal/logging"
	"gallery-viewer/internal/media"
	"gallery-viewer/internal/startup"

	"github.com/spf13/cobra"
)

// app holds what every subcommand needs, built once the flags are parsed.
type app struct {
	config   *startup.Config
	thumbs   *media.ThumbnailService
	renderer *gallery.Renderer
}

type rootOptions struct {
	verbose bool
	content string
	cache   string
	noCache bool
}

func newRootCommand() *cobra.Command {
	var opts rootOptions
	a := &app{}

	root := &cobra.Command{
		Use:          "gallery-render",
		Short:        "Compute balanced gallery layouts and thumbnails",
		Version:      startup.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := logging.LevelWarn
			if opts.verbose {
				level = logging.LevelDebug
			}
			logging.SetLevel(level)
			logging.SetOutput(cmd.ErrOrStderr())
			return a.init(opts)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			a.close()
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("gallery-render %s\ncommit: %s\nbuilt: %s\n",
		startup.Version, startup.Commit, startup.BuildTime))
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&opts.content, "content", "", "content root (default: CONTENT_DIR)")
	root.PersistentFlags().StringVar(&opts.cache, "cache", "", "cache root (default: CACHE_DIR)")
	root.PersistentFlags().BoolVar(&opts.noCache, "no-cache", false, "disable the thumbnail cache")

	root.AddCommand(a.layoutCommand())
	root.AddCommand(a.renderCommand())
	root.AddCommand(a.thumbCommand())
	root.AddCommand(a.warmCommand())
	root.AddCommand(a.cacheCommand())

	return root
}

func (a *app) init(opts rootOptions) error {
	config, err := startup.Load()
	if err != nil {
		return err
	}
	if opts.content != "" {
		if config.ContentDir, err = filepath.Abs(opts.content); err != nil {
			return fmt.Errorf("resolve content dir: %w", err)
		}
	}
	if opts.cache != "" {
		if config.CacheDir, err = filepath.Abs(opts.cache); err != nil {
			return fmt.Errorf("resolve cache dir: %w", err)
		}
	}
	if opts.noCache {
		config.CacheEnabled = false
	}

	if config.ResizeBackend == media.BackendVips {
		if err := media.InitVips(); err != nil {
			logging.Warn("libvips unavailable, using %s: %v", media.BackendImaging, err)
			config.ResizeBackend = media.BackendImaging
		}
	}

	a.config = config
	a.thumbs = media.NewThumbnailService(media.ThumbnailOptions{
		CacheDir:     config.CacheDir,
		CacheEnabled: config.CacheEnabled,
		Quality:      config.JPEGQuality,
		Resizer:      media.NewResizer(config.ResizeBackend),
	})
	a.renderer = gallery.NewRenderer(gallery.Config{
		ContentDir:   config.ContentDir,
		BaseURL:      config.BaseURL,
		ImageRoute:   config.ImageRoute,
		DisplayWidth: config.DisplayWidth,
		IdealHeight:  config.IdealHeight,
	})
	return nil
}

func (a *app) close() {
	if a.config != nil && a.config.ResizeBackend == media.BackendVips {
		media.ShutdownVips()
	}
}

// absPath resolves a command line path against the working directory.
func absPath(arg string) (string, error) {
	p, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", arg, err)
	}
	if _, err := os.Stat(p); err != nil {
		return "", err
	}
	return p, nil
}
