package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"gallery-viewer/internal/logging"
	"gallery-viewer/internal/memory"
	"gallery-viewer/internal/workers"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// thumbCommand writes one thumbnail.
func (a *app) thumbCommand() *cobra.Command {
	var (
		width  int
		height int
		output string
	)

	cmd := &cobra.Command{
		Use:   "thumb FILE",
		Short: "Write the thumbnail of a single image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := absPath(args[0])
			if err != nil {
				return err
			}
			thumb, err := a.thumbs.Resolve(src, width, height)
			if err != nil {
				return fmt.Errorf("thumbnail %s: %w", args[0], err)
			}

			if output == "" {
				output = strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)) +
					fmt.Sprintf(".%dx%d.jpg", width, height)
			}
			if err := os.WriteFile(output, thumb.Data, 0o644); err != nil {
				return fmt.Errorf("write output %s: %w", output, err)
			}

			source := "generated"
			if thumb.Cached {
				source = "cached"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d bytes, %s)\n", output, len(thumb.Data), source)
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "W", 200, "thumbnail width in pixels")
	cmd.Flags().IntVarP(&height, "height", "H", 0, "thumbnail height in pixels (0 keeps the aspect ratio)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <name>.<W>x<H>.jpg)")

	return cmd
}

// warmCommand generates every thumbnail a gallery of DIR links to, so the
// first visitor is served from the cache.
func (a *app) warmCommand() *cobra.Command {
	var (
		size sizeFlags
		jobs int
	)

	cmd := &cobra.Command{
		Use:   "warm DIR",
		Short: "Pre-generate the thumbnails of a directory's gallery",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.thumbs.CacheEnabled() {
				return fmt.Errorf("the thumbnail cache is disabled")
			}
			dir, err := absPath(args[0])
			if err != nil {
				return err
			}

			g, err := a.renderer.Layout(cmd.Context(), dir, size.width, size.height)
			if err != nil {
				return fmt.Errorf("layout %s: %w", args[0], err)
			}

			start := time.Now()
			var generated, cached atomic.Int64

			eg, ctx := errgroup.WithContext(cmd.Context())
			eg.SetLimit(workers.ForCPU(jobs))
			for _, row := range g.Rows {
				for _, img := range row.Images {
					src := filepath.Join(a.config.ContentDir, filepath.FromSlash(img.Path))
					w, h := img.Width, img.Height
					eg.Go(func() error {
						if err := ctx.Err(); err != nil {
							return err
						}
						thumb, err := a.thumbs.Resolve(src, w, h)
						if err != nil {
							return fmt.Errorf("thumbnail %s: %w", src, err)
						}
						if thumb.Cached {
							cached.Add(1)
						} else {
							generated.Add(1)
						}
						logging.Debug("Warmed %s at %dx%d", src, w, h)
						return nil
					})
				}
			}
			if err := eg.Wait(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d thumbnails generated, %d already cached (%v)\n",
				generated.Load(), cached.Load(), time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	size.register(cmd)
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "maximum concurrent resizes (default: number of CPUs)")

	return cmd
}

// cacheCommand groups the cache maintenance subcommands.
func (a *app) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the thumbnail cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cache size and entry count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.thumbs.CacheEnabled() {
				fmt.Fprintln(cmd.OutOrStdout(), "cache disabled")
				return nil
			}
			stats := a.thumbs.GetStats()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entries, %s\n",
				a.thumbs.Cache().Root(), stats.Entries, memory.FormatBytes(stats.SizeBytes))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached thumbnail",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.thumbs.CacheEnabled() {
				fmt.Fprintln(cmd.OutOrStdout(), "cache disabled")
				return nil
			}
			root := a.thumbs.Cache().Root()
			stats := a.thumbs.GetStats()
			if err := os.RemoveAll(root); err != nil {
				return fmt.Errorf("clear %s: %w", root, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached entries from %s\n", stats.Entries, root)
			return nil
		},
	})

	return cmd
}
