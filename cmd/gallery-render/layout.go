package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gallery-viewer/internal/gallery"

	"github.com/spf13/cobra"
)

type sizeFlags struct {
	width  int
	height int
}

func (s *sizeFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&s.width, "width", "W", 0, "display width in pixels (default: DISPLAY_WIDTH)")
	cmd.Flags().IntVarP(&s.height, "height", "H", 0, "ideal row height in pixels (default: IDEAL_HEIGHT)")
}

// layoutCommand prints the rows computed for a directory.
func (a *app) layoutCommand() *cobra.Command {
	var (
		size   sizeFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "layout DIR",
		Short: "Print the row layout of a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := absPath(args[0])
			if err != nil {
				return err
			}
			g, err := a.renderer.Layout(cmd.Context(), dir, size.width, size.height)
			if err != nil {
				return fmt.Errorf("layout %s: %w", args[0], err)
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(g)
			}
			return printLayout(cmd.OutOrStdout(), g)
		},
	}

	size.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the layout as JSON")

	return cmd
}

func printLayout(w io.Writer, g *gallery.Gallery) error {
	if g.Empty() {
		_, err := fmt.Fprintln(w, "no images")
		return err
	}

	if _, err := fmt.Fprintf(w, "%d images in %d rows at %dx%d\n",
		g.ImageCount(), len(g.Rows), g.DisplayWidth, g.IdealHeight); err != nil {
		return err
	}
	for i, row := range g.Rows {
		cells := make([]string, len(row.Images))
		for j, img := range row.Images {
			cells[j] = fmt.Sprintf("%s:%d", filepath.Base(img.Path), img.Width)
		}
		if _, err := fmt.Fprintf(w, "row %d  h=%d  %s\n", i+1, row.Height, strings.Join(cells, " ")); err != nil {
			return err
		}
	}
	return nil
}

// renderCommand prints a directory's gallery fragment, or a page with its
// gallery and image tags expanded.
func (a *app) renderCommand() *cobra.Command {
	var (
		size   sizeFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "render PATH",
		Short: "Render a directory's gallery or expand a page file",
		Long: `Render a directory's gallery or expand a page file.

When PATH is a directory its gallery fragment is printed. When PATH is a file
it is read as page content: the first {gallery:WxH} placeholder is replaced
with the gallery of the file's directory and inline image tags are rewritten
to point at the image endpoint.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := absPath(args[0])
			if err != nil {
				return err
			}

			out, err := a.render(cmd, path, size)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = io.WriteString(cmd.OutOrStdout(), out)
				return err
			}
			if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
				return fmt.Errorf("write output %s: %w", output, err)
			}
			return nil
		},
	}

	size.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (a *app) render(cmd *cobra.Command, path string, size sizeFlags) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		out, err := a.renderer.Render(cmd.Context(), path, size.width, size.height)
		if err != nil {
			return "", fmt.Errorf("render %s: %w", path, err)
		}
		return out, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	out, err := a.renderer.Process(cmd.Context(), string(content), filepath.Dir(path))
	if err != nil {
		return "", fmt.Errorf("process %s: %w", path, err)
	}
	return out, nil
}
