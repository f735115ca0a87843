package main

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmitchellscott/bannermaster/internal/banner"
	"github.com/rmitchellscott/bannermaster/internal/config"
	"github.com/rmitchellscott/bannermaster/internal/document"
	"github.com/rmitchellscott/bannermaster/internal/imageprocessing"
	"github.com/rmitchellscott/bannermaster/internal/rendering"
	"github.com/rmitchellscott/bannermaster/internal/utils"
)

var (
	pngOutput         string
	pngBackend        string
	pngBrowserlessURL string
	pngChromeBin      string
	pngBrandPalette   bool
	pngTimeout        time.Duration
	pngBaseURL        string
)

var pngCmd = &cobra.Command{
	Use:   "png <settings.json>",
	Short: "Export a banner as a PNG at 2x",
	Args:  cobra.ExactArgs(1),
	RunE:  runPNG,
}

func init() {
	rootCmd.AddCommand(pngCmd)
	pngCmd.Flags().StringVarP(&pngOutput, "output", "o", "", "Output file (default banner-WxH.png, - for stdout)")
	pngCmd.Flags().StringVar(&pngBackend, "backend", config.Get("RASTER_BACKEND", rendering.BackendRod), "Raster backend: rod or browserless")
	pngCmd.Flags().StringVar(&pngBrowserlessURL, "browserless-url", config.Get("BROWSERLESS_URL", "http://localhost:3000"), "Browserless base URL")
	pngCmd.Flags().StringVar(&pngChromeBin, "chrome-bin", config.Get("CHROME_BIN", ""), "Chrome binary for the rod backend")
	pngCmd.Flags().BoolVar(&pngBrandPalette, "brand-palette", false, "Dither the export to the banner's brand colors")
	pngCmd.Flags().DurationVar(&pngTimeout, "timeout", 60*time.Second, "Export timeout")
	pngCmd.Flags().StringVar(&pngBaseURL, "base-url", config.Get("PUBLIC_URL", ""), "Origin that relative logo and background URLs resolve against")
}

func runPNG(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	if pngBaseURL != "" {
		base, err := url.Parse(pngBaseURL)
		if err != nil {
			return fmt.Errorf("invalid --base-url: %w", err)
		}
		s.LogoPath = utils.AbsoluteURL(base, s.LogoPath)
		if s.BackgroundType == banner.BackgroundImage {
			s.BackgroundValue = utils.AbsoluteURL(base, s.BackgroundValue)
		}
	}

	rasterizer, err := rendering.New(pngBackend, pngBrowserlessURL, pngChromeBin, pngTimeout)
	if err != nil {
		return err
	}
	defer rasterizer.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), pngTimeout)
	defer cancel()

	opts := rendering.DefaultRasterOptions(s.Width, s.Height)
	opts.WaitTime = pngTimeout
	capture, err := rasterizer.Rasterize(ctx, document.Generate(s), opts)
	if err != nil {
		return fmt.Errorf("rasterize with %s: %w", rasterizer.Name(), err)
	}

	export := imageprocessing.ExportOptions{Width: s.Width, Height: s.Height, Scale: opts.Scale}
	if pngBrandPalette {
		export.Palette = s.BrandColors
	}
	data, err := imageprocessing.ProcessExport(capture, export)
	if err != nil {
		return err
	}

	out := pngOutput
	if out == "" {
		out = document.PNGFilename(s)
	}
	if err := writeOutput(out, data, cmd.OutOrStdout()); err != nil {
		return err
	}
	if out != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d bytes)\n", out, len(data))
	}
	return nil
}
