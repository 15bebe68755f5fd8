package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/feichai0017/pdftext/config"
	"github.com/feichai0017/pdftext/internal/agent"
	"github.com/feichai0017/pdftext/pkg/logger"
)

type extractOptions struct {
	output    string
	engine    string
	marker    string
	languages []string
	verbose   bool
	stats     bool
}

func newExtractCmd() *cobra.Command {
	opts := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "extract <file.pdf>",
		Short: "Print the combined text of a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runExtract(ctx, opts, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "write text to this file instead of stdout")
	f.StringVar(&opts.engine, "ocr", "", "OCR engine: tesseract, textract or none")
	f.StringVar(&opts.marker, "marker", "", "prefix for lines recognized from images")
	f.StringSliceVar(&opts.languages, "lang", nil, "tesseract languages, e.g. eng,deu")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to stderr")
	f.BoolVar(&opts.stats, "stats", false, "print extraction details to stderr")
	return cmd
}

func runExtract(ctx context.Context, opts *extractOptions, path string, stdout, stderr io.Writer) error {
	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		return err
	}
	if opts.engine != "" {
		cfg.OCR.Engine = opts.engine
	}
	if opts.marker != "" {
		cfg.OCR.Marker = opts.marker
	}
	if len(opts.languages) > 0 {
		cfg.OCR.Languages = opts.languages
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.NewNop()
	if opts.verbose {
		log, err = logger.NewLogger(
			logger.WithLevel("debug"),
			logger.WithEncoding("console"),
			logger.WithOutputPaths([]string{"stderr"}),
			logger.WithErrorPaths(nil),
		)
		if err != nil {
			return err
		}
		defer log.Sync()
	}

	pipeline, err := agent.NewPipeline(ctx, cfg, log)
	if err != nil {
		return err
	}
	res, err := pipeline.Extract(ctx, path)
	if err != nil {
		return err
	}

	if opts.stats {
		fmt.Fprintf(stderr, "native method: %s\n", res.Native.Method)
		fmt.Fprintf(stderr, "ocr status:    %s (%d images, %d recognized, %d failed)\n",
			res.OCR.Status, res.OCR.Images, res.OCR.Recognized, res.OCR.Failed)
	}

	if opts.output == "" {
		_, err = io.WriteString(stdout, res.Text)
		return err
	}
	if err := os.WriteFile(opts.output, []byte(res.Text), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
