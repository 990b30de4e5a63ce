package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/imgconv/pkg/config"
	"github.com/walteh/imgconv/pkg/convert"
	"github.com/walteh/imgconv/pkg/discover"
	"github.com/walteh/imgconv/pkg/log"
	"github.com/walteh/imgconv/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// rootFlags holds the parsed flag values for one invocation.
type rootFlags struct {
	workers      int
	quality      int
	optimize     bool
	progressive  bool
	recursive    bool
	defaultsFile string
	debug        bool
}

// newRootCmd builds the imgconv command. All user-facing output (progress
// bar, per-file lines, summary) goes to out.
func newRootCmd(out io.Writer) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "imgconv SOURCE DEST FILE_TYPE DEST_FILE_TYPE",
		Short: "Convert images from one format to another with ease",
		Long: `imgconv converts every image of one format under a source directory
into another format, in parallel, writing the results flat into a
destination directory. Per-file problems are reported and skipped; the
run itself keeps going.`,
		Args:          cobra.ExactArgs(4),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(flags.debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, flags, out)
		},
	}

	cmd.Flags().IntVar(&flags.workers, "nb-workers", config.DefaultWorkers(),
		"max number of workers to use")
	cmd.Flags().IntVar(&flags.quality, "quality", 80,
		"image quality (0-100)")
	cmd.Flags().BoolVar(&flags.optimize, "optimize", true,
		"optimize images where the format supports it")
	cmd.Flags().BoolVar(&flags.progressive, "progressive", true,
		"progressive encoding where the format supports it")
	cmd.Flags().BoolVar(&flags.recursive, "recursive", true,
		"recursively search for files")
	cmd.Flags().StringVar(&flags.defaultsFile, "config", config.DefaultsFile,
		"optional defaults file")
	cmd.Flags().BoolVar(&flags.debug, "debug", false,
		"enable debug logging")

	return cmd
}

// setupLogging configures zerolog based on flags
func setupLogging(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
}

// run wires config → discovery → dispatcher → reporter for one invocation.
// Per-file failures are reported by the reporter and do not fail the run;
// only configuration and pool errors come back as errors.
func run(cmd *cobra.Command, args []string, flags *rootFlags, out io.Writer) error {
	ctx := cmd.Context()

	cfg := &config.Config{
		SourceDir:   args[0],
		DestDir:     args[1],
		SourceExt:   args[2],
		DestExt:     args[3],
		Workers:     flags.workers,
		Quality:     flags.quality,
		Optimize:    flags.optimize,
		Progressive: flags.progressive,
		Recursive:   flags.recursive,
	}

	defaults, err := config.LoadDefaults(ctx, flags.defaultsFile)
	if err != nil {
		return errors.Errorf("loading defaults: %w", err)
	}
	defaults.Apply(cfg, cmd.Flags().Changed)

	if err := cfg.Validate(ctx); err != nil {
		return err
	}

	files, err := discover.Find(ctx, cfg.SourceDir, cfg.SourceExt, cfg.Recursive)
	if err != nil {
		return errors.Errorf("discovering source files: %w", err)
	}
	if len(files) == 0 {
		return errors.Errorf("source folder does not contain any file of type %s", cfg.SourceExt)
	}

	level := zerolog.InfoLevel
	if flags.debug {
		level = zerolog.DebugLevel
	}
	ui := log.New(out, level)
	ui.Header(cfg.String())

	dispatcher, err := convert.NewDispatcher(cfg.Workers, nil)
	if err != nil {
		return errors.Errorf("constructing worker pool: %w", err)
	}

	reporter := status.NewConsoleReporter(ui, out)
	if err := dispatcher.Run(ctx, cfg, files, reporter); err != nil {
		return errors.Errorf("running conversion: %w", err)
	}

	return nil
}
