package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mvp-joe/cprotos/internal/config"
	"github.com/mvp-joe/cprotos/internal/protos"
	"github.com/mvp-joe/cprotos/internal/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// stdinName labels input read from standard input in errors and logs.
const stdinName = "<stdin>"

// rootOptions holds the flag values of one command instance.
type rootOptions struct {
	file       string
	stdin      bool
	debug      bool
	match      []string
	exclude    []string
	watch      bool
	debounce   time.Duration
	configFile string
	verbose    bool
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "cprotos (--file PATH | --stdin)",
		Short: "Print prototypes for the externally visible functions of a C file",
		Long: `cprotos reads one C source file and prints a header-style prototype for
every function definition that is not declared static. Each prototype is
the definition's text up to its body, followed by ";".`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.file, "file", "", "C source file to read")
	flags.BoolVar(&opts.stdin, "stdin", false, "read C source from standard input")
	flags.BoolVarP(&opts.debug, "debug", "d", false, "print captures that map to no role")
	flags.StringSliceVar(&opts.match, "match", nil, "only print functions whose name matches this glob (repeatable)")
	flags.StringSliceVar(&opts.exclude, "exclude", nil, "skip functions whose name matches this glob (repeatable)")
	flags.BoolVar(&opts.watch, "watch", false, "re-run whenever --file changes")
	flags.DurationVar(&opts.debounce, "debounce", config.Default().Watch.Debounce, "quiet period before a --watch re-run")
	flags.StringVar(&opts.configFile, "config", "", "config file (default is ./.cprotos.yaml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to stderr")

	cmd.MarkFlagsMutuallyExclusive("file", "stdin")
	cmd.MarkFlagsOneRequired("file", "stdin")
	cmd.MarkFlagsMutuallyExclusive("stdin", "watch")

	cmd.AddCommand(newVersionCmd())

	return cmd
}

func runRoot(cmd *cobra.Command, opts *rootOptions) error {
	logger := newLogger(opts.verbose, cmd.ErrOrStderr())
	defer logger.Sync()

	cfg, err := loadConfig(cmd, opts, logger)
	if err != nil {
		return err
	}

	names, err := cfg.Filter.NameFilter()
	if err != nil {
		return err
	}
	if include, exclude := names.Patterns(); len(include)+len(exclude) > 0 {
		logger.Info("filtering functions by name",
			zap.Strings("include", include),
			zap.Strings("exclude", exclude),
		)
	}

	extractor, err := protos.NewExtractor(
		protos.WithDebug(cfg.Debug),
		protos.WithNameFilter(names),
		protos.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer extractor.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if opts.stdin {
		src, err := protos.ReadSource(cmd.InOrStdin(), stdinName)
		if err != nil {
			return err
		}
		_, err = extractor.Extract(ctx, src, out)
		return err
	}

	if err := extractFile(ctx, extractor, opts.file, out); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}
	return watchFile(ctx, extractor, opts.file, cfg.Watch.Debounce, out, logger)
}

// loadConfig merges defaults, config file, environment and explicitly set flags.
func loadConfig(cmd *cobra.Command, opts *rootOptions, logger *zap.Logger) (*config.Config, error) {
	flags := cmd.Flags()
	loaderOpts := []config.LoaderOption{
		config.WithFlag("debug", flags.Lookup("debug")),
		config.WithFlag("filter.include", flags.Lookup("match")),
		config.WithFlag("filter.exclude", flags.Lookup("exclude")),
		config.WithFlag("watch.debounce", flags.Lookup("debounce")),
	}
	if opts.configFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(opts.configFile))
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	loader := config.NewLoader(wd, loaderOpts...)
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	if used := loader.ConfigFileUsed(); used != "" {
		logger.Info("using config file", zap.String("path", used))
	}
	return cfg, nil
}

func extractFile(ctx context.Context, extractor *protos.Extractor, path string, out io.Writer) error {
	src, err := protos.LoadFile(path)
	if err != nil {
		return err
	}
	_, err = extractor.Extract(ctx, src, out)
	return err
}

// watchFile re-runs the extraction each time path changes, until ctx is done.
// A failing re-run is logged and watching continues.
func watchFile(ctx context.Context, extractor *protos.Extractor, path string, debounce time.Duration, out io.Writer, logger *zap.Logger) error {
	fw, err := watcher.NewFileWatcher([]string{path},
		watcher.WithDebounce(debounce),
		watcher.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer fw.Stop()

	err = fw.Start(ctx, func(files []string) {
		logger.Info("source changed", zap.Strings("files", files))
		if err := extractFile(ctx, extractor, path, out); err != nil {
			logger.Error("re-run failed", zap.String("file", path), zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	logger.Info("watching for changes", zap.String("file", path), zap.Duration("debounce", debounce))
	<-ctx.Done()
	return nil
}

// newLogger returns a console logger on w when verbose is set, and a no-op
// logger otherwise. Program output never goes through the logger.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core)
}
