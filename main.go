package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/flanksource/commons/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/KennethOlivas/zen-draw-sub000/autosave"
	"github.com/KennethOlivas/zen-draw-sub000/config"
	"github.com/KennethOlivas/zen-draw-sub000/document"
	"github.com/KennethOlivas/zen-draw-sub000/editor"
	"github.com/KennethOlivas/zen-draw-sub000/tui"
)

// Build information (set by the release build)
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var log = logger.GetLogger("zendraw")

var (
	logFlags = logger.Flags{
		Level:       "info",
		LogToStderr: true,
	}
	configFile string
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func bindLogFlags(flags *pflag.FlagSet) {
	flags.CountVarP(&logFlags.LevelCount, "loglevel", "v", "Increase logging level")
	flags.StringVar(&logFlags.Level, "log-level", "info", "Set the default log level")
	flags.BoolVar(&logFlags.JsonLogs, "json-logs", false, "Print logs in json format to stderr")
	flags.BoolVar(&logFlags.ReportCaller, "report-caller", false, "Report log caller info")
	flags.BoolVar(&logFlags.LogToStderr, "log-to-stderr", true, "Log to stderr instead of stdout")
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "zendraw",
		Short: "A hand-drawn style vector whiteboard for the terminal",
		Long: `Zen Draw is a sketchy vector drawing editor. Shapes, connectors and text
are drawn with the mouse in the terminal and saved as JSON documents that can
be exported to SVG, PNG or PDF, or kept as projects in a local store.`,
		Example: `  zendraw edit diagram.json
  zendraw export diagram.json diagram.svg
  zendraw project create "Architecture"`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Configure(logFlags)
		},
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(args, false)
		},
	}
	bindLogFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ~/"+config.FileName+")")

	rootCmd.AddCommand(newEditCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newThumbnailCommand())
	rootCmd.AddCommand(newProjectCommand())
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

// loadConfig never fails: a bad config file is reported and the defaults are used.
func loadConfig() *config.Config {
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadFile(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Warnf("using default config: %v", err)
	}
	return cfg
}

func requireTerminal() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the editor needs an interactive terminal")
	}
	return nil
}

func newEditCommand() *cobra.Command {
	var readOnly bool
	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Open a drawing in the terminal editor",
		Long: `Open a drawing in the terminal editor. Without a file the previous
unsaved session is restored from the autosave file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(args, readOnly)
		},
	}
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Open the drawing without edit rights")
	return cmd
}

func runEdit(args []string, readOnly bool) error {
	if err := requireTerminal(); err != nil {
		return err
	}
	cfg := loadConfig()

	doc := document.New(nil, cfg.Background)
	var (
		filename string
		saver    *autosave.Saver
	)
	if len(args) == 1 {
		filename = cfg.GetSavePath(args[0])
		d, err := document.ReadFile(filename)
		switch {
		case err == nil:
			doc = d
		case errors.Is(err, fs.ErrNotExist):
			log.Infof("new drawing %s", filename)
		default:
			return fmt.Errorf("failed to open %s: %w", filename, err)
		}
	} else if cfg.Autosave.Enabled {
		saver = autosave.New(cfg.Autosave.Path, cfg.Autosave.Delay)
		d, restored, err := saver.Load()
		switch {
		case err != nil:
			log.Warnf("discarding autosave: %v", err)
		case restored:
			log.Infof("restored %d elements from %s", len(d.Elements), saver.Path())
			doc = d
		}
	}

	opts := cfg.EditorOptions()
	opts.CanEdit = !readOnly
	opts.Background = doc.BackgroundColor
	opts.Clipboard = tui.SystemClipboard{}
	ed := editor.New(doc.Elements, opts)

	return tui.Run(ed, tui.Options{
		Filename:      filename,
		Autosave:      saver,
		Confirmations: cfg.Confirmations,
	})
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "zendraw %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
