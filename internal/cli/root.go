// Package cli implements the beanio command line: validating mapping files, reading
// record files as JSON lines and writing JSON lines back as records.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kevinseim/beanio-sub003/beanio"
	"github.com/kevinseim/beanio-sub003/bind"
	"github.com/kevinseim/beanio-sub003/store"
)

// Version is set at build time.
var Version = "0.1.0"

type settingsKey struct{}

// NewRootCmd creates the root command with all subcommands.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "beanio",
		Short: "Bind record files to objects with YAML mappings",
		Long: `beanio reads and writes delimited, csv and fixed-length record files as laid out
by a YAML mapping file.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}

			s, err := LoadSettings(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			cmd.SetContext(context.WithValue(cmd.Context(), settingsKey{}, s))

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "settings file (default: ./"+DefaultSettingsFile+")")
	flags.StringP("mapping", "m", "", "mapping file")
	flags.StringP("stream", "s", "", "stream name (default: the only stream of the mapping)")
	flags.String("log-level", "", "log level (debug|info|warn|error)")
	flags.Bool("pretty", false, "indent JSON output")

	root.AddCommand(newValidateCommand())
	root.AddCommand(newReadCommand())
	root.AddCommand(newWriteCommand())
	root.AddCommand(newInspectCommand())
	root.AddCommand(newVersionCommand())

	return root
}

// Execute runs the root command.
func Execute() error {
	root := NewRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	return nil
}

func settingsFrom(cmd *cobra.Command) *Settings {
	if s, ok := cmd.Context().Value(settingsKey{}).(*Settings); ok {
		return s
	}

	return &Settings{LogLevel: "warn"}
}

// loadFactory loads the configured mapping, with the store classes registered.
func loadFactory(cmd *cobra.Command) (*beanio.Factory, *Settings, error) {
	s := settingsFrom(cmd)
	if s.Mapping == "" {
		return nil, nil, errNoMapping
	}

	level, err := s.Level()
	if err != nil {
		return nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	if s.File != "" {
		logger.Debug("using settings file", "path", s.File)
	}

	types := bind.NewRegistry()
	if err := store.Register(types); err != nil {
		return nil, nil, err
	}

	f := beanio.NewFactory(beanio.WithTypes(types), beanio.WithLogger(logger))
	if err := f.Load(s.Mapping); err != nil {
		return nil, nil, err
	}

	return f, s, nil
}

// streamName resolves the stream to use: the configured one, or the only one loaded.
func streamName(f *beanio.Factory, s *Settings) (string, error) {
	if s.Stream != "" {
		return s.Stream, nil
	}

	names := f.Streams()
	if len(names) != 1 {
		return "", fmt.Errorf("mapping declares %d streams %v, choose one with --stream", len(names), names)
	}

	return names[0], nil
}

// openInput opens the file named by args, or returns the command input.
func openInput(cmd *cobra.Command, args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), func() {}, nil
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, err
	}

	return f, func() { _ = f.Close() }, nil
}
