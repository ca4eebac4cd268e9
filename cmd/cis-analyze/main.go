package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/d21d3q/gocis/internal/options"
	"github.com/d21d3q/gocis/internal/tuple"
	"github.com/d21d3q/gocis/pkg/gocis"
)

type flags struct {
	config   string
	window   int
	format   string
	hex      bool
	logLevel string
}

func newRootCmd(log *logrus.Logger) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "cis-analyze [file]",
		Short: "Decode PC Card Card Information Structure images",
		Long: "cis-analyze walks the tuple chain of a PCMCIA / CompactFlash CIS image and " +
			"prints every tuple with its decoded fields. The image is read from the file " +
			"argument or from stdin.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			level, err := logrus.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer file.Close()
				in = file
			}
			return run(cmd.Context(), cfg, in, cmd.OutOrStdout(), logrus.NewEntry(log))
		},
	}
	cmd.Flags().StringVar(&f.config, "config", "", "YAML or TOML settings file")
	cmd.Flags().IntVar(&f.window, "window", options.Default().Window, "lookahead window in bytes (2-257)")
	cmd.Flags().StringVar(&f.format, "format", options.FormatText, "output format: text or json")
	cmd.Flags().BoolVar(&f.hex, "hex", false, "input is a hex dump instead of raw bytes")
	cmd.Flags().StringVar(&f.logLevel, "log-level", options.Default().LogLevel, "logrus level")
	return cmd
}

// resolveConfig layers explicitly set flags over the config file, which in
// turn sits on top of the defaults.
func resolveConfig(cmd *cobra.Command, f flags) (options.Config, error) {
	cfg := options.Default()
	if f.config != "" {
		loaded, err := options.Load(f.config)
		if err != nil {
			return options.Config{}, err
		}
		cfg = loaded
	}
	fs := cmd.Flags()
	if fs.Changed("window") {
		cfg.Window = f.window
	}
	if fs.Changed("format") {
		cfg.Format = f.format
	}
	if fs.Changed("hex") {
		cfg.Hex = f.hex
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return options.Config{}, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg options.Config, in io.Reader, out io.Writer, log *logrus.Entry) error {
	opts := gocis.AnalyzeOptions{Window: cfg.Window, Logger: log}
	var result gocis.Result
	var err error
	if cfg.Hex {
		raw, readErr := io.ReadAll(in)
		if readErr != nil {
			return readErr
		}
		result, err = gocis.AnalyzeHex(ctx, string(raw), opts)
	} else {
		result, err = gocis.Analyze(ctx, in, opts)
	}
	// Whatever was decoded before a fault is still printed.
	if werr := write(out, cfg.Format, result); werr != nil {
		return werr
	}
	if err != nil {
		return fmt.Errorf("decode failed after %d tuples: %w", len(result.Records), err)
	}
	log.WithFields(logrus.Fields{
		"tuples": len(result.Records),
		"bytes":  result.ByteCount,
	}).Debug("decode complete")
	return nil
}

func write(out io.Writer, format string, result gocis.Result) error {
	if format == options.FormatJSON {
		data, err := result.JSON()
		if err != nil {
			return err
		}
		_, err = out.Write(append(data, '\n'))
		return err
	}
	_, err := io.WriteString(out, result.String())
	return err
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if err := newRootCmd(log).ExecuteContext(context.Background()); err != nil {
		faultEntry(log, err).Fatal(err)
	}
}

// faultEntry attaches the position of a decode fault to the log entry.
func faultEntry(log *logrus.Logger, err error) *logrus.Entry {
	entry := logrus.NewEntry(log)
	var de *tuple.DecodeError
	if !errors.As(err, &de) {
		return entry
	}
	entry = entry.WithField("offset", de.Offset)
	if de.HasCode {
		entry = entry.WithField("tuple", de.Code.Name())
	}
	return entry
}
