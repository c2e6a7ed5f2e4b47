package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/tidysheet/internal/cell"
	"github.com/JonMunkholm/tidysheet/internal/config"
	"github.com/JonMunkholm/tidysheet/internal/core"
	"github.com/JonMunkholm/tidysheet/internal/logging"
)

// app holds what every subcommand needs once the root has started up.
type app struct {
	logLevel string
	cfg      *config.Config
	service  *core.Service
}

// newRootCommand returns the tidysheet command tree.
func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "tidysheet",
		Short:        "Clean CSV and XLSX files",
		Long:         "Trim and collapse whitespace, strip stray quotes and normalize dates to DD-MM-YYYY in CSV and XLSX files.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from LOG_LEVEL)")

	root.AddCommand(newCleanCommand(a))
	root.AddCommand(newPreviewCommand(a))
	root.AddCommand(newDetectCommand(a))
	return root
}

// init loads .env and configuration and sets up logging on stderr, so
// stdout only carries command output.
func (a *app) init(cmd *cobra.Command) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	level := cfg.Logging.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	slog.SetDefault(logging.New(cmd.ErrOrStderr(), level, cfg.Logging.Format))

	a.cfg = cfg
	a.service = core.NewService(cfg)
	return nil
}

// conversionFlags are the options shared by clean and preview.
type conversionFlags struct {
	sheet     string
	delimiter string
	encoding  string
}

func (f *conversionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Worksheet to read (XLSX only, default first sheet)")
	cmd.Flags().StringVarP(&f.delimiter, "delimiter", "d", "", `Force the CSV delimiter: ",", ";", "tab" or "¦" (default detect)`)
	cmd.Flags().StringVarP(&f.encoding, "encoding", "e", "", "CSV encoding: utf-8, windows-1252, iso-8859-1 (default from CLEAN_ENCODING)")
}

func (f *conversionFlags) options(path string) core.Options {
	return core.Options{
		Filename:  filepath.Base(path),
		Sheet:     f.sheet,
		Delimiter: f.delimiter,
		Encoding:  f.encoding,
	}
}

func newCleanCommand(a *app) *cobra.Command {
	var (
		flags  conversionFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "clean <file>",
		Short: "Write a cleaned copy of a CSV or XLSX file",
		Long:  "Cleans every cell of the input and writes <name>_cleaned.<ext> next to it, or to --output. Use --output - for stdout.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			res, err := a.service.Clean(cmd.Context(), in, flags.options(args[0]))
			if err != nil {
				return conversionError(args[0], err)
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(res.Output)
				return err
			}
			if output == "" {
				output = filepath.Join(filepath.Dir(args[0]), res.Filename)
			}
			if err := os.WriteFile(output, res.Output, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d rows%s)\n", output, res.TotalRows, describe(res))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default <name>_cleaned.<ext> beside the input)")
	return cmd
}

func newPreviewCommand(a *app) *cobra.Command {
	var (
		flags conversionFlags
		rows  int
	)

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Print the first cleaned rows as a Markdown table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			opts := flags.options(args[0])
			opts.PreviewRows = rows

			res, err := a.service.Preview(cmd.Context(), in, opts)
			if err != nil {
				return conversionError(args[0], err)
			}

			out := cmd.OutOrStdout()
			if _, err := io.WriteString(out, res.Markdown); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "\n%d of %d rows%s\n", len(res.Rows), res.TotalRows, describe(res))
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVarP(&rows, "rows", "n", 0, "Rows to show, header included (default from CLEAN_PREVIEW_ROWS)")
	return cmd
}

func newDetectCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "detect <file>",
		Short: "Print the detected delimiter of a text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			decoded, err := core.DecodeReader(in, a.cfg.Clean.Encoding)
			if err != nil {
				return err
			}
			sample, err := io.ReadAll(io.LimitReader(decoded, int64(a.cfg.Clean.SampleBytes)))
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cell.DelimiterName(a.service.DetectDelimiter(string(sample))))
			return nil
		},
	}
}

// describe returns the ", sheet X" or ", delimiter Y" suffix for summaries.
func describe(res *core.Result) string {
	switch {
	case res.Sheet != "":
		return ", sheet " + res.Sheet
	case res.Delimiter != "":
		return ", delimiter " + res.DelimiterName()
	}
	return ""
}

// conversionError prefers the coded user message over the technical error.
func conversionError(path string, err error) error {
	if core.IsUserFacing(err) {
		return fmt.Errorf("%s: %s", path, core.FormatUserError(err))
	}
	return fmt.Errorf("%s: %w", path, err)
}
