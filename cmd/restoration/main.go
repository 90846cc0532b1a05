// SPDX-License-Identifier: Apache-2.0

// Command restoration recovers a binary graymap from a corrupted plain-text
// image read from a file or standard input.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/filesofpix/restoration/internal/config"
	"github.com/filesofpix/restoration/internal/restore"
	"github.com/filesofpix/restoration/internal/tool"
)

var version = "dev"

var (
	errUsage = errors.New("usage")
	errOpen  = errors.New("cannot open file")
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the CLI and returns the process exit code: 2 for usage
// errors, 1 for any other failure.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdin, stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "restoration: %v\n", err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}

type rootFlags struct {
	config   string
	strict   bool
	logLevel string
	output   string
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var f rootFlags
	cmd := &cobra.Command{
		Use:   "restoration [file]",
		Short: "Restore a binary graymap from a corrupted plain-text image",
		Long: "restoration reads a plain-text image into which noise lines were interleaved,\n" +
			"keeps the lines whose non-digit characters recur, and writes the decoded rows\n" +
			"as a binary graymap (P5). Input is the named file, or standard input when omitted.",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 1 {
				return fmt.Errorf("%w: too many arguments (want at most one file)", errUsage)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.config, config.Overrides{
				Strict:      f.strict,
				StrictSet:   cmd.Flags().Changed("strict"),
				LogLevel:    f.logLevel,
				LogLevelSet: cmd.Flags().Changed("log-level"),
				Output:      f.output,
				OutputSet:   cmd.Flags().Changed("output"),
			})
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.Level()}))

			src := stdin
			if len(args) == 1 {
				file, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("%w: %v", errOpen, err)
				}
				defer file.Close()
				src = file
			}

			pipeline := restore.NewPipeline(cfg.PipelineOptions(logger)...)
			if cfg.Output == "" {
				_, err = pipeline.Run(cmd.Context(), src, stdout)
				return err
			}
			out := &lazyFile{path: cfg.Output}
			_, err = pipeline.Run(cmd.Context(), src, out)
			if cerr := out.Close(); err == nil {
				err = cerr
			}
			return err
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().StringVarP(&f.config, "config", "c", "", "YAML configuration file (default $"+config.EnvFile+")")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "fail when a row's width differs from the first row")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the raster to this file instead of standard output")

	cmd.AddCommand(newServeCmd(stdin, stdout), newVersionCmd(stdout))
	return cmd
}

func newServeCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the restore_raster tool over MCP on standard input/output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			server := tool.NewServer(version)
			transport := &mcp.IOTransport{
				Reader: io.NopCloser(stdin),
				Writer: nopWriteCloser{stdout},
			}
			return server.Run(cmd.Context(), transport)
		},
	}
}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintln(stdout, version)
		},
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// lazyFile creates its file on the first Write, so a failed run leaves no
// empty output behind.
type lazyFile struct {
	path string
	f    *os.File
}

func (l *lazyFile) Write(p []byte) (int, error) {
	if l.f == nil {
		f, err := os.Create(l.path)
		if err != nil {
			return 0, err
		}
		l.f = f
	}
	return l.f.Write(p)
}

func (l *lazyFile) Close() error {
	if l.f == nil {
		return nil
	}
	return l.f.Close()
}
