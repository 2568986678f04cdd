package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmgilman/go/shell/errors"
	"github.com/jmgilman/go/shell/manifest"
	"github.com/jmgilman/go/shell/pipeline"
	"github.com/jmgilman/go/shell/redirect"
)

func newRunCmd(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "run <manifest>",
		Short: "Run a pipeline manifest",
		Long: `Run the pipeline described by a YAML manifest.

The pipeline's stdout is printed to stdout and its stderr to stderr. shrun
exits with the pipeline's exit code. File stages are relative to --dir.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runManifest(cmd, args[0], dir)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory file stages are relative to")
	return cmd
}

func (a *app) runManifest(cmd *cobra.Command, path, dir string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, errors.CodeInvalidInput, "invalid manifest path")
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return errors.Wrap(err, errors.CodeInvalidInput, "invalid directory")
	}

	m, err := manifest.Load(redirect.NewLocal("/"), path)
	if err != nil {
		return err
	}

	name := m.Name
	if name == "" {
		name = filepath.Base(path)
	}
	p := pipeline.New(name, m.Builder(a.shell, redirect.NewLocal(dir)), pipeline.WithLogger(a.logger))
	defer func() { _ = p.Close() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout := m.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := p.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), res.StdoutText())
	fmt.Fprint(cmd.ErrOrStderr(), res.StderrText())
	if !res.Success() {
		return &exitError{code: res.ExitCode}
	}
	return nil
}

func newWhichCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "which <name>...",
		Short: "Print the resolved path of each command",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			for _, name := range args {
				path, err := a.shell.Resolver().Resolve(ctx, name)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
}

// exitError carries a pipeline's non-zero exit code out of a command.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("pipeline exited with status %d", e.code)
}

// exitCode reports err on stderr and maps it to a process exit code.
// Pipeline exit codes pass through; other errors exit 1.
func exitCode(err error, asJSON bool, stderr io.Writer) int {
	if err == nil {
		return 0
	}

	var exitErr *exitError
	if stderrors.As(err, &exitErr) {
		if exitErr.code < 0 || exitErr.code > 255 {
			return 1
		}
		return exitErr.code
	}

	if asJSON {
		data, jerr := json.Marshal(errors.ToJSON(err))
		if jerr == nil {
			fmt.Fprintln(stderr, string(data))
			return 1
		}
	}
	fmt.Fprintln(stderr, "Error:", err)
	return 1
}
