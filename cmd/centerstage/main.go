// Package main provides the CLI entry point for centerstage.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/centerstage/pkg/batch"
	"github.com/user/centerstage/pkg/ports"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, l10n.F("Error: %s", err))
		os.Exit(exitCode(err))
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "centerstage",
		Usage:   l10n.T("Center every face in a video and rebuild it at the original frame rate"),
		Version: version,
		Description: l10n.T("centerstage extracts every frame of a video, aligns each detected face into a square chip, " +
			"and encodes the chips back into a video with the original audio."),
		Flags:  append(globalFlags(), fileFlags()...),
		Action: rootAction,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  l10n.T("Process a single video"),
				Flags:  fileFlags(),
				Action: runAction,
			},
			{
				Name:   "batch",
				Usage:  l10n.T("Process every video in a directory"),
				Flags:  dirFlags(),
				Action: batchAction,
			},
			{
				Name:  "version",
				Usage: l10n.T("Show version information"),
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, l10n.F("centerstage version %s", version))
					return nil
				},
			},
		},
	}
}

// rootAction behaves like run when -f is given.
func rootAction(c *cli.Context) error {
	if !c.IsSet("file") {
		return cli.ShowAppHelp(c)
	}
	return runAction(c)
}

func runAction(c *cli.Context) error {
	ctx, cancel := signalContext(c.Context)
	defer cancel()

	file := c.String("file")
	if file == "" {
		return fmt.Errorf("%w: %s", ports.ErrInputValidation, l10n.T("input file is required (-f)"))
	}

	env, err := setup(ctx, c)
	if err != nil {
		return err
	}
	defer env.close()

	item := env.batch.RunFile(ctx, env.cfg.ToOrchestratorConfig(), file)
	env.writeSummary([]batch.Item{item})
	if item.Err != nil {
		return item.Err
	}
	env.log.Info("Done: %d of %d frames kept", item.Result.Chips, item.Result.FramesExtracted)
	return nil
}

func batchAction(c *cli.Context) error {
	ctx, cancel := signalContext(c.Context)
	defer cancel()

	env, err := setup(ctx, c)
	if err != nil {
		return err
	}
	defer env.close()

	report, err := env.batch.RunDir(ctx, env.cfg.ToOrchestratorConfig(), c.String("dir"))
	if err != nil {
		return err
	}
	env.writeSummary(report.Items)

	for _, item := range report.Failed() {
		env.log.Error("%s: %s", item.SourcePath, item.Err)
	}
	if n := len(report.Failed()); n > 0 {
		return fmt.Errorf("%s", l10n.F("%d of %d videos failed", n, len(report.Items)))
	}
	return nil
}

// signalContext cancels on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, l10n.T("Interrupted, shutting down..."))
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// exitCode maps input problems to 2 and everything else to 1.
func exitCode(err error) int {
	if errors.Is(err, ports.ErrInputValidation) {
		return 2
	}
	return 1
}
