package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
)

// run executes bin to completion and returns its stdout.
func run(ctx context.Context, bin string, args []string) ([]byte, error) {
	// #nosec G204 - bin is resolved by Locate
	cmd := exec.CommandContext(ctx, bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s cancelled: %w", filepath.Base(bin), ctx.Err())
		}
		return nil, &Error{
			Tool:   filepath.Base(bin),
			Args:   args,
			Stderr: stderr.String(),
			Err:    err,
		}
	}
	return stdout.Bytes(), nil
}

// formatRate renders a frame rate for the -r option.
func formatRate(fps float64) string {
	return fmt.Sprintf("%.6f", fps)
}
