package main

import (
	"fmt"

	"github.com/user/centerstage/pkg/adapters/cmdaligner"
	"github.com/user/centerstage/pkg/config"
	"github.com/user/centerstage/pkg/ports"
)

// newAligner builds the configured backend. The returned close func is never nil.
func newAligner(cfg config.Config, renderer ports.Renderer) (ports.FaceAligner, func() error, error) {
	switch cfg.Aligner.Backend {
	case "gocv":
		return newGocvAligner(cfg)
	case "command", "":
		a := cmdaligner.New(cmdaligner.Options{
			Command:    cfg.Aligner.Command,
			Args:       cfg.Aligner.Args,
			ModelPath:  cfg.ModelPath(),
			ChipSize:   cfg.ChipSize,
			Padding:    cfg.Aligner.Padding,
			ScratchDir: cfg.TempDir,
		}, renderer)
		return a, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown aligner backend %q", cfg.Aligner.Backend)
	}
}
