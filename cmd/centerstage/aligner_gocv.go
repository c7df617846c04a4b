//go:build gocv

package main

import (
	"github.com/user/centerstage/pkg/adapters/gocvaligner"
	"github.com/user/centerstage/pkg/config"
	"github.com/user/centerstage/pkg/ports"
)

func newGocvAligner(cfg config.Config) (ports.FaceAligner, func() error, error) {
	a := gocvaligner.New(cfg.ModelPath(), cfg.ChipSize, cfg.Aligner.Padding)
	return a, a.Close, nil
}
