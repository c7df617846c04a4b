//go:build !gocv

package main

import (
	"fmt"

	"github.com/user/centerstage/pkg/config"
	"github.com/user/centerstage/pkg/ports"
)

func newGocvAligner(cfg config.Config) (ports.FaceAligner, func() error, error) {
	return nil, nil, fmt.Errorf("%w: built without OpenCV support (rebuild with -tags gocv)", ports.ErrAlignerUnavailable)
}
