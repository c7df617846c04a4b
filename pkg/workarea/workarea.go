// Package workarea manages the transient directory that holds one run's
// intermediate artifacts.
package workarea

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/user/centerstage/pkg/ports"
)

const (
	framesDir = "keyframes"
	chipsDir  = "aligned_keyframes"
	videoFile = "video.mp4"
	audioFile = "audio.aac"
	stageName = "output"
)

// Area is a scoped working directory:
//
//	{root}/centerstage-{runID}/
//	    keyframes/          raw frames
//	    aligned_keyframes/  face chips
//	    video.mp4           silent intermediate video
//	    audio.aac           extracted audio
//	    output{ext}         muxed output before it is moved into place
//
// Release removes the whole tree and is safe to call more than once.
type Area struct {
	fs   ports.FileSystem
	root string

	once       sync.Once
	releaseErr error
}

// New creates the working directory for runID under tempRoot.
// An empty tempRoot means the system temp directory.
func New(fs ports.FileSystem, tempRoot, runID string) (*Area, error) {
	if runID == "" {
		return nil, fmt.Errorf("%w: empty run id", ports.ErrWorkingArea)
	}
	if tempRoot == "" {
		tempRoot = os.TempDir()
	}

	root := filepath.Join(tempRoot, "centerstage-"+runID)
	exists, err := fs.Exists(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrWorkingArea, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %s already exists", ports.ErrWorkingArea, root)
	}

	a := &Area{fs: fs, root: root}
	for _, dir := range []string{a.FramesDir(), a.ChipsDir()} {
		if err := fs.MkdirAll(dir); err != nil {
			fs.RemoveAll(root)
			return nil, fmt.Errorf("%w: create %s: %v", ports.ErrWorkingArea, dir, err)
		}
	}
	return a, nil
}

// Root returns the working directory.
func (a *Area) Root() string { return a.root }

// FramesDir returns the raw frame staging directory.
func (a *Area) FramesDir() string { return filepath.Join(a.root, framesDir) }

// ChipsDir returns the chip staging directory.
func (a *Area) ChipsDir() string { return filepath.Join(a.root, chipsDir) }

// VideoPath returns the path of the silent intermediate video.
func (a *Area) VideoPath() string { return filepath.Join(a.root, videoFile) }

// AudioPath returns the path of the extracted audio.
func (a *Area) AudioPath() string { return filepath.Join(a.root, audioFile) }

// StagedOutputPath returns where the muxed output is written before it is
// moved to its final location. ext keeps the container format of the input.
func (a *Area) StagedOutputPath(ext string) string {
	return filepath.Join(a.root, stageName+ext)
}

// Release removes the working directory and everything in it.
func (a *Area) Release() error {
	a.once.Do(func() {
		if err := a.fs.RemoveAll(a.root); err != nil {
			a.releaseErr = fmt.Errorf("release working area %s: %w", a.root, err)
		}
	})
	return a.releaseErr
}
