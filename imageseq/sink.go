// Package imageseq writes frames as numbered PNG files.
package imageseq

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/svoexport/frame"
)

var ErrNotADirectory = errors.New("not an existing directory")

// FileName is the name of the file of the given frame: the prefix and
// the frame index zero-padded to 6 digits.
func FileName(prefix string, frameIndex int) string {
	return fmt.Sprintf("%s%06d.png", prefix, frameIndex)
}

type Sink struct {
	Dir     string
	Encoder png.Encoder
}

// New returns a sink writing into dir, which must already exist.
func New(dir string) (*Sink, error) {
	stat, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to stat '%s': %w", dir, errors.Join(ErrNotADirectory, err))
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("'%s': %w", dir, ErrNotADirectory)
	}
	return &Sink{
		Dir: dir,
		Encoder: png.Encoder{
			CompressionLevel: png.BestSpeed,
		},
	}, nil
}

// WriteFrame writes one file per image. Every file is written to a
// temporary name first and renamed when complete, so a file with the
// final name is never partially written. 16-bit grayscale images are
// stored with 16 bits per sample.
func (s *Sink) WriteFrame(
	ctx context.Context,
	frameIndex int,
	images ...frame.Named,
) error {
	for _, img := range images {
		path := filepath.Join(s.Dir, FileName(img.Prefix, frameIndex))
		if err := s.writeFile(path, img); err != nil {
			return err
		}
		logger.Tracef(ctx, "wrote '%s'", path)
	}
	return nil
}

func (s *Sink) writeFile(path string, img frame.Named) (_err error) {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("unable to create '%s': %w", tmpPath, err)
	}
	defer func() {
		if _err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := s.Encoder.Encode(f, img.Image); err != nil {
		_ = f.Close()
		return fmt.Errorf("unable to encode '%s': %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to close '%s': %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("unable to rename '%s' to '%s': %w", tmpPath, path, err)
	}
	return nil
}

func (s *Sink) Close() error {
	return nil
}
