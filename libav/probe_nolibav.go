//go:build !with_libav
// +build !with_libav

package libav

import (
	"context"
	"fmt"
)

func ProbeVideo(
	ctx context.Context,
	path string,
) (*VideoInfo, error) {
	return nil, fmt.Errorf("not compiled with libav support")
}
