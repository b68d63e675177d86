package rle

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// FrameError reports which frame of a multi-frame image failed to decode.
type FrameError struct {
	Frame int
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("rle: frame %d: %v", e.Frame, e.Err)
}

func (e *FrameError) Unwrap() error { return e.Err }

// DecodeFrames decodes frames concurrently and returns them in their original
// order. On failure it returns a *FrameError for one of the failing frames
// and no frames at all.
func DecodeFrames(ctx context.Context, frames [][]byte, segmentLength int) ([][]byte, error) {
	out := make([][]byte, len(frames))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, frame := range frames {
		i, frame := i, frame
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			decoded, err := DecodeFrame(frame, segmentLength)
			if err != nil {
				return &FrameError{Frame: i, Err: err}
			}
			out[i] = decoded
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
