package stream

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
)

var ErrAllPaused = errors.New("no panel has a positive rate")

type tick struct {
	panel int
	epoch uint64
	at    time.Time
}

// Run drives c with one ticker per active panel until ctx is done. Tickers
// only forward timestamps; every Controller call happens on the calling
// goroutine. onChunk, if set, sees each accepted chunk.
//
// A context that ends by deadline is a normal finish and returns nil.
func Run(ctx context.Context, c *Controller, onChunk func(panel int, chunk string)) error {
	c.Start(time.Now())
	defer c.Stop()

	g, gctx := errgroup.WithContext(ctx)
	ticks := make(chan tick)

	active := 0
	for i, p := range c.Panels() {
		delay, ok := p.Delay()
		if !ok {
			continue
		}
		active++
		i, epoch := i, p.Epoch()
		g.Go(func() error {
			t := time.NewTicker(delay)
			defer t.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case at := <-t.C:
					select {
					case ticks <- tick{panel: i, epoch: epoch, at: at}:
					case <-gctx.Done():
						return nil
					}
				}
			}
		})
	}
	if active == 0 {
		return ErrAllPaused
	}

	var err error
loop:
	for {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break loop
		case t := <-ticks:
			if chunk, ok := c.Tick(t.panel, t.epoch, t.at); ok && onChunk != nil {
				onChunk(t.panel, chunk)
			}
		}
	}
	_ = g.Wait()

	if errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
