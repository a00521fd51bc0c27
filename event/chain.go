package event

import (
	"context"
	"io"
)

// ChainSource reads the named inputs one after the other, opening each with
// open once the previous one is exhausted.
type ChainSource struct {
	open  func(name string) (Source, error)
	names []string
	cur   Source
}

func NewChain(open func(name string) (Source, error), names ...string) *ChainSource {
	return &ChainSource{open: open, names: names}
}

func (c *ChainSource) Next(ctx context.Context) (*Event, error) {
	for {
		if c.cur == nil {
			if len(c.names) == 0 {
				return nil, io.EOF
			}
			src, err := c.open(c.names[0])
			if err != nil {
				return nil, err
			}
			c.names = c.names[1:]
			c.cur = src
		}
		evt, err := c.cur.Next(ctx)
		if err != io.EOF {
			return evt, err
		}
		if err := c.cur.Close(); err != nil {
			return nil, err
		}
		c.cur = nil
	}
}

// Close closes the input currently read. Inputs not opened yet are skipped.
func (c *ChainSource) Close() error {
	if c.cur == nil {
		return nil
	}
	err := c.cur.Close()
	c.cur = nil
	return err
}
