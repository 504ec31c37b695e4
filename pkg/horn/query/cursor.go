package query

import (
	"iter"
	"sync"
)

// Cursor pulls answers one at a time. Close abandons the remaining search;
// it is safe to call more than once.
type Cursor struct {
	next func() (Bindings, error, bool)
	stop func()
	err  error
	once sync.Once
	done bool
}

// NewCursor wraps an answer sequence.
func NewCursor(seq iter.Seq2[Bindings, error]) *Cursor {
	next, stop := iter.Pull2(seq)
	return &Cursor{next: next, stop: stop}
}

// Next returns the next answer. It returns false once the search is
// exhausted, has failed (see Err) or the cursor is closed.
func (c *Cursor) Next() (Bindings, bool) {
	if c.done {
		return nil, false
	}
	b, err, ok := c.next()
	if !ok {
		c.Close()
		return nil, false
	}
	if err != nil {
		c.err = err
		c.Close()
		return nil, false
	}
	return b, true
}

// Err is the fatal error that ended the search, if any.
func (c *Cursor) Err() error { return c.err }

// Close releases the underlying search.
func (c *Cursor) Close() {
	c.once.Do(func() {
		c.done = true
		c.stop()
	})
}
