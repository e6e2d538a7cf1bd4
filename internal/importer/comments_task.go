package importer

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"idlimp/internal/comments"
)

// commentLoad reads the documentation tables in the background while the
// unit is built.
type commentLoad struct {
	g     *errgroup.Group
	table *comments.Table

	once sync.Once
	err  error
}

// startCommentLoad begins reading paths. Cancelling ctx stops the load
// between files.
func startCommentLoad(ctx context.Context, paths []string) *commentLoad {
	g, gctx := errgroup.WithContext(ctx)
	l := &commentLoad{g: g}
	g.Go(func() error {
		t, err := comments.Load(gctx, paths...)
		if err != nil {
			return err
		}
		l.table = t
		return nil
	})
	return l
}

// wait joins the load. Only the first call blocks; later calls return the
// same result.
func (l *commentLoad) wait() (*comments.Table, error) {
	if l == nil {
		return nil, nil
	}
	l.once.Do(func() { l.err = l.g.Wait() })
	return l.table, l.err
}
