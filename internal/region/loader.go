package region

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Source fetches the area tree from the API.
type Source interface {
	Areas(ctx context.Context) ([]Node, error)
}

// TreeCache stores the raw area tree between runs.
type TreeCache interface {
	GetAreas(ctx context.Context) ([]Node, bool)
	SetAreas(ctx context.Context, nodes []Node) error
}

// Loader builds a Directory from the cache, the API, or the static fallback, in that order.
type Loader struct {
	Source Source
	Cache  TreeCache // optional
}

// Load never fails; the fallback table is the last resort.
func (l Loader) Load(ctx context.Context) *Directory {
	if l.Cache != nil {
		if nodes, ok := l.Cache.GetAreas(ctx); ok && len(nodes) > 0 {
			log.Debug().Int("roots", len(nodes)).Msg("region: area tree from cache")
			return NewDirectory(nodes)
		}
	}

	if l.Source != nil {
		nodes, err := l.Source.Areas(ctx)
		if err == nil && len(nodes) > 0 {
			if l.Cache != nil {
				if err := l.Cache.SetAreas(ctx, nodes); err != nil {
					log.Warn().Err(err).Msg("region: caching area tree failed")
				}
			}
			d := NewDirectory(nodes)
			log.Debug().Int("names", d.Len()).Msg("region: area tree fetched")
			return d
		}
		if err != nil {
			log.Warn().Err(err).Msg("region: fetching area tree failed, using fallback table")
		}
	}

	return NewDirectory(Fallback)
}
