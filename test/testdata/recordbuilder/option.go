package recordbuilder

import (
	"time"
)

type Option func(*FactoryParams)

type FactoryParams struct {
	ID          string
	SortOrder   int
	IsPublished bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Fields      map[string]any
}

func WithID(id string) Option {
	return func(p *FactoryParams) { p.ID = id }
}

func WithSortOrder(order int) Option {
	return func(p *FactoryParams) { p.SortOrder = order }
}

func WithPublished(published bool) Option {
	return func(p *FactoryParams) { p.IsPublished = published }
}

func WithTimestamps(created, updated time.Time) Option {
	return func(p *FactoryParams) {
		p.CreatedAt = created
		p.UpdatedAt = updated
	}
}

func WithField(name string, value any) Option {
	return func(p *FactoryParams) { p.Fields[name] = value }
}
