// Package recordbuilder assembles content records for tests. Each section
// helper presets the fields that section requires; options override the rest.
package recordbuilder

import (
	"testing"
	"time"

	"instituteweb/admin-console/internal/record"
	"instituteweb/admin-console/test/testdata"

	"github.com/google/uuid"
)

type Builder struct {
	t *testing.T
}

func New(t *testing.T) *Builder {
	return &Builder{t: t}
}

func (b Builder) Create(opts ...Option) record.Record {
	now := time.Now().UTC().Truncate(time.Second)

	p := &FactoryParams{
		ID:          uuid.NewString(),
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
		Fields:      map[string]any{},
	}
	for _, opt := range opts {
		opt(p)
	}

	return record.Record{
		ID:          p.ID,
		SortOrder:   p.SortOrder,
		IsPublished: p.IsPublished,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Fields:      p.Fields,
	}
}

func (b Builder) News(opts ...Option) record.Record {
	base := []Option{
		WithField("title", testdata.RandomName()),
		WithField("summary", testdata.RandomDescription()),
		WithField("content", testdata.RandomDescription()),
	}
	return b.Create(append(base, opts...)...)
}

func (b Builder) Mou(opts ...Option) record.Record {
	base := []Option{
		WithField("organization", testdata.RandomName()),
		WithField("type", "Industry"),
		WithField("title", testdata.RandomName()),
		WithField("description", testdata.RandomDescription()),
	}
	return b.Create(append(base, opts...)...)
}

func (b Builder) Department(opts ...Option) record.Record {
	base := []Option{
		WithField("name", testdata.RandomName()),
		WithField("programs", []map[string]any{
			{"name": testdata.RandomName(), "duration": "2 years"},
		}),
	}
	return b.Create(append(base, opts...)...)
}

func (b Builder) Testimonial(opts ...Option) record.Record {
	base := []Option{
		WithField("authorName", testdata.RandomPersonName()),
		WithField("quote", testdata.RandomDescription()),
	}
	return b.Create(append(base, opts...)...)
}
