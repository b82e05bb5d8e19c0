package export

import (
	"context"
	"testing"

	"instituteweb/admin-console/internal"
	"instituteweb/admin-console/internal/record"
	"instituteweb/admin-console/internal/schema"
	"instituteweb/admin-console/test/testdata/recordbuilder"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) List(ctx context.Context, section string) ([]record.Record, error) {
	args := m.Called(ctx, section)
	records, _ := args.Get(0).([]record.Record)
	return records, args.Error(1)
}

func (m *mockStore) Create(ctx context.Context, section string, fields map[string]any) (record.Record, error) {
	args := m.Called(ctx, section, fields)
	saved, _ := args.Get(0).(record.Record)
	return saved, args.Error(1)
}

func (m *mockStore) Update(ctx context.Context, section string, id string, fields map[string]any) (record.Record, error) {
	args := m.Called(ctx, section, id, fields)
	saved, _ := args.Get(0).(record.Record)
	return saved, args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, section string, id string) error {
	args := m.Called(ctx, section, id)
	return args.Error(0)
}

func TestService_Workbook(t *testing.T) {
	t.Run("Should lay records out under a header row", func(t *testing.T) {
		st := new(mockStore)
		s := NewService(zap.NewNop(), schema.Builtin(), st)

		builder := recordbuilder.New(t)
		records := []record.Record{
			builder.Mou(
				recordbuilder.WithID("m2"),
				recordbuilder.WithSortOrder(2),
				recordbuilder.WithField("organization", "Beta Institute"),
			),
			builder.Mou(
				recordbuilder.WithID("m1"),
				recordbuilder.WithSortOrder(1),
				recordbuilder.WithField("organization", "Acme Corp"),
			),
		}
		st.On("List", mock.Anything, "mou").Return(records, nil).Once()

		f, filename, err := s.Workbook(context.Background(), "mou")
		require.NoError(t, err)
		defer func() { require.NoError(t, f.Close()) }()

		require.Contains(t, filename, "mou-")
		require.Contains(t, filename, ".xlsx")

		rows, err := f.GetRows("Collaborations")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		require.Equal(t, "ID", rows[0][0])
		require.Equal(t, "Organization", rows[0][4])
		// rows follow sort order, not fetch order
		require.Equal(t, "m1", rows[1][0])
		require.Equal(t, "Acme Corp", rows[1][4])
		require.Equal(t, "m2", rows[2][0])
	})

	t.Run("Should reject an unknown section before touching the store", func(t *testing.T) {
		st := new(mockStore)
		s := NewService(zap.NewNop(), schema.Builtin(), st)

		_, _, err := s.Workbook(context.Background(), "gallery")
		require.ErrorIs(t, err, internal.ErrUnknownSection)
		st.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("Should surface a backend failure", func(t *testing.T) {
		st := new(mockStore)
		s := NewService(zap.NewNop(), schema.Builtin(), st)

		st.On("List", mock.Anything, "news").Return(nil, internal.ErrBackendUnavailable).Once()

		_, _, err := s.Workbook(context.Background(), "news")
		require.ErrorIs(t, err, internal.ErrBackendUnavailable)
	})
}
