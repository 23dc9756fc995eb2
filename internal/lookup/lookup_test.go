package lookup

import (
	"CaseTrack/internal/model"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeFinder struct {
	cases map[string]model.Case
	err   error
	calls []string
}

func (f *fakeFinder) FindCaseByNumber(_ context.Context, n string) (*model.Case, error) {
	f.calls = append(f.calls, n)
	if f.err != nil {
		return nil, f.err
	}
	if c, ok := f.cases[n]; ok {
		return &c, nil
	}
	return nil, nil
}

func TestFindByCaseNumber(t *testing.T) {
	f := &fakeFinder{cases: map[string]model.Case{
		"CF-1001": {ID: "c1", CaseNumber: "CF-1001", Status: model.StatusActive},
	}}
	svc := NewService(f, zap.NewNop().Sugar())
	ctx := context.Background()

	t.Run("exact match round trip", func(t *testing.T) {
		c, err := svc.FindByCaseNumber(ctx, "CF-1001")
		require.NoError(t, err)
		assert.Equal(t, "c1", c.ID)
	})

	t.Run("surrounding spaces trimmed", func(t *testing.T) {
		c, err := svc.FindByCaseNumber(ctx, "  CF-1001 ")
		require.NoError(t, err)
		assert.Equal(t, "CF-1001", c.CaseNumber)
	})

	t.Run("match is case-sensitive", func(t *testing.T) {
		_, err := svc.FindByCaseNumber(ctx, "cf-1001")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("blank never reaches the backend", func(t *testing.T) {
		before := len(f.calls)
		_, err := svc.FindByCaseNumber(ctx, "   ")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Len(t, f.calls, before)
	})
}

func TestFindByCaseNumber_BackendErrorIsDistinct(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	boom := errors.New("connection refused")
	svc := NewService(&fakeFinder{err: boom}, zap.New(core).Sugar())

	_, err := svc.FindByCaseNumber(context.Background(), "CF-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, logs.FilterMessage("case lookup failed").FilterLevelExact(zap.ErrorLevel).Len())

	svc = NewService(&fakeFinder{}, zap.New(core).Sugar())
	_, err = svc.FindByCaseNumber(context.Background(), "CF-404")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, logs.FilterMessage("case not found").FilterLevelExact(zap.InfoLevel).Len())
}

func TestFinderFunc(t *testing.T) {
	var got string
	f := FinderFunc(func(_ context.Context, n string) (*model.Case, error) {
		got = n
		return nil, nil
	})
	_, err := NewService(f, zap.NewNop().Sugar()).FindByCaseNumber(context.Background(), "X")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "X", got)
}
