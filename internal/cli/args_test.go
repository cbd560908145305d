package cli

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/mapgen/internal/generator"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    generator.Request
		wantErr error
	}{
		{"no args", nil, generator.Request{}, ErrTooFewArguments},
		{"filename only", []string{"test"}, generator.Request{}, ErrTooFewArguments},
		{"one count", []string{"test", "3"}, generator.Request{Name: "test", CountZ: 3, CountP: 3}, nil},
		{"two counts", []string{"test", "2", "5"}, generator.Request{Name: "test", CountZ: 2, CountP: 5}, nil},
		{"zero counts", []string{"arena", "0"}, generator.Request{Name: "arena"}, nil},
		{"too many", []string{"test", "1", "2", "3"}, generator.Request{}, ErrTooManyArguments},
		{"far too many", []string{"a", "1", "2", "3", "4", "5"}, generator.Request{}, ErrTooManyArguments},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.args)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrArgumentCount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDefaultName(t *testing.T) {
	req, err := Resolve(nil)
	require.Error(t, err)
	assert.Equal(t, DefaultName, req.Name)
}

func TestResolveParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantPos int
		wantNum bool
	}{
		{"word", []string{"test", "many"}, 1, true},
		{"float", []string{"test", "1.5"}, 1, true},
		{"second bad", []string{"test", "2", "x"}, 2, true},
		{"negative", []string{"test", "-1"}, 1, false},
		{"negative second", []string{"test", "1", "-4"}, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.args)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCount)
			assert.False(t, errors.Is(err, ErrArgumentCount))

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.wantPos, pe.Position)

			var numErr *strconv.NumError
			assert.Equal(t, tt.wantNum, errors.As(err, &numErr))
		})
	}
}
