//go:build unit

package errs_test

import (
	"errors"
	"testing"

	"mentor-booking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want error
	}{
		{name: "nil", err: nil, want: nil},
		{name: "bad request", err: errs.BadRequest("start too soon"), want: errs.ErrBadRequest},
		{name: "not found", err: errs.NotFound("booking not found"), want: errs.ErrNotFound},
		{name: "conflict", err: errs.Conflict("slot taken"), want: errs.ErrConflict},
		{name: "wrapped conflict", err: errs.Wrap(errs.Conflict("slot taken"), "create booking"), want: errs.ErrConflict},
		{name: "plain error", err: errors.New("boom"), want: errs.ErrInternal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, errs.KindOf(tc.err))
		})
	}
}

func TestMark_NilErrReturnsMark(t *testing.T) {
	assert.Equal(t, errs.ErrNotFound, errs.Mark(nil, errs.ErrNotFound))
}

func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, errs.Wrap(nil, "ignored"))
}
