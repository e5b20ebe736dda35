package errors_test

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/breeew/stellar-api/pkg/errors"
)

func TestTrace(t *testing.T) {
	err := errors.New("JournalStore.Get", "error.notfound", sql.ErrNoRows).Code(http.StatusNotFound)
	traced := errors.Trace("JournalLogic.Get", err)

	assert.Equal(t, http.StatusNotFound, traced.HTTPCode())
	assert.Equal(t, "error.notfound", traced.Message())
	assert.True(t, errors.Is(traced, sql.ErrNoRows))
	assert.Contains(t, traced.Error(), "JournalLogic.Get -> JournalStore.Get")
}

func TestTracePlainError(t *testing.T) {
	traced := errors.Trace("prefix", sql.ErrConnDone)
	assert.Equal(t, http.StatusInternalServerError, traced.HTTPCode())
	assert.Equal(t, "error.internal", traced.Message())

	assert.Nil(t, errors.Trace("prefix", nil))
	assert.Equal(t, http.StatusInternalServerError, errors.HTTPCode(sql.ErrConnDone))
}
