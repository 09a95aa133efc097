package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/portfolio/testutil"
)

func TestPortfolioLoadFailure(t *testing.T) {
	e := newEnv(t)
	sqlDB, err := e.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := e.public(http.MethodGet, "/api/portfolio", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 50001, testutil.Decode(t, w, nil).Code)
}
