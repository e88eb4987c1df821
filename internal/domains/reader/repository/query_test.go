package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/reader/model"
)

func Test_buildListQuery_SearchesNameAndEmail(t *testing.T) {
	q, args, err := buildListQuery(model.ReaderFilter{Query: "ann", Limit: 20, Offset: 40})
	require.NoError(t, err)

	assert.Contains(t, q, `FROM "readers"`)
	assert.Contains(t, q, `"name" ILIKE $1`)
	assert.Contains(t, q, `"email" ILIKE $2`)
	assert.Contains(t, q, "OFFSET")
	assert.Equal(t, "%ann%", args[0])
}

func Test_buildCountQuery_NoFilter(t *testing.T) {
	q, args, err := buildCountQuery(model.ReaderFilter{})
	require.NoError(t, err)

	assert.Contains(t, q, "COUNT(*)")
	assert.NotContains(t, q, "WHERE")
	assert.Empty(t, args)
}

func Test_buildUpdateQuery_ClearsPhone(t *testing.T) {
	empty := ""
	name := "Ann"

	q, args, err := buildUpdateQuery(uuid.New(), model.ReaderPatch{Name: &name, Phone: &empty})
	require.NoError(t, err)

	assert.Contains(t, q, `"name"=$1`)
	assert.Contains(t, q, `"phone"=$2`)
	require.Len(t, args, 3)
	assert.Equal(t, "Ann", args[0])
	assert.Nil(t, args[1])
	assert.NotContains(t, q, `"email"=`)
}
