package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListQueryDefaults(t *testing.T) {
	lq, err := BuildListQuery(AccountAdmin(), map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "email ASC", lq.OrderBy)
	assert.Equal(t, []string{"email"}, lq.SearchFields)
	assert.Empty(t, lq.Filters)
	assert.Empty(t, lq.Search)
	assert.Equal(t, defaultListLimit, lq.Limit)
	assert.Zero(t, lq.Offset)
}

func TestBuildListQueryDeclaredFilters(t *testing.T) {
	lq, err := BuildListQuery(AccountAdmin(), map[string]string{
		"is_staff":  "true",
		"is_active": "false",
		"email":     "alice@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"is_staff":  "true",
		"is_active": "false",
		"email":     "alice@example.com",
	}, lq.Filters)
}

func TestBuildListQueryRejectsUndeclaredFilter(t *testing.T) {
	_, err := BuildListQuery(AccountAdmin(), map[string]string{"username": "alice"})
	assert.ErrorIs(t, err, ErrUnknownFilter)

	// is_superuser is a real column but not a declared filter.
	_, err = BuildListQuery(AccountAdmin(), map[string]string{"is_superuser": "true"})
	assert.ErrorIs(t, err, ErrUnknownFilter)
}

func TestBuildListQueryReservedParams(t *testing.T) {
	lq, err := BuildListQuery(AccountAdmin(), map[string]string{
		"q":      "example.com",
		"limit":  "25",
		"offset": "50",
	})
	require.NoError(t, err)

	assert.Equal(t, "example.com", lq.Search)
	assert.Equal(t, 25, lq.Limit)
	assert.Equal(t, 50, lq.Offset)
}

func TestBuildListQueryInvalidPaging(t *testing.T) {
	_, err := BuildListQuery(AccountAdmin(), map[string]string{"limit": "many"})
	assert.Error(t, err)

	_, err = BuildListQuery(AccountAdmin(), map[string]string{"offset": "-1"})
	assert.Error(t, err)
}

func TestOrderClause(t *testing.T) {
	testCases := []struct {
		input    []string
		expected string
	}{
		{[]string{"email"}, "email ASC"},
		{[]string{"-date_joined"}, "date_joined DESC"},
		{[]string{"-is_staff", "email"}, "is_staff DESC, email ASC"},
		{nil, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, orderClause(tc.input))
		})
	}
}
