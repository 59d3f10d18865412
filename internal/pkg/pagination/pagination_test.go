package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetMeta(t *testing.T) {
	meta := GetMeta(&Params{Page: 2, Limit: 10}, 25)

	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 10, meta.Limit)
	assert.Equal(t, int64(25), meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
}

func TestGetMetaFirstAndLastPage(t *testing.T) {
	first := GetMeta(&Params{Page: 1, Limit: 10}, 30)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrev)

	last := GetMeta(&Params{Page: 3, Limit: 10}, 30)
	assert.False(t, last.HasNext)
	assert.True(t, last.HasPrev)
	assert.Equal(t, 3, last.TotalPages)
}

func TestGetMetaEmpty(t *testing.T) {
	meta := GetMeta(&Params{Page: 1, Limit: 10}, 0)

	assert.Equal(t, 0, meta.TotalPages)
	assert.False(t, meta.HasNext)
	assert.False(t, meta.HasPrev)
}

func TestNewResponse(t *testing.T) {
	data := []string{"a", "b"}
	resp := NewResponse(data, &Params{Page: 1, Limit: 20}, 2)

	assert.Equal(t, data, resp.Data)
	assert.Equal(t, 1, resp.Meta.TotalPages)
}
