package primary

import (
	"testing"

	"bulkcat/internal/store"

	"github.com/stretchr/testify/assert"
)

func TestBuildPostWhere(t *testing.T) {
	where, args := buildPostWhere(store.PostQuery{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = buildPostWhere(store.PostQuery{
		PostType:        "post",
		Status:          "publish",
		IncludeCategory: 3,
		ExcludeCategory: 4,
		Search:          "go 50%",
	})
	assert.Equal(t, " WHERE p.post_type = $1 AND p.status = $2"+
		" AND EXISTS (SELECT 1 FROM post_categories pc WHERE pc.post_id = p.id AND pc.category_id = $3)"+
		" AND NOT EXISTS (SELECT 1 FROM post_categories pc WHERE pc.post_id = p.id AND pc.category_id = $4)"+
		` AND p.title ILIKE $5 ESCAPE '\' AND p.title ILIKE $6 ESCAPE '\'`, where)
	assert.Equal(t, []interface{}{"post", "publish", int64(3), int64(4), "%go%", `%50\%%`}, args)
}
