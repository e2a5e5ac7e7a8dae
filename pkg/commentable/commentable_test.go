package commentable_test

import (
	"context"
	"testing"

	"github.com/pepysdiary/pepysdiary/pkg/commentable"
	"github.com/pepysdiary/pepysdiary/pkg/errcodes"
	"github.com/pepysdiary/pepysdiary/pkg/models"
	"github.com/pepysdiary/pepysdiary/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Parallel()
	db := testutils.SetupDB(t)
	ctx := context.Background()

	entry := testutils.CreateEntry(t, db, models.Date(1660, 1, 1), "Sunday 1 January 1659/60")
	topic := testutils.CreateTopic(t, db, "Elizabeth Pepys", true)

	obj, err := commentable.Load(ctx, db, models.SearchKindEntry, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "/diary/1660/01/01/", obj.AbsoluteURL())
	assert.True(t, obj.CommentsAllowed())

	obj, err = commentable.Load(ctx, db, models.SearchKindTopic, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, topic.ID, obj.CommentObjectID())

	_, err = commentable.Load(ctx, db, models.SearchKindLetter, 999)
	assert.Equal(t, errcodes.NotFound("Object"), err)

	_, err = commentable.Load(ctx, db, "book", 1)
	assert.Equal(t, errcodes.NotFound("Object"), err)
}

func TestTable(t *testing.T) {
	t.Parallel()

	for _, objectType := range commentable.ObjectTypes {
		table, ok := commentable.Table(objectType)
		assert.True(t, ok, objectType)
		assert.NotEmpty(t, table)
	}

	_, ok := commentable.Table(models.SearchKindAnnotation)
	assert.False(t, ok)
}
