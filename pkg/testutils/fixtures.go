package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/pepysdiary/pepysdiary/pkg/models"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// Insert saves model and fails the test on error.
func Insert(t *testing.T, db bun.IDB, model interface{}) {
	t.Helper()
	_, err := db.NewInsert().Model(model).Exec(context.Background())
	require.NoError(t, err)
}

func CreateTopic(t *testing.T, db bun.IDB, title string, isPerson bool) *models.Topic {
	t.Helper()
	topic := &models.Topic{
		Title:            title,
		OrderTitle:       title,
		OrderTitleSource: models.DataSourceAuto,
		IsPerson:         isPerson,
		AllowComments:    true,
	}
	Insert(t, db, topic)
	return topic
}

func CreateEntry(t *testing.T, db bun.IDB, date time.Time, title string) *models.Entry {
	t.Helper()
	entry := &models.Entry{
		DiaryDate:     date,
		Title:         title,
		Text:          title,
		TextHTML:      "<p>" + title + "</p>",
		AllowComments: true,
	}
	Insert(t, db, entry)
	return entry
}

func CreateLetter(t *testing.T, db bun.IDB, date time.Time, slug, title string) *models.Letter {
	t.Helper()
	letter := &models.Letter{
		Title:         title,
		Slug:          slug,
		LetterDate:    date,
		Sender:        "Samuel Pepys",
		Recipient:     "John Evelyn",
		TextHTML:      "<p>" + title + "</p>",
		AllowComments: true,
	}
	Insert(t, db, letter)
	return letter
}

func CreateArticle(t *testing.T, db bun.IDB, date time.Time, slug, title, status string) *models.Article {
	t.Helper()
	article := &models.Article{
		Title:         title,
		Slug:          slug,
		DatePublished: date,
		Status:        status,
		AuthorName:    "Phil Gyford",
		IntroHTML:     "<p>" + title + "</p>",
		AllowComments: true,
	}
	Insert(t, db, article)
	return article
}

func CreatePost(t *testing.T, db bun.IDB, date time.Time, title, category, status string) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:         title,
		DatePublished: date,
		Status:        status,
		Category:      category,
		IntroHTML:     "<p>" + title + "</p>",
		AllowComments: true,
	}
	Insert(t, db, post)
	return post
}

func CreateAnnotation(t *testing.T, db bun.IDB, obj models.Commentable, userName, comment string) *models.Annotation {
	t.Helper()
	annotation := &models.Annotation{
		ObjectType:  obj.CommentObjectType(),
		ObjectID:    obj.CommentObjectID(),
		UserName:    userName,
		UserEmail:   "reader@example.com",
		Comment:     comment,
		CommentHTML: "<p>" + comment + "</p>",
		SubmitDate:  time.Now().UTC(),
		IsPublic:    true,
	}
	Insert(t, db, annotation)
	return annotation
}
