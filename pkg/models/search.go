package models

// Kinds of object stored in the search index.
const (
	SearchKindAnnotation = "annotation"
	SearchKindArticle    = "article"
	SearchKindEntry      = "entry"
	SearchKindLetter     = "letter"
	SearchKindPost       = "post"
	SearchKindTopic      = "topic"
)

var SearchKinds = []string{
	SearchKindAnnotation,
	SearchKindArticle,
	SearchKindEntry,
	SearchKindLetter,
	SearchKindPost,
	SearchKindTopic,
}

// Index weights. A is the heading-like text, B is body text.
const (
	IndexWeightA = "A"
	IndexWeightB = "B"
)

// IndexComponent is one weighted piece of text that makes up an object's search
// document.
type IndexComponent struct {
	Text   string
	Weight string
}

// Indexable is implemented by every model that appears in site search.
type Indexable interface {
	SearchKind() string
	SearchObjectID() int
	IndexComponents() []IndexComponent
}

// Commentable is implemented by every model that annotations can be attached
// to.
type Commentable interface {
	CommentObjectType() string
	CommentObjectID() int
	CommentsAllowed() bool
	AbsoluteURL() string
}
