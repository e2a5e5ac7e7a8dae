package annotations

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pepysdiary/pepysdiary/pkg/akismet"
	"github.com/pepysdiary/pepysdiary/pkg/commentable"
	"github.com/pepysdiary/pepysdiary/pkg/errcodes"
	"github.com/pepysdiary/pepysdiary/pkg/markup"
	"github.com/pepysdiary/pepysdiary/pkg/models"
	"github.com/pepysdiary/pepysdiary/pkg/search"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// SpamChecker decides whether a submitted annotation is spam.
type SpamChecker interface {
	CheckSpam(ctx context.Context, comment akismet.Comment) (bool, error)
}

// RequestMeta describes the request an annotation arrived in, for the spam
// check.
type RequestMeta struct {
	IP        string
	UserAgent string
	Referrer  string
}

type RetrieveAnnotationOptions struct {
	ID *int
}

type ListAnnotationsOptions struct {
	Limit      *int
	Offset     *int
	ObjectType *string
	ObjectID   *int
	IsPublic   *bool
	IsRemoved  *bool
	// VisibleOnly restricts the list to public, non-removed annotations.
	VisibleOnly bool
	// Latest orders newest first instead of oldest first.
	Latest bool

	includeTotal bool
}

type UpdateAnnotationOptions struct {
	Columns []string
}

type Service struct {
	db            *bun.DB
	searchService *search.Service
	spamChecker   SpamChecker
	siteURL       string
}

type Option func(*Service)

// WithSpamChecker checks every new annotation with checker. siteURL is sent
// as the blog and used to build permalinks.
func WithSpamChecker(checker SpamChecker, siteURL string) Option {
	return func(svc *Service) {
		svc.spamChecker = checker
		svc.siteURL = siteURL
	}
}

func NewService(db *bun.DB, searchService *search.Service, opts ...Option) *Service {
	svc := &Service{db: db, searchService: searchService}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// CreateAnnotation saves a reader's annotation on the object it names. The
// object must exist and accept annotations. Annotations Akismet calls spam
// are saved hidden with a spam flag.
func (svc *Service) CreateAnnotation(ctx context.Context, annotation *models.Annotation, meta RequestMeta) error {
	parent, err := commentable.Load(ctx, svc.db, annotation.ObjectType, annotation.ObjectID)
	if err != nil {
		return err
	}
	if !parent.CommentsAllowed() {
		return errcodes.CommentsClosed()
	}

	html, err := markup.RenderComment(annotation.Comment)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	annotation.CommentHTML = html
	annotation.CreatedAt = now
	annotation.UpdatedAt = now
	annotation.SubmitDate = now
	annotation.IPAddress = meta.IP
	annotation.IsPublic = true
	annotation.IsRemoved = false

	spam := svc.isSpam(ctx, annotation, parent, meta)
	if spam {
		annotation.IsPublic = false
	}

	err = svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(annotation).Returning("*").Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		if spam {
			flag := &models.AnnotationFlag{
				AnnotationID: annotation.ID,
				Flag:         models.AnnotationFlagSpam,
				FlagDate:     now,
				FlaggedBy:    "akismet",
			}
			if _, err := tx.NewInsert().Model(flag).Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
			annotation.Flags = []*models.AnnotationFlag{flag}
		}
		return RecountComments(ctx, tx, annotation.ObjectType, annotation.ObjectID)
	})
	if err != nil {
		return err
	}

	svc.index(ctx, annotation, parent.AbsoluteURL())
	return nil
}

// isSpam fails open: without a checker, or when the check itself fails, the
// annotation is treated as genuine.
func (svc *Service) isSpam(ctx context.Context, annotation *models.Annotation, parent models.Commentable, meta RequestMeta) bool {
	if svc.spamChecker == nil {
		return false
	}

	spam, err := svc.spamChecker.CheckSpam(ctx, akismet.Comment{
		UserIP:      meta.IP,
		UserAgent:   meta.UserAgent,
		Referrer:    meta.Referrer,
		Permalink:   svc.siteURL + parent.AbsoluteURL(),
		CommentType: "comment",
		Author:      annotation.UserName,
		AuthorEmail: annotation.UserEmail,
		AuthorURL:   annotation.UserURL,
		Content:     annotation.Comment,
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Warn("spam check failed", logger.Data{"object_type": annotation.ObjectType, "object_id": annotation.ObjectID})
		return false
	}
	return spam
}

func (svc *Service) RetrieveAnnotation(ctx context.Context, opts RetrieveAnnotationOptions) (*models.Annotation, error) {
	annotation := &models.Annotation{}

	q := svc.db.
		NewSelect().
		Model(annotation).
		Relation("Flags")

	if opts.ID != nil {
		q = q.Where("an.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Annotation")
		}
		return nil, errors.WithStack(err)
	}

	return annotation, nil
}

func (svc *Service) ListAnnotations(ctx context.Context, opts ListAnnotationsOptions) ([]*models.Annotation, error) {
	a, _, err := svc.listAnnotationsWithTotal(ctx, opts)
	return a, errors.WithStack(err)
}

func (svc *Service) ListAnnotationsWithTotal(ctx context.Context, opts ListAnnotationsOptions) ([]*models.Annotation, int, error) {
	opts.includeTotal = true
	return svc.listAnnotationsWithTotal(ctx, opts)
}

func (svc *Service) listAnnotationsWithTotal(ctx context.Context, opts ListAnnotationsOptions) ([]*models.Annotation, int, error) {
	annotations := []*models.Annotation{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&annotations).
		Relation("Flags")

	if opts.Latest {
		q = q.Order("an.submit_date DESC", "an.id DESC")
	} else {
		q = q.Order("an.submit_date ASC", "an.id ASC")
	}

	if opts.ObjectType != nil {
		q = q.Where("an.object_type = ?", *opts.ObjectType)
	}
	if opts.ObjectID != nil {
		q = q.Where("an.object_id = ?", *opts.ObjectID)
	}
	if opts.VisibleOnly {
		q = q.Where("an.is_public = ?", true).Where("an.is_removed = ?", false)
	}
	if opts.IsPublic != nil {
		q = q.Where("an.is_public = ?", *opts.IsPublic)
	}
	if opts.IsRemoved != nil {
		q = q.Where("an.is_removed = ?", *opts.IsRemoved)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return annotations, total, nil
}

// ListVisibleAnnotations returns the annotations shown on an object's page,
// oldest first.
func (svc *Service) ListVisibleAnnotations(ctx context.Context, obj models.Commentable) ([]*models.Annotation, error) {
	objectType := obj.CommentObjectType()
	objectID := obj.CommentObjectID()
	return svc.ListAnnotations(ctx, ListAnnotationsOptions{
		ObjectType:  &objectType,
		ObjectID:    &objectID,
		VisibleOnly: true,
	})
}

func (svc *Service) UpdateAnnotation(ctx context.Context, annotation *models.Annotation, opts UpdateAnnotationOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	for _, col := range opts.Columns {
		if col == "comment" {
			html, err := markup.RenderComment(annotation.Comment)
			if err != nil {
				return err
			}
			annotation.CommentHTML = html
			opts.Columns = append(opts.Columns, "comment_html")
			break
		}
	}

	annotation.UpdatedAt = time.Now().UTC()
	columns := append(opts.Columns, "updated_at")

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model(annotation).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errcodes.NotFound("Annotation")
		}
		return RecountComments(ctx, tx, annotation.ObjectType, annotation.ObjectID)
	})
	if err != nil {
		return err
	}

	svc.reindex(ctx, annotation)
	return nil
}

// AddFlag records a flag against an annotation and applies its moderation
// effect: spam hides it, approval shows it and deletion removes it. Removal
// suggestions only record the flag.
func (svc *Service) AddFlag(ctx context.Context, annotation *models.Annotation, flag, flaggedBy string) (*models.AnnotationFlag, error) {
	f := &models.AnnotationFlag{
		AnnotationID: annotation.ID,
		Flag:         flag,
		FlagDate:     time.Now().UTC(),
		FlaggedBy:    flaggedBy,
	}

	var columns []string
	switch flag {
	case models.AnnotationFlagSpam:
		annotation.IsPublic = false
		columns = []string{"is_public"}
	case models.AnnotationFlagModeratorApproval:
		annotation.IsPublic = true
		annotation.IsRemoved = false
		columns = []string{"is_public", "is_removed"}
	case models.AnnotationFlagModeratorDeletion:
		annotation.IsRemoved = true
		columns = []string{"is_removed"}
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(f).Returning("*").Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		if len(columns) == 0 {
			return nil
		}
		annotation.UpdatedAt = f.FlagDate
		_, err := tx.NewUpdate().
			Model(annotation).
			Column(append(columns, "updated_at")...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		return RecountComments(ctx, tx, annotation.ObjectType, annotation.ObjectID)
	})
	if err != nil {
		return nil, err
	}

	annotation.Flags = append(annotation.Flags, f)
	if len(columns) > 0 {
		svc.reindex(ctx, annotation)
	}
	return f, nil
}

// RecountComments sets an object's comment_count to its number of public,
// non-removed annotations.
func RecountComments(ctx context.Context, db bun.IDB, objectType string, objectID int) error {
	table, ok := commentable.Table(objectType)
	if !ok {
		return errors.Errorf("unknown object type %q", objectType)
	}

	_, err := db.NewRaw(
		fmt.Sprintf("UPDATE %s SET comment_count = (SELECT COUNT(*) FROM annotations WHERE object_type = ? AND object_id = ? AND is_public = 1 AND is_removed = 0) WHERE id = ?", table),
		objectType, objectID, objectID,
	).Exec(ctx)
	return errors.WithStack(err)
}

// ParentURL returns the page an annotation is shown on.
func (svc *Service) ParentURL(ctx context.Context, annotation *models.Annotation) (string, error) {
	parent, err := commentable.Load(ctx, svc.db, annotation.ObjectType, annotation.ObjectID)
	if err != nil {
		return "", err
	}
	return parent.AbsoluteURL(), nil
}

func (svc *Service) reindex(ctx context.Context, annotation *models.Annotation) {
	parentURL, err := svc.ParentURL(ctx, annotation)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to load annotated object", logger.Data{"annotation_id": annotation.ID, "error": err.Error()})
		return
	}
	svc.index(ctx, annotation, parentURL)
}

func (svc *Service) index(ctx context.Context, annotation *models.Annotation, parentURL string) {
	if err := svc.searchService.Index(ctx, svc.db, annotation, search.AnnotationURL(parentURL, annotation)); err != nil {
		logger.FromContext(ctx).Warn("failed to update search index for annotation", logger.Data{"annotation_id": annotation.ID, "error": err.Error()})
	}
}
