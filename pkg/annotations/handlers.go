package annotations

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pepysdiary/pepysdiary/pkg/commentable"
	"github.com/pepysdiary/pepysdiary/pkg/errcodes"
	"github.com/pepysdiary/pepysdiary/pkg/models"
	"github.com/pepysdiary/pepysdiary/pkg/search"
	"github.com/pkg/errors"
)

type handler struct {
	annotationService *Service
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateAnnotationPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	annotation := &models.Annotation{
		ObjectType: params.ObjectType,
		ObjectID:   params.ObjectID,
		UserName:   params.UserName,
		UserEmail:  params.UserEmail,
		UserURL:    params.UserURL,
		Comment:    params.Comment,
	}

	req := c.Request()
	err := h.annotationService.CreateAnnotation(ctx, annotation, RequestMeta{
		IP:        c.RealIP(),
		UserAgent: req.UserAgent(),
		Referrer:  req.Referer(),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	parentURL, err := h.annotationService.ParentURL(ctx, annotation)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, &AnnotationResponse{
		Annotation: annotation,
		URL:        search.AnnotationURL(parentURL, annotation),
	}))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListAnnotationsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	parent, err := commentable.Load(ctx, h.annotationService.db, params.ObjectType, params.ObjectID)
	if err != nil {
		return errors.WithStack(err)
	}

	annotations, err := h.annotationService.ListVisibleAnnotations(ctx, parent)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := &ListAnnotationsResponse{Annotations: make([]*AnnotationResponse, 0, len(annotations)), Total: len(annotations)}
	for _, a := range annotations {
		resp.Annotations = append(resp.Annotations, &AnnotationResponse{
			Annotation: a,
			URL:        search.AnnotationURL(parent.AbsoluteURL(), a),
		})
	}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) recent(c echo.Context) error {
	ctx := c.Request().Context()

	params := RecentAnnotationsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	annotations, err := h.annotationService.ListAnnotations(ctx, ListAnnotationsOptions{
		VisibleOnly: true,
		Latest:      true,
		Limit:       &params.Limit,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	responses, err := h.withURLs(c, annotations)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, &ListAnnotationsResponse{Annotations: responses, Total: len(responses)}))
}

func (h *handler) adminList(c echo.Context) error {
	ctx := c.Request().Context()

	params := AdminListAnnotationsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	annotations, total, err := h.annotationService.ListAnnotationsWithTotal(ctx, ListAnnotationsOptions{
		Limit:      &params.Limit,
		Offset:     &params.Offset,
		ObjectType: params.ObjectType,
		ObjectID:   params.ObjectID,
		IsPublic:   params.IsPublic,
		IsRemoved:  params.IsRemoved,
		Latest:     true,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	responses, err := h.withURLs(c, annotations)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, &ListAnnotationsResponse{Annotations: responses, Total: total}))
}

func (h *handler) adminUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Annotation")
	}

	params := UpdateAnnotationPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	annotation, err := h.annotationService.RetrieveAnnotation(ctx, RetrieveAnnotationOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateAnnotationOptions{Columns: []string{}}
	if params.UserName != nil && *params.UserName != annotation.UserName {
		annotation.UserName = *params.UserName
		opts.Columns = append(opts.Columns, "user_name")
	}
	if params.UserURL != nil && *params.UserURL != annotation.UserURL {
		annotation.UserURL = *params.UserURL
		opts.Columns = append(opts.Columns, "user_url")
	}
	if params.Comment != nil && *params.Comment != annotation.Comment {
		annotation.Comment = *params.Comment
		opts.Columns = append(opts.Columns, "comment")
	}
	if params.IsPublic != nil && *params.IsPublic != annotation.IsPublic {
		annotation.IsPublic = *params.IsPublic
		opts.Columns = append(opts.Columns, "is_public")
	}
	if params.IsRemoved != nil && *params.IsRemoved != annotation.IsRemoved {
		annotation.IsRemoved = *params.IsRemoved
		opts.Columns = append(opts.Columns, "is_removed")
	}

	if err := h.annotationService.UpdateAnnotation(ctx, annotation, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, annotation))
}

func (h *handler) adminFlag(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Annotation")
	}

	params := CreateFlagPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	annotation, err := h.annotationService.RetrieveAnnotation(ctx, RetrieveAnnotationOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	if _, err := h.annotationService.AddFlag(ctx, annotation, params.Flag, params.FlaggedBy); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, annotation))
}

// withURLs pairs each annotation with its link, loading each annotated object
// once.
func (h *handler) withURLs(c echo.Context, annotations []*models.Annotation) ([]*AnnotationResponse, error) {
	ctx := c.Request().Context()
	parentURLs := map[string]string{}
	responses := make([]*AnnotationResponse, 0, len(annotations))

	for _, a := range annotations {
		key := a.ObjectType + ":" + strconv.Itoa(a.ObjectID)
		parentURL, ok := parentURLs[key]
		if !ok {
			var err error
			parentURL, err = h.annotationService.ParentURL(ctx, a)
			if err != nil {
				return nil, err
			}
			parentURLs[key] = parentURL
		}
		responses = append(responses, &AnnotationResponse{
			Annotation: a,
			URL:        search.AnnotationURL(parentURL, a),
		})
	}
	return responses, nil
}
