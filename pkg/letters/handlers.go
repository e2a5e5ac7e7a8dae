package letters

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pepysdiary/pepysdiary/pkg/annotations"
	"github.com/pepysdiary/pepysdiary/pkg/errcodes"
	"github.com/pepysdiary/pepysdiary/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	letterService     *Service
	annotationService *annotations.Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListLettersQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	letters, total, err := h.letterService.ListLettersWithTotal(ctx, ListLettersOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
		Person: params.Person,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, &ListLettersResponse{Letters: letters, Total: total}))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	date, ok := models.ParseDatePath(c.Param("year"), c.Param("month"), c.Param("day"))
	if !ok {
		return errcodes.NotFound("Letter")
	}
	slug := c.Param("slug")

	letter, err := h.letterService.RetrieveLetter(ctx, RetrieveLetterOptions{Date: &date, Slug: &slug})
	if err != nil {
		return errors.WithStack(err)
	}

	previous, next, err := h.letterService.NeighbourLetters(ctx, letter)
	if err != nil {
		return errors.WithStack(err)
	}

	notes, err := h.annotationService.ListVisibleAnnotations(ctx, letter)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, &LetterResponse{
		Letter:      letter,
		URL:         letter.AbsoluteURL(),
		Previous:    newLetterLink(previous),
		Next:        newLetterLink(next),
		Annotations: notes,
	}))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateLetterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	date, err := time.Parse("2006-01-02", params.LetterDate)
	if err != nil {
		return errcodes.ValidationError("letter_date must be YYYY-MM-DD.")
	}

	letter := &models.Letter{
		Title:         params.Title,
		Slug:          params.Slug,
		LetterDate:    date,
		Sender:        params.Sender,
		Recipient:     params.Recipient,
		Text:          params.Text,
		Footnotes:     params.Footnotes,
		AllowComments: params.AllowComments == nil || *params.AllowComments,
	}
	if err := h.letterService.CreateLetter(ctx, letter); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, letter))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Letter")
	}

	params := UpdateLetterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	letter, err := h.letterService.RetrieveLetter(ctx, RetrieveLetterOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateLetterOptions{Columns: []string{}}
	if params.Title != nil && *params.Title != letter.Title {
		letter.Title = *params.Title
		opts.Columns = append(opts.Columns, "title")
	}
	if params.Slug != nil && *params.Slug != letter.Slug {
		letter.Slug = *params.Slug
		opts.Columns = append(opts.Columns, "slug")
	}
	if params.Sender != nil && *params.Sender != letter.Sender {
		letter.Sender = *params.Sender
		opts.Columns = append(opts.Columns, "sender")
	}
	if params.Recipient != nil && *params.Recipient != letter.Recipient {
		letter.Recipient = *params.Recipient
		opts.Columns = append(opts.Columns, "recipient")
	}
	if params.Text != nil && *params.Text != letter.Text {
		letter.Text = *params.Text
		opts.Columns = append(opts.Columns, "text")
	}
	if params.Footnotes != nil && *params.Footnotes != letter.Footnotes {
		letter.Footnotes = *params.Footnotes
		opts.Columns = append(opts.Columns, "footnotes")
	}
	if params.AllowComments != nil && *params.AllowComments != letter.AllowComments {
		letter.AllowComments = *params.AllowComments
		opts.Columns = append(opts.Columns, "allow_comments")
	}

	if err := h.letterService.UpdateLetter(ctx, letter, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, letter))
}
