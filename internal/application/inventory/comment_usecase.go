package inventory

import (
	"context"
	"errors"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/audit"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

const (
	maxCommentLength = 2000
	commentPageSize  = 50
)

// CommentUseCase bitácora de notas de conteos y ajustes. Solo se agregan; no hay edición ni borrado.
type CommentUseCase struct {
	repos    repository.Repos
	pageSize int
	log      *logger.Logger
}

// NewCommentUseCase construye el caso de uso.
func NewCommentUseCase(repos repository.Repos, log *logger.Logger) *CommentUseCase {
	return &CommentUseCase{repos: repos, pageSize: commentPageSize, log: log}
}

// AddCommentInput entrada.
type AddCommentInput struct {
	ParentType string // CHECK | ADJUSTMENT
	ParentID   string
	AuthorID   string
	Text       string
}

// AddComment agrega una nota al conteo o ajuste indicado.
func (uc *CommentUseCase) AddComment(ctx context.Context, actor audit.Actor, in AddCommentInput) (*entity.Comment, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, domain.Validationf("comment_text requerido")
	}
	if utf8.RuneCountInString(text) > maxCommentLength {
		return nil, domain.Validationf("comment_text supera %d caracteres", maxCommentLength)
	}
	if err := uc.requireParent(ctx, in.ParentType, in.ParentID); err != nil {
		return nil, err
	}
	if _, err := requireEmployee(ctx, uc.repos, in.AuthorID); err != nil {
		return nil, err
	}
	c := &entity.Comment{
		ParentType:  in.ParentType,
		ParentID:    in.ParentID,
		AuthorID:    in.AuthorID,
		CommentText: text,
	}
	if err := uc.repos.Comments().Create(ctx, actor, c); err != nil {
		return nil, err
	}
	uc.log.Debug().Str("parent_type", c.ParentType).Str("parent_id", c.ParentID).Msg("comentario agregado")
	return c, nil
}

// ListComments recorre las notas del padre por CreatedAt ascendente.
// La secuencia es perezosa (lee por páginas) y puede recorrerse de nuevo desde el inicio.
func (uc *CommentUseCase) ListComments(ctx context.Context, parentType, parentID string) iter.Seq2[*entity.Comment, error] {
	return func(yield func(*entity.Comment, error) bool) {
		if err := uc.requireParent(ctx, parentType, parentID); err != nil {
			yield(nil, err)
			return
		}
		q := audit.Where(repository.ColParentType, parentType).
			And(repository.ColParentID, parentID).
			Order(repository.ColCreatedAt, false)
		for offset := 0; ; offset += uc.pageSize {
			page, err := uc.repos.Comments().List(ctx, q.Page(uc.pageSize, offset))
			if err != nil {
				yield(nil, err)
				return
			}
			for _, c := range page {
				if !yield(c, nil) {
					return
				}
			}
			if len(page) < uc.pageSize {
				return
			}
		}
	}
}

func (uc *CommentUseCase) requireParent(ctx context.Context, parentType, parentID string) error {
	var err error
	switch parentType {
	case entity.CommentParentCheck:
		_, err = uc.repos.Checks().GetByID(ctx, parentID)
	case entity.CommentParentAdjustment:
		_, err = uc.repos.Adjustments().GetByID(ctx, parentID)
	default:
		return domain.Validationf("parent_type desconocido %q", parentType)
	}
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrNotFound
	}
	return err
}
