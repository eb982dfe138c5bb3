package inventory_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

func collect(t *testing.T, e *env, parentType, parentID string) []string {
	t.Helper()
	var texts []string
	for c, err := range e.comments.ListComments(context.Background(), parentType, parentID) {
		require.NoError(t, err)
		texts = append(texts, c.CommentText)
	}
	return texts
}

func TestComments_OrdenCronologicoYPaginado(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	inventory.SetCommentPageSize(e.comments, 2)

	check, err := e.checks.Create(ctx, e.actor(), inventory.CreateCheckInput{Name: "c"})
	require.NoError(t, err)
	other, err := e.checks.Create(ctx, e.actor(), inventory.CreateCheckInput{Name: "otro"})
	require.NoError(t, err)

	want := []string{"uno", "dos", "tres", "cuatro", "cinco"}
	for _, text := range want {
		_, err := e.comments.AddComment(ctx, e.actor(), inventory.AddCommentInput{
			ParentType: entity.CommentParentCheck, ParentID: check.ID, AuthorID: e.clerk.ID, Text: text,
		})
		require.NoError(t, err)
	}
	_, err = e.comments.AddComment(ctx, e.actor(), inventory.AddCommentInput{
		ParentType: entity.CommentParentCheck, ParentID: other.ID, AuthorID: e.clerk.ID, Text: "ajeno",
	})
	require.NoError(t, err)

	assert.Equal(t, want, collect(t, e, entity.CommentParentCheck, check.ID))
	assert.Equal(t, want, collect(t, e, entity.CommentParentCheck, check.ID), "la secuencia se puede recorrer de nuevo")
	assert.Equal(t, []string{"ajeno"}, collect(t, e, entity.CommentParentCheck, other.ID))
}

func TestComments_CortarLaIteracion(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	inventory.SetCommentPageSize(e.comments, 2)
	check, err := e.checks.Create(ctx, e.actor(), inventory.CreateCheckInput{Name: "c"})
	require.NoError(t, err)
	for _, text := range []string{"a", "b", "c", "d"} {
		_, err := e.comments.AddComment(ctx, e.actor(), inventory.AddCommentInput{
			ParentType: entity.CommentParentCheck, ParentID: check.ID, AuthorID: e.clerk.ID, Text: text,
		})
		require.NoError(t, err)
	}

	var seen []string
	for c, err := range e.comments.ListComments(ctx, entity.CommentParentCheck, check.ID) {
		require.NoError(t, err)
		seen = append(seen, c.CommentText)
		if len(seen) == 3 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b", "c"}, seen)
}

func TestComments_EnAjuste(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	part := e.part(t, "P-1", 3, entity.CheckScope{})
	adj, err := e.adjustments.Create(ctx, e.actor(), inventory.CreateAdjustmentInput{
		Reason: "r", Items: []inventory.AdjustmentItemInput{{PartID: part.ID, QuantityChange: 1}},
	})
	require.NoError(t, err)

	c, err := e.comments.AddComment(ctx, e.actor(), inventory.AddCommentInput{
		ParentType: entity.CommentParentAdjustment, ParentID: adj.ID, AuthorID: e.manager.ID, Text: "  revisar factura  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "revisar factura", c.CommentText)
	assert.Equal(t, "tester", c.CreatedBy)
	assert.Equal(t, []string{"revisar factura"}, collect(t, e, entity.CommentParentAdjustment, adj.ID))
}

func TestComments_Validaciones(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	check, err := e.checks.Create(ctx, e.actor(), inventory.CreateCheckInput{Name: "c"})
	require.NoError(t, err)
	inactive := e.employee(t, "E-900", "bodeguero", false)

	add := func(parentType, parentID, author, text string) error {
		_, err := e.comments.AddComment(ctx, e.actor(), inventory.AddCommentInput{
			ParentType: parentType, ParentID: parentID, AuthorID: author, Text: text,
		})
		return err
	}

	assert.ErrorIs(t, add(entity.CommentParentCheck, check.ID, e.clerk.ID, "  "), domain.ErrValidation)
	assert.ErrorIs(t, add(entity.CommentParentCheck, check.ID, e.clerk.ID, strings.Repeat("ñ", 2001)), domain.ErrValidation)
	assert.NoError(t, add(entity.CommentParentCheck, check.ID, e.clerk.ID, strings.Repeat("ñ", 2000)), "el límite cuenta caracteres, no bytes")
	assert.ErrorIs(t, add("INVOICE", check.ID, e.clerk.ID, "x"), domain.ErrValidation)
	assert.ErrorIs(t, add(entity.CommentParentCheck, "no-existe", e.clerk.ID, "x"), domain.ErrNotFound)
	assert.ErrorIs(t, add(entity.CommentParentAdjustment, check.ID, e.clerk.ID, "x"), domain.ErrNotFound, "el id debe ser del tipo indicado")
	assert.ErrorIs(t, add(entity.CommentParentCheck, check.ID, inactive.ID, "x"), domain.ErrValidation)

	for _, err := range e.comments.ListComments(ctx, entity.CommentParentCheck, "no-existe") {
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
}
