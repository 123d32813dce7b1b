package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMapStoreError(t *testing.T) {
	assert.NoError(t, mapStoreError(nil, "slug"))
	assert.ErrorIs(t, mapStoreError(gorm.ErrRecordNotFound, "slug"), ErrNotFound)
	assert.ErrorIs(t, mapStoreError(fmt.Errorf("wrapped: %w", gorm.ErrRecordNotFound), "slug"), ErrNotFound)

	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "idx_products_slug"})
	var vErr *ValidationError
	require.ErrorAs(t, mapStoreError(unique, "slug"), &vErr)
	require.Len(t, vErr.Fields, 1)
	assert.Equal(t, "slug", vErr.Fields[0].Field)
	assert.Equal(t, "unique", vErr.Fields[0].Tag)

	other := errors.New("connection reset")
	assert.Same(t, other, mapStoreError(other, "slug"))
}

func TestValidateWrapsFieldErrors(t *testing.T) {
	err := validate(&CreateReviewRequest{ProductID: "x", Name: "Ali", Phone: "912345678", Rating: 5, Comment: "Zo'r"})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	fields := map[string]bool{}
	for _, f := range vErr.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["phone"])
}

func TestTypedErrorMessages(t *testing.T) {
	assert.Equal(t, "category has 3 active products", (&HasDependentsError{Count: 3}).Error())
	assert.Equal(t, "2 categories still have active products",
		(&BlockedCategoriesError{Categories: make([]BlockedCategory, 2)}).Error())
	assert.Equal(t, "validation failed: bad", (&ValidationError{Message: "bad"}).Error())
}
