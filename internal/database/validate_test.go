package database

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/dbcentral/internal/entities"
)

func validationFields(err error) []string {
	var fields []string
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			var verr *ValidationError
			if errors.As(e, &verr) {
				fields = append(fields, verr.Field)
			}
		}
	}
	return fields
}

func TestValidate_Book(t *testing.T) {
	err := Validate(&entities.Book{Title: " ", Content: "", AuthorID: 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.ElementsMatch(t, []string{"title", "content", "author_id"}, validationFields(err))
}

func TestValidate_BookTitleLength(t *testing.T) {
	book := &entities.Book{Title: strings.Repeat("t", entities.BookTitleMaxLength), Content: "C", AuthorID: 1}
	require.NoError(t, Validate(book))

	book.Title += "t"
	err := Validate(book)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "title", verr.Field)
	assert.Equal(t, "cannot exceed 200 characters", verr.Reason)
}

func TestValidate_Normalizes(t *testing.T) {
	author := &entities.Author{Name: "\tJane Doe\n", Email: "  jane@example.com"}
	require.NoError(t, Validate(author))
	assert.Equal(t, "Jane Doe", author.Name)
	assert.Equal(t, "jane@example.com", author.Email)
}

func TestValidate_Nil(t *testing.T) {
	assert.ErrorIs(t, Validate(nil), ErrValidation)

	var author *entities.Author
	assert.ErrorIs(t, Validate(author), ErrValidation)
}
