package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundErrorIs(t *testing.T) {
	err := fmt.Errorf("lookup: %w", NewNotFoundError("method", "ISteamUser/Nope"))
	assert.True(t, Is(err, ErrNotFound))
	assert.Equal(t, "lookup: method ISteamUser/Nope not found", err.Error())
}

func TestUserFriendlyError(t *testing.T) {
	cause := fmt.Errorf("open api.json: no such file or directory")
	err := WrapCatalogError(cause, "api.json")

	var uf UserFriendlyError
	assert.True(t, As(err, &uf))
	assert.Contains(t, err.Error(), "Failed to load catalog from api.json")
	assert.Contains(t, err.Error(), "Reason: file does not exist")
	assert.Contains(t, err.Error(), "Details: open api.json")
	assert.True(t, Is(err, cause))

	assert.Nil(t, WrapCatalogError(nil, "x"))
	assert.Nil(t, WrapLookupError(nil, "x"))
}

func TestWrapCatalogErrorEmpty(t *testing.T) {
	err := WrapCatalogError(fmt.Errorf("decode: %w", ErrEmptyCatalog), "x.yaml")
	assert.Contains(t, err.Error(), "source contains no interfaces")
	assert.True(t, Is(err, ErrEmptyCatalog))
}
