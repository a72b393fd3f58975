package notice

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shopsearch/internal/apis/shopping"
	"shopsearch/internal/apis/shopping/endpoints"
	"shopsearch/internal/apis/shopping/usecases"
)

func TestExpired(t *testing.T) {
	n := New(Success, "ok")
	assert.False(t, n.Expired(n.Created.Add(Lifetime-time.Millisecond)))
	assert.True(t, n.Expired(n.Created.Add(Lifetime)))
	assert.True(t, Notice{}.IsZero())
}

func TestValidation(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: usecases.ErrQueryRequired, want: "Please enter a search query"},
		{err: fmt.Errorf("wrapped: %w", usecases.ErrCountryRequired), want: "Please select a country"},
		{err: usecases.ErrProductIDRequired, want: "Please select a product"},
	}
	for _, tt := range tests {
		n, ok := Validation(tt.err, Warning)
		assert.True(t, ok)
		assert.Equal(t, tt.want, n.Message)
		assert.Equal(t, Warning, n.Kind)
	}

	_, ok := Validation(errors.New("other"), Warning)
	assert.False(t, ok)
}

func TestSearchFound(t *testing.T) {
	res := usecases.SearchResult{
		Multi:  make([]shopping.ProductSummary, 3),
		Single: make([]shopping.ProductSummary, 2),
	}
	n := SearchFound(res)
	assert.Equal(t, Success, n.Kind)
	assert.Equal(t, "Found 5 products (3 multiple-source, 2 single-source)", n.Message)
}

func TestSearchFailed(t *testing.T) {
	n := SearchFailed(usecases.ErrQueryRequired)
	assert.Equal(t, Warning, n.Kind)
	assert.Equal(t, "Please enter a search query", n.Message)

	n = SearchFailed(&usecases.SearchError{Message: "quota exceeded"})
	assert.Equal(t, Error, n.Kind)
	assert.Equal(t, "Search failed: quota exceeded", n.Message)
}

func TestTranslationFailed(t *testing.T) {
	server := &usecases.ActionError{
		Message: "no translator",
		Err:     &endpoints.APIError{Status: 500, Message: "no translator"},
	}
	assert.Equal(t, "no translator", TranslationFailed(server).Message)

	offline := &usecases.ActionError{Message: "dial tcp: refused", Err: errors.New("dial tcp: refused")}
	assert.Equal(t, "Translation failed. Please try again.", TranslationFailed(offline).Message)

	assert.Equal(t, "Please select a country", TranslationFailed(usecases.ErrCountryRequired).Message)
}

func TestFailedPrefix(t *testing.T) {
	same := &usecases.ActionError{Message: "Failed to save products"}
	assert.Equal(t, "Failed to save products", SaveProductsFailed(same).Message)

	detailed := &usecases.ActionError{Message: "disk full"}
	assert.Equal(t, "Failed to save product: disk full", SaveProductFailed(detailed).Message)

	assert.Equal(t, "Export failed", ExportFailed(&usecases.ActionError{Message: ""}).Message)
	assert.Equal(t, "Failed to clear data: locked", ClearFailed(errors.New("locked")).Message)
}

func TestSaved(t *testing.T) {
	res := usecases.SaveResult{Saved: 3, TotalSaved: 9}
	assert.Equal(t, "Product saved to Excel! (9 items total)", ProductSaved(res).Message)
	assert.Equal(t, "3 seller entries saved to Excel! (9 items total)", SellerRowsSaved(res).Message)
}

func TestDetailFailed_ServerMessage(t *testing.T) {
	err := fmt.Errorf("fetch: %w", &endpoints.APIError{Status: 404, Message: "Product not found"})
	assert.Equal(t, "Product not found", DetailFailed(err).Message)
}
