// Package notice holds the short user-facing messages shown after an action.
package notice

import (
	"errors"
	"fmt"
	"time"

	"shopsearch/internal/apis/shopping/endpoints"
	"shopsearch/internal/apis/shopping/usecases"
)

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Warning Kind = "warning"
)

// Lifetime is how long a notice stays visible.
const Lifetime = 5 * time.Second

type Notice struct {
	Kind    Kind
	Message string
	Created time.Time
}

func New(kind Kind, msg string) Notice {
	return Notice{Kind: kind, Message: msg, Created: time.Now()}
}

func (n Notice) Expired(now time.Time) bool {
	return now.Sub(n.Created) >= Lifetime
}

func (n Notice) IsZero() bool { return n.Message == "" }

// Validation maps input errors to their prompt. ok is false for any other
// error.
func Validation(err error, kind Kind) (Notice, bool) {
	switch {
	case errors.Is(err, usecases.ErrQueryRequired):
		return New(kind, "Please enter a search query"), true
	case errors.Is(err, usecases.ErrCountryRequired):
		return New(kind, "Please select a country"), true
	case errors.Is(err, usecases.ErrProductIDRequired):
		return New(kind, "Please select a product"), true
	}
	return Notice{}, false
}

func CountriesFailed() Notice {
	return New(Error, "Failed to load countries")
}

func SearchFound(res usecases.SearchResult) Notice {
	return New(Success, fmt.Sprintf("Found %d products (%d multiple-source, %d single-source)",
		res.Total(), len(res.Multi), len(res.Single)))
}

func SearchFailed(err error) Notice {
	if n, ok := Validation(err, Warning); ok {
		return n
	}
	return New(Error, "Search failed: "+message(err))
}

func TranslationDone() Notice {
	return New(Success, "Translation completed")
}

// TranslationFailed shows the server text when the backend answered, and a
// retry hint when it could not be reached.
func TranslationFailed(err error) Notice {
	if n, ok := Validation(err, Error); ok {
		return n
	}
	var apiErr *endpoints.APIError
	if errors.As(err, &apiErr) {
		return New(Error, message(err))
	}
	return New(Error, "Translation failed. Please try again.")
}

func NoTranslation() Notice {
	return New(Error, "No translation to copy")
}

func DetailFailed(err error) Notice {
	return New(Error, message(err))
}

func NothingToSave() Notice {
	return New(Warning, "No product details to save")
}

func ProductSaved(res usecases.SaveResult) Notice {
	return New(Success, fmt.Sprintf("Product saved to Excel! (%d items total)", res.TotalSaved))
}

func SellerRowsSaved(res usecases.SaveResult) Notice {
	return New(Success, fmt.Sprintf("%d seller entries saved to Excel! (%d items total)", res.Saved, res.TotalSaved))
}

func SaveProductFailed(err error) Notice {
	return failed("Failed to save product", err)
}

func SaveProductsFailed(err error) Notice {
	return failed("Failed to save products", err)
}

func Exported() Notice {
	return New(Success, "Excel file exported successfully!")
}

func ExportFailed(err error) Notice {
	return failed("Export failed", err)
}

func Cleared() Notice {
	return New(Success, "Excel data cleared successfully!")
}

func ClearFailed(err error) Notice {
	return failed("Failed to clear data", err)
}

func ClearNotConfirmed() Notice {
	return New(Warning, "Are you sure you want to clear all saved data?")
}

func failed(prefix string, err error) Notice {
	msg := message(err)
	if msg == "" || msg == prefix {
		return New(Error, prefix)
	}
	return New(Error, prefix+": "+msg)
}

func message(err error) string {
	if err == nil {
		return ""
	}
	var se *usecases.SearchError
	if errors.As(err, &se) {
		return se.Message
	}
	var ae *usecases.ActionError
	if errors.As(err, &ae) {
		return ae.Message
	}
	if msg, ok := endpoints.Message(err); ok {
		return msg
	}
	return err.Error()
}
