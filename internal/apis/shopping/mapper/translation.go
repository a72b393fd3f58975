package mapper

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"shopsearch/internal/apis/shopping"
)

type TranslationView struct {
	Original   string
	Translated string
	// Label reads "Translated to <country> (<language>)".
	Label string
}

func ToTranslationView(tr shopping.Translation) TranslationView {
	return TranslationView{
		Original:   tr.OriginalQuery,
		Translated: tr.TranslatedQuery,
		Label:      fmt.Sprintf("Translated to %s (%s)", tr.Geolocation.Name, LanguageName(tr.TargetLanguage)),
	}
}

// LanguageName renders a language code such as "ja" or "pt-BR" as its
// English name. Anything that is not a well-formed tag is returned as is,
// since the backend may already send a display name.
func LanguageName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil || tag == language.Und {
		return code
	}
	name := display.English.Tags().Name(tag)
	if name == "" {
		return code
	}
	return name
}
