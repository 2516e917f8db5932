package model

import "fmt"

// DefaultLanguage is used when a request does not specify a language.
const DefaultLanguage = "en"

// Language holds the display name and the region-qualified synthesis code
// for one supported two-letter language code.
type Language struct {
	Code          string `json:"code"`           // e.g. "te"
	Name          string `json:"name"`           // e.g. "Telugu"
	SynthesisCode string `json:"synthesis_code"` // e.g. "te-IN"
}

// UnsupportedLanguageError indicates a language code outside the allow-list.
type UnsupportedLanguageError struct {
	Code string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("language %q is not supported (allowed: %v)", e.Code, LanguageCodes())
}

// languages is the single allow-list shared by the summarization and
// synthesis stages. Both stages must reject the same codes identically.
var languages = map[string]Language{
	"en": {Code: "en", Name: "English", SynthesisCode: "en-IN"},
	"hi": {Code: "hi", Name: "Hindi", SynthesisCode: "hi-IN"},
	"te": {Code: "te", Name: "Telugu", SynthesisCode: "te-IN"},
	"ta": {Code: "ta", Name: "Tamil", SynthesisCode: "ta-IN"},
	"bn": {Code: "bn", Name: "Bengali", SynthesisCode: "bn-IN"},
	"mr": {Code: "mr", Name: "Marathi", SynthesisCode: "mr-IN"},
	"gu": {Code: "gu", Name: "Gujarati", SynthesisCode: "gu-IN"},
	"kn": {Code: "kn", Name: "Kannada", SynthesisCode: "kn-IN"},
	"ml": {Code: "ml", Name: "Malayalam", SynthesisCode: "ml-IN"},
	"pa": {Code: "pa", Name: "Punjabi", SynthesisCode: "pa-IN"},
}

// languageOrder keeps listing output stable for the API and for error messages.
var languageOrder = []string{"en", "hi", "te", "ta", "bn", "mr", "gu", "kn", "ml", "pa"}

// LanguageByCode resolves a two-letter code against the allow-list.
// Unknown codes fail with UnsupportedLanguageError, never a silent default.
func LanguageByCode(code string) (Language, error) {
	if code == "" {
		code = DefaultLanguage
	}
	lang, ok := languages[code]
	if !ok {
		return Language{}, &UnsupportedLanguageError{Code: code}
	}
	return lang, nil
}

// Languages returns all supported languages in stable order.
func Languages() []Language {
	out := make([]Language, 0, len(languageOrder))
	for _, code := range languageOrder {
		out = append(out, languages[code])
	}
	return out
}

// LanguageCodes returns the supported two-letter codes in stable order.
func LanguageCodes() []string {
	out := make([]string, 0, len(languageOrder))
	out = append(out, languageOrder...)
	return out
}
