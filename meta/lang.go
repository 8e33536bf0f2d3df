package meta

import (
	"context"
	"sync"

	"golang.org/x/text/language"
)

//nolint:gochecknoglobals // for minimizing dependency injection across codebase
var (
	langMapOnce sync.Once
	langMap     map[string]map[string]string
	defaultLang string
	matcher     language.Matcher
	supported   []string
)

// SetLanguageMap sets the translation table and the default language.
// The table is keyed by language (e.g. "en", "fi") and then by message code.
// Only the first call takes effect.
func SetLanguageMap(m map[string]map[string]string, defLang string) {
	langMapOnce.Do(func() {
		langMap = m
		defaultLang = defLang

		tags := []language.Tag{language.Make(defLang)}
		supported = []string{defLang}
		for lang := range m {
			if lang == defLang {
				continue
			}
			tags = append(tags, language.Make(lang))
			supported = append(supported, lang)
		}
		matcher = language.NewMatcher(tags)
	})
}

// MatchLanguage picks the best supported language for an Accept-Language header value.
// Falls back to the default language.
func MatchLanguage(header string) string {
	if matcher == nil || header == "" {
		return defaultLang
	}

	prefs, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(prefs) == 0 {
		return defaultLang
	}

	_, idx, conf := matcher.Match(prefs...)
	if conf == language.No {
		return defaultLang
	}
	return supported[idx]
}

// Lookup returns the translation of text for the given Accept-Language value,
// falling back to the default language. ok is false when neither table has it.
func Lookup(text, acceptLanguage string) (string, bool) {
	if m, found := langMap[MatchLanguage(acceptLanguage)]; found {
		if res := m[text]; res != "" {
			return res, true
		}
	}

	if res := langMap[defaultLang][text]; res != "" {
		return res, true
	}

	return "", false
}

// Tr returns the translated text for the given Accept-Language value,
// or the text itself when it has no translation.
func Tr(text, acceptLanguage string) string {
	if res, ok := Lookup(text, acceptLanguage); ok {
		return res
	}
	return text
}

// TrCtx returns the translated text using the language from the request context.
func TrCtx(ctx context.Context, text string) string {
	return Tr(text, Find(ctx, AcceptLanguage))
}
