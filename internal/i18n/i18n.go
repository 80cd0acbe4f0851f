// Package i18n provides interface translations backed by embedded locale
// files. Translations load lazily into a process-wide, language-keyed cache
// that is never invalidated within a process lifetime; the table is bounded
// by the embedded locale set.
package i18n

import (
	"embed"
	"encoding/json"
	"strings"
	"sync"

	"github.com/wildcloud/starter-api/internal/core/domain"
)

//go:embed locales/*.json
var localeFS embed.FS

var (
	mu    sync.RWMutex
	cache = make(map[domain.Language]map[string]any)
)

// T returns the translation for the dotted key in the given language.
// Unknown keys return the key itself; an unknown or unloadable locale falls
// back to the default language.
func T(key string, lang domain.Language) string {
	table := load(lang)
	if v, ok := lookup(table, key); ok {
		return v
	}
	return key
}

// load returns the translation table for lang, reading and caching the
// embedded locale file on first use.
func load(lang domain.Language) map[string]any {
	mu.RLock()
	table, ok := cache[lang]
	mu.RUnlock()
	if ok {
		return table
	}

	mu.Lock()
	defer mu.Unlock()
	if table, ok := cache[lang]; ok {
		return table
	}

	table = parseLocale(lang)
	if table == nil && lang != domain.LanguageZhCN {
		table = parseLocale(domain.LanguageZhCN)
	}
	if table == nil {
		table = map[string]any{}
	}
	cache[lang] = table
	return table
}

func parseLocale(lang domain.Language) map[string]any {
	raw, err := localeFS.ReadFile("locales/" + string(lang) + ".json")
	if err != nil {
		return nil
	}
	var table map[string]any
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil
	}
	return table
}

// lookup resolves a nested dotted key like "common.home".
func lookup(table map[string]any, key string) (string, bool) {
	parts := strings.Split(key, ".")
	var current any = table
	for _, part := range parts {
		m, ok := current.(map[string]any)
		if !ok {
			return "", false
		}
		current, ok = m[part]
		if !ok {
			return "", false
		}
	}
	s, ok := current.(string)
	return s, ok
}
