package domain

// Language is an interface language code.
type Language string

const (
	LanguageZhCN Language = "zh-CN"
	LanguageEN   Language = "en"
)

// SupportedLanguages lists every language the interface ships translations
// for, in display order.
var SupportedLanguages = []Language{LanguageZhCN, LanguageEN}

// IsSupportedLanguage reports whether code is one of SupportedLanguages.
func IsSupportedLanguage(code string) bool {
	for _, l := range SupportedLanguages {
		if string(l) == code {
			return true
		}
	}
	return false
}
