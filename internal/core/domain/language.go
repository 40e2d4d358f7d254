package domain

const unknownDescription = "Unknown"

// Language identifies an answer delivery language.
type Language string

// Supported languages. English is the generation language; French and
// Spanish are produced by translating the generated answer.
const (
	// LanguageEnglish delivers answers as generated.
	LanguageEnglish Language = "english"

	// LanguageFrench translates answers to French.
	LanguageFrench Language = "french"

	// LanguageSpanish translates answers to Spanish.
	LanguageSpanish Language = "spanish"
)

// IsValid returns true if the language is recognised.
func (l Language) IsValid() bool {
	switch l {
	case LanguageEnglish, LanguageFrench, LanguageSpanish:
		return true
	default:
		return false
	}
}

// NeedsTranslation returns true if answers must be translated before delivery.
func (l Language) NeedsTranslation() bool {
	return l == LanguageFrench || l == LanguageSpanish
}

// Tag returns the BCP 47 language tag used by speech synthesis.
func (l Language) Tag() string {
	switch l {
	case LanguageEnglish:
		return "en-US"
	case LanguageFrench:
		return "fr-FR"
	case LanguageSpanish:
		return "es-ES"
	default:
		return ""
	}
}

// String returns the string representation.
func (l Language) String() string {
	return string(l)
}

// Description returns a human-readable description of the language.
func (l Language) Description() string {
	switch l {
	case LanguageEnglish:
		return "English"
	case LanguageFrench:
		return "French"
	case LanguageSpanish:
		return "Spanish"
	default:
		return unknownDescription
	}
}

// ParseLanguage maps user input ("English", "fr-FR", "spanish") to a Language.
func ParseLanguage(s string) (Language, bool) {
	switch s {
	case "english", "English", "en", "en-US":
		return LanguageEnglish, true
	case "french", "French", "fr", "fr-FR":
		return LanguageFrench, true
	case "spanish", "Spanish", "es", "es-ES":
		return LanguageSpanish, true
	default:
		return "", false
	}
}
