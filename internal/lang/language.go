package lang

import (
	"fmt"
	"strings"
)

// Auto is the sentinel accepted in place of a language code to let the
// model detect the spoken language on its own.
const Auto = "auto"

// validLanguages contains ISO 639-1 codes accepted by Whisper-family models.
// Not exhaustive; covers the languages Whisper reports reasonable accuracy for.
var validLanguages = map[string]string{
	"af": "Afrikaans",
	"ar": "Arabic",
	"bg": "Bulgarian",
	"bn": "Bengali",
	"ca": "Catalan",
	"cs": "Czech",
	"cy": "Welsh",
	"da": "Danish",
	"de": "German",
	"el": "Greek",
	"en": "English",
	"es": "Spanish",
	"et": "Estonian",
	"eu": "Basque",
	"fa": "Persian",
	"fi": "Finnish",
	"fr": "French",
	"gl": "Galician",
	"he": "Hebrew",
	"hi": "Hindi",
	"hr": "Croatian",
	"hu": "Hungarian",
	"hy": "Armenian",
	"id": "Indonesian",
	"is": "Icelandic",
	"it": "Italian",
	"ja": "Japanese",
	"kk": "Kazakh",
	"kn": "Kannada",
	"ko": "Korean",
	"lt": "Lithuanian",
	"lv": "Latvian",
	"mk": "Macedonian",
	"mr": "Marathi",
	"ms": "Malay",
	"ne": "Nepali",
	"nl": "Dutch",
	"no": "Norwegian",
	"pl": "Polish",
	"pt": "Portuguese",
	"ro": "Romanian",
	"ru": "Russian",
	"sk": "Slovak",
	"sl": "Slovenian",
	"sr": "Serbian",
	"sv": "Swedish",
	"sw": "Swahili",
	"ta": "Tamil",
	"th": "Thai",
	"tl": "Tagalog",
	"tr": "Turkish",
	"uk": "Ukrainian",
	"ur": "Urdu",
	"vi": "Vietnamese",
	"zh": "Chinese",
}

// Normalize normalizes a language code to lowercase with hyphen separator.
// Accepts: "pt-BR", "pt_BR", "PT-BR", " pt-br " -> "pt-br"
func Normalize(lang string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(lang), "_", "-"))
}

// IsAuto reports whether lang asks for automatic language detection.
// Both the empty string and the "auto" sentinel qualify.
func IsAuto(lang string) bool {
	n := Normalize(lang)
	return n == "" || n == Auto
}

// Validate checks if the language code is valid.
// Accepts ISO 639-1 codes (e.g., "en", "fr"), locales (e.g., "pt-BR")
// and the auto-detect sentinel.
func Validate(lang string) error {
	if IsAuto(lang) {
		return nil
	}

	if _, ok := validLanguages[BaseCode(lang)]; !ok {
		return fmt.Errorf("invalid language code %q (use ISO 639-1 codes like 'en', 'fr', 'pt-BR', or %q): %w",
			lang, Auto, ErrInvalid)
	}
	return nil
}

// BaseCode extracts the ISO 639-1 base language code from a locale.
// Model backends only accept base codes, not regional variants.
// Returns "" for auto-detect.
// Examples: "pt-BR" -> "pt", "zh-CN" -> "zh", "auto" -> ""
func BaseCode(lang string) string {
	if IsAuto(lang) {
		return ""
	}
	normalized := Normalize(lang)
	if idx := strings.Index(normalized, "-"); idx != -1 {
		return normalized[:idx]
	}
	return normalized
}

// DisplayName returns a human-readable name for the language, used in the
// startup banner. Falls back to the code itself for unknown codes.
func DisplayName(lang string) string {
	if IsAuto(lang) {
		return "auto-detect"
	}
	if name, ok := validLanguages[BaseCode(lang)]; ok {
		return name
	}
	return lang
}
