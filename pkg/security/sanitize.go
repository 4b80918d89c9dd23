package security

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// Active content removed along with its body
	xssPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
		regexp.MustCompile(`(?is)<iframe[^>]*>.*?</iframe>`),
		regexp.MustCompile(`(?i)on\w+\s*=`), // onclick, onload, etc.
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)<embed[^>]*>`),
		regexp.MustCompile(`(?i)<object[^>]*>`),
	}

	htmlTagsRegex    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex  = regexp.MustCompile(`\s+`)
	horizontalSpace  = regexp.MustCompile(`[^\S\n]+`)
	blankLinesRegex  = regexp.MustCompile(`\n{3,}`)
	invalidEmailChar = regexp.MustCompile(`[^a-z0-9._%+\-@]`)
	invalidPhoneChar = regexp.MustCompile(`[^\d+]`)
)

// SanitizeString trims input and drops NUL and control characters other
// than newlines and tabs
func SanitizeString(input string) string {
	return removeControlCharacters(strings.TrimSpace(input))
}

// SanitizeEmail sanitizes and normalizes email addresses
func SanitizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	return invalidEmailChar.ReplaceAllString(email, "")
}

// SanitizePhone keeps digits and a leading plus
func SanitizePhone(phone string) string {
	return invalidPhoneChar.ReplaceAllString(phone, "")
}

// SanitizeText cleans free-form text from lead forms: markup is dropped,
// whitespace collapsed and the result capped at maxLength runes.
func SanitizeText(input string, maxLength int) string {
	return capLength(NormalizeWhitespace(stripMarkup(input)), maxLength)
}

// SanitizeMultiline is SanitizeText for textareas: line breaks survive,
// spaces and tabs within a line are collapsed and at most one blank line is
// kept between paragraphs.
func SanitizeMultiline(input string, maxLength int) string {
	return capLength(NormalizeLines(stripMarkup(input)), maxLength)
}

func stripMarkup(input string) string {
	input = SanitizeString(input)
	for _, pattern := range xssPatterns {
		input = pattern.ReplaceAllString(input, "")
	}
	return StripHTMLTags(input)
}

func capLength(input string, maxLength int) string {
	if maxLength > 0 {
		return TruncateString(input, maxLength)
	}
	return input
}

// SanitizeSearch normalizes a catalog search term
func SanitizeSearch(input string) string {
	return SanitizeText(input, 100)
}

// StripHTMLTags removes all HTML tags from input
func StripHTMLTags(input string) string {
	return htmlTagsRegex.ReplaceAllString(input, "")
}

// removeControlCharacters removes control characters except newlines and tabs
func removeControlCharacters(input string) string {
	var result strings.Builder
	for _, r := range input {
		if unicode.IsPrint(r) || r == '\n' || r == '\t' {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// TruncateString truncates a string to at most maxLength runes
func TruncateString(input string, maxLength int) string {
	runes := []rune(input)
	if len(runes) <= maxLength {
		return input
	}
	return string(runes[:maxLength])
}

// NormalizeWhitespace collapses runs of whitespace and trims the ends
func NormalizeWhitespace(input string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(input, " "))
}

// NormalizeLines collapses horizontal whitespace and trims each line
func NormalizeLines(input string) string {
	lines := strings.Split(input, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(horizontalSpace.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(blankLinesRegex.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}
