package prisma

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var isoDateTimeRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?Z?$`)

// IsISODateTime reports whether s is a combined ISO-8601 date-time of the
// form YYYY-MM-DDTHH:MM:SS[.fraction][Z].
func IsISODateTime(s string) bool {
	return isoDateTimeRegex.MatchString(s)
}

// IsSnakeCase reports whether s contains an underscore.
func IsSnakeCase(s string) bool {
	return strings.Contains(s, "_")
}

// Capitalize upper-cases the first character of s and leaves the rest as is.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// LowerFirst lower-cases the first character of s and leaves the rest as is.
func LowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// ChildModelName is the name of the model factored out of field on parent.
func ChildModelName(parent, field string) string {
	return Capitalize(parent) + Capitalize(field)
}

// ForeignKeyName is the foreign key a child model carries back to parent.
func ForeignKeyName(parent string) string {
	return LowerFirst(parent) + "Id"
}

// CamelCase converts a snake_case key to lowerCamel form. Leading and
// repeated underscores are dropped; keys without underscores are returned
// unchanged.
func CamelCase(s string) string {
	if !IsSnakeCase(s) {
		return s
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '_' })
	if len(parts) == 0 {
		return s
	}
	// Casers are stateful, so each call gets its own.
	title := cases.Title(language.Und)
	var b strings.Builder
	b.WriteString(LowerFirst(parts[0]))
	for _, p := range parts[1:] {
		b.WriteString(title.String(p))
	}
	return b.String()
}
