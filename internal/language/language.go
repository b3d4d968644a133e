package language

import (
	"strings"

	xlang "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var namer = display.English.Languages()

// Normalize parses a BCP 47 tag, ISO 639-1/639-2 code or English language
// name and returns its base language code ("en", "fr"). Unknown input is
// returned lowercased and trimmed.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if tag, ok := byName[code]; ok {
		return tag.String()
	}
	tag, err := xlang.Parse(code)
	if err != nil {
		return code
	}
	base, conf := tag.Base()
	if conf == xlang.No {
		return code
	}
	return base.String()
}

// DisplayName returns the English name of a language code, or the code
// itself when it is not recognized.
func DisplayName(code string) string {
	normalized := Normalize(code)
	if normalized == "" {
		return ""
	}
	tag, err := xlang.Parse(normalized)
	if err != nil {
		return code
	}
	if name := namer.Name(tag); name != "" {
		return name
	}
	return code
}

// byName accepts the English names transcription services commonly report
// instead of codes.
var byName = func() map[string]xlang.Tag {
	tags := []xlang.Tag{
		xlang.English, xlang.Spanish, xlang.French, xlang.German, xlang.Italian,
		xlang.Portuguese, xlang.Japanese, xlang.Korean, xlang.Chinese, xlang.Russian,
		xlang.Arabic, xlang.Hindi, xlang.Dutch, xlang.Polish, xlang.Swedish,
		xlang.Danish, xlang.Norwegian, xlang.Finnish,
	}
	out := make(map[string]xlang.Tag, len(tags))
	for _, tag := range tags {
		out[strings.ToLower(namer.Name(tag))] = tag
	}
	return out
}()
