package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/shelfmate/shelfmate/internal/core"
)

// snippetLen bounds how much of an unparseable response is carried in the
// resulting ParseError.
const snippetLen = 200

var fenceRe = regexp.MustCompile("```json\\s*|\\s*```")

// Parse turns a raw model response into a normalized BookRecord. The text
// may be wrapped in markdown code fences or surrounded by prose; both are
// tolerated. It never substitutes a title for not-found records, that is
// the caller's responsibility.
func Parse(raw string) (core.BookRecord, error) {
	text := strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))

	fields, err := decodeObject(text)
	if err != nil {
		// Fall back to the outermost {...} substring only.
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start == -1 || end <= start {
			return core.BookRecord{}, &core.ParseError{Snippet: snippet(raw)}
		}
		fields, err = decodeObject(text[start : end+1])
		if err != nil {
			return core.BookRecord{}, &core.ParseError{Snippet: snippet(raw)}
		}
	}

	return buildRecord(fields), nil
}

// decodeObject is a strict decode: exactly one JSON object, nothing after.
func decodeObject(text string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON object")
	}
	return fields, nil
}

func buildRecord(fields map[string]any) core.BookRecord {
	rec := core.BookRecord{
		Title:          textValue(fields["title"]),
		Author:         textValue(fields["author"]),
		Publisher:      textValue(fields["publisher"]),
		Year:           textValue(fields["year"]),
		ISBN:           textValue(fields["isbn"]),
		Description:    textValue(fields["description"]),
		Summary:        textValue(fields["summary"]),
		Genre:          textValue(fields["genre"]),
		Pages:          textValue(fields["pages"]),
		Language:       textValue(fields["language"]),
		Rating:         textValue(fields["rating"]),
		Awards:         awardsValue(fields["awards"]),
		NotFoundReason: textValue(fields["not_found_reason"]),
	}

	// A missing found-flag means the model described an existing book.
	if v, ok := fields["is_found"]; ok {
		b, _ := v.(bool)
		rec.IsFound = b
	} else {
		rec.IsFound = true
	}

	return rec
}

// textValue normalizes a heterogeneously typed field to text. Numbers keep
// their exact JSON representation, strings pass through, null becomes
// empty.
func textValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// awardsValue joins a list-valued awards field into one comma-separated
// string.
func awardsValue(v any) string {
	list, ok := v.([]any)
	if !ok {
		return textValue(v)
	}
	parts := make([]string, 0, len(list))
	for _, item := range list {
		parts = append(parts, textValue(item))
	}
	return strings.Join(parts, ", ")
}

func snippet(raw string) string {
	runes := []rune(raw)
	if len(runes) > snippetLen {
		return string(runes[:snippetLen])
	}
	return raw
}
