package http

import "strings"

type Header struct {
	Name  string
	Value string
}

// Headers keeps header fields in arrival order with their original name
// casing. Names are matched case-insensitively.
type Headers []Header

// Set stores value under name, replacing an existing field with the same
// name regardless of case.
func (headers *Headers) Set(name, value string) {
	for i := range *headers {
		if strings.EqualFold((*headers)[i].Name, name) {
			(*headers)[i] = Header{Name: name, Value: value}
			return
		}
	}
	*headers = append(*headers, Header{Name: name, Value: value})
}

func (headers Headers) Get(name string) (string, bool) {
	for _, header := range headers {
		if strings.EqualFold(header.Name, name) {
			return header.Value, true
		}
	}
	return "", false
}

// parseHeaderLines parses "Name: value" lines. Lines without a colon are
// skipped; a repeated name keeps the last value.
func parseHeaderLines(lines []string) Headers {
	headers := make(Headers, 0, len(lines))
	for _, line := range lines {
		name, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		headers.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	return headers
}
