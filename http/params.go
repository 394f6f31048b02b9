package http

import (
	"net/url"
	"strings"
)

type Param struct {
	Name  string
	Value string
}

// Params is an ordered list of decoded name/value pairs. Duplicates are
// kept in the order they were received.
type Params []Param

// ParseParams decodes an application/x-www-form-urlencoded string.
// Pairs with an empty name are dropped, a pair without "=" gets an empty
// value and a component with a broken escape is kept as sent.
func ParseParams(raw string) Params {
	if raw == "" {
		return nil
	}

	var params Params
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}

		name, value, _ := strings.Cut(pair, "=")
		name = unescapeParam(name)
		if name == "" {
			continue
		}

		params = append(params, Param{Name: name, Value: unescapeParam(value)})
	}
	return params
}

func unescapeParam(s string) string {
	v, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return v
}

// Get returns every value stored under name, compared case-insensitively.
func (params Params) Get(name string) []string {
	var values []string
	for _, param := range params {
		if strings.EqualFold(param.Name, name) {
			values = append(values, param.Value)
		}
	}
	return values
}

// First returns the first value stored under name or fallback.
func (params Params) First(name, fallback string) string {
	for _, param := range params {
		if strings.EqualFold(param.Name, name) {
			return param.Value
		}
	}
	return fallback
}

// Encode is the inverse of ParseParams for every pair with a non-empty
// name. Pairs with an empty name are encoded but dropped again on parse.
func (params Params) Encode() string {
	var sb strings.Builder
	for i, param := range params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(param.Name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(param.Value))
	}
	return sb.String()
}
