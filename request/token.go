package request

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Token is a placeholder the backend resolves against the result of an
// earlier sub-request of the same batch.
type Token struct {
	Position int
	Path     []string
}

var tokenPattern = regexp.MustCompile(`^\{(-?\d+):result(?::([^{}]*))?\}$`)

// String renders the token in its wire form, e.g. {1:result:objects:0:id}.
func (t Token) String() string {
	var b strings.Builder
	b.WriteString("{")
	b.WriteString(strconv.Itoa(t.Position))
	b.WriteString(":result")
	for _, p := range t.Path {
		b.WriteString(":")
		b.WriteString(p)
	}
	b.WriteString("}")
	return b.String()
}

// ParseToken reports whether s is a token and decodes it.
func ParseToken(s string) (Token, bool) {
	match := tokenPattern.FindStringSubmatch(s)
	if match == nil {
		return Token{}, false
	}

	position, err := strconv.Atoi(match[1])
	if err != nil {
		return Token{}, false
	}

	var path []string
	if match[2] != "" {
		path = strings.Split(match[2], ":")
	}

	return Token{Position: position, Path: path}, true
}

// checkReferences walks params and fails on any token that does not point
// strictly backwards into the first limit positions.
func checkReferences(params map[string]any, limit int) error {
	for k, v := range params {
		if err := checkValue(v, limit); err != nil {
			return fmt.Errorf("param %q: %w", k, err)
		}
	}
	return nil
}

func checkValue(v any, limit int) error {
	switch value := v.(type) {
	case string:
		token, ok := ParseToken(value)
		if !ok {
			return nil
		}
		if token.Position < 1 || token.Position > limit {
			return fmt.Errorf("%w: %s with %d prior requests", ErrInvalidReference, value, limit)
		}
	case map[string]any:
		return checkReferences(value, limit)
	case []any:
		for _, item := range value {
			if err := checkValue(item, limit); err != nil {
				return err
			}
		}
	case []string:
		for _, item := range value {
			if err := checkValue(item, limit); err != nil {
				return err
			}
		}
	}
	return nil
}
