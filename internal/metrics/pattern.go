package metrics

import (
	"fmt"
	"regexp"
	"strings"
)

// CompilePattern compiles "/re/flags" (optionally "m/re/flags") or a bare
// regular expression. Supported flags are i, m and s.
func CompilePattern(text string) (*regexp.Regexp, error) {
	text = strings.TrimSpace(text)
	expr := text

	body := strings.TrimPrefix(text, "m")
	if strings.HasPrefix(body, "/") {
		end := strings.LastIndex(body, "/")
		if end == 0 {
			return nil, fmt.Errorf("%w: unterminated %q", ErrInvalidPattern, text)
		}
		expr = body[1:end]
		if flags := body[end+1:]; flags != "" {
			for _, f := range flags {
				if !strings.ContainsRune("ims", f) {
					return nil, fmt.Errorf("%w: unsupported flag %q in %q", ErrInvalidPattern, f, text)
				}
			}
			expr = "(?" + flags + ")" + expr
		}
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return re, nil
}
