package access

import (
	"fmt"
	"path"
	"strings"
)

const (
	segmentWildcard = "*"
	suffixWildcard  = "**"
	pathSeparator   = "/"
)

// pattern is a compiled path pattern. Literal segments must match exactly,
// "*" matches exactly one segment, and a trailing "/**" matches zero or more
// further segments.
type pattern struct {
	raw       string
	segments  []string
	anySuffix bool
}

func compilePattern(raw string) (pattern, error) {
	if raw == "" {
		return pattern{}, fmt.Errorf(errPatternEmpty)
	}
	if !strings.HasPrefix(raw, pathSeparator) {
		return pattern{}, fmt.Errorf(errPatternNoLeadingSlashFmt, raw)
	}

	p := pattern{raw: raw}
	body := raw
	if body == pathSeparator+suffixWildcard {
		p.anySuffix = true
		return p, nil
	}
	if strings.HasSuffix(body, pathSeparator+suffixWildcard) {
		p.anySuffix = true
		body = strings.TrimSuffix(body, pathSeparator+suffixWildcard)
	}
	if body == pathSeparator {
		return p, nil
	}

	for _, seg := range strings.Split(strings.TrimPrefix(body, pathSeparator), pathSeparator) {
		switch {
		case seg == "":
			return pattern{}, fmt.Errorf(errPatternEmptySegmentFmt, raw)
		case seg == suffixWildcard:
			return pattern{}, fmt.Errorf(errPatternDoubleStarFmt, raw)
		case seg != segmentWildcard && strings.Contains(seg, segmentWildcard):
			return pattern{}, fmt.Errorf(errPatternPartialWildcardFmt, raw)
		}
		p.segments = append(p.segments, seg)
	}

	return p, nil
}

func (p pattern) match(segments []string) bool {
	if p.anySuffix {
		if len(segments) < len(p.segments) {
			return false
		}
	} else if len(segments) != len(p.segments) {
		return false
	}

	for i, want := range p.segments {
		if want == segmentWildcard {
			if segments[i] == "" {
				return false
			}
			continue
		}
		if want != segments[i] {
			return false
		}
	}
	return true
}

// splitPath cleans a request path and splits it into segments.
// "/" yields no segments.
func splitPath(requestPath string) []string {
	if !strings.HasPrefix(requestPath, pathSeparator) {
		requestPath = pathSeparator + requestPath
	}
	cleaned := path.Clean(requestPath)
	if cleaned == pathSeparator {
		return nil
	}
	return strings.Split(strings.TrimPrefix(cleaned, pathSeparator), pathSeparator)
}
