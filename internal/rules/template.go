package rules

import (
	"fmt"

	linkerrs "git.home.luguber.info/inful/rstlinker/internal/errors"
)

// parseTemplate splits a template into segments and validates every reference
// against the matcher's groups and the merged variable namespace.
//
// Syntax: \0..\9 numeric group, {name} named group or variable, \\ literal
// backslash, {{ and }} literal braces. A backslash before any other byte is
// kept verbatim so RST markup in templates stays untouched.
func parseTemplate(template string, numGroups int, groups map[string]int, vars map[string]string) ([]segment, error) {
	var segs []segment
	var lit []byte

	flush := func() {
		if len(lit) > 0 {
			segs = append(segs, segment{kind: segText, text: string(lit)})
			lit = nil
		}
	}

	for i := 0; i < len(template); i++ {
		c := template[i]
		switch {
		case c == '\\' && i+1 < len(template):
			next := template[i+1]
			switch {
			case next >= '0' && next <= '9':
				n := int(next - '0')
				if n > numGroups {
					return nil, linkerrs.InvalidRule(
						fmt.Sprintf("template references capture group %d but matcher has %d", n, numGroups)).
						WithContext("template", template)
				}
				flush()
				segs = append(segs, segment{kind: segGroup, group: n})
				i++
			case next == '\\':
				lit = append(lit, '\\')
				i++
			default:
				lit = append(lit, c)
			}
		case c == '{' && i+1 < len(template) && template[i+1] == '{':
			lit = append(lit, '{')
			i++
		case c == '}' && i+1 < len(template) && template[i+1] == '}':
			lit = append(lit, '}')
			i++
		case c == '{':
			end := -1
			for j := i + 1; j < len(template); j++ {
				if template[j] == '}' {
					end = j
					break
				}
			}
			if end < 0 {
				return nil, linkerrs.InvalidRule("template has unclosed variable reference").
					WithContext("template", template)
			}
			name := template[i+1 : end]
			if name == "" {
				return nil, linkerrs.InvalidRule("template has empty variable reference").
					WithContext("template", template)
			}
			if _, isGroup := groups[name]; !isGroup {
				if _, isVar := vars[name]; !isVar {
					return nil, linkerrs.InvalidRule(
						fmt.Sprintf("template references %q which is neither a named group nor a variable", name)).
						WithContext("template", template)
				}
			}
			flush()
			segs = append(segs, segment{kind: segName, name: name})
			i = end
		default:
			lit = append(lit, c)
		}
	}
	flush()
	return segs, nil
}
