package options

import (
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFile builds an ignore option from a gitignore-style rules file: a line
// is dropped when the rules would ignore it as a path. Negated rules ("!x")
// re-include lines and "#" starts a comment, as in .gitignore files.
func IgnoreFile(path string) (Option, error) {
	parser, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return Option{}, &ConfigError{Option: NameIgnore, Value: path, Reason: "load rules", Err: err}
	}
	return Ignore(rulesPredicate(parser)), nil
}

// IgnoreRules is IgnoreFile over in-memory rule lines.
func IgnoreRules(rules ...string) Option {
	return Ignore(rulesPredicate(ignore.CompileIgnoreLines(rules...)))
}

func rulesPredicate(parser *ignore.GitIgnore) Predicate {
	return func(line string) bool {
		line = strings.TrimSpace(line)
		if line == "" {
			return false
		}
		return parser.MatchesPath(line)
	}
}
