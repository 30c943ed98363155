package generator

import "strings"

// DefaultLanguage is reported when no rule matches.
const DefaultLanguage = "javascript"

type languageRule struct {
	language string
	markers  []string
}

// languageRules are checked in order; the first rule with any marker present wins.
var languageRules = []languageRule{
	{language: "python", markers: []string{"def ", "print("}},
	{language: "java", markers: []string{"public class", "System.out"}},
	{language: "cpp", markers: []string{"#include", "std::"}},
}

// DetectLanguage labels code with a best-effort language guess. The label only
// feeds the prompt; nothing else branches on it.
func DetectLanguage(code string) string {
	for _, rule := range languageRules {
		for _, marker := range rule.markers {
			if strings.Contains(code, marker) {
				return rule.language
			}
		}
	}
	return DefaultLanguage
}
