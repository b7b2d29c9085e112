// Package skills canonicalizes skill names so that criteria and candidate
// profiles match case-insensitively and across common aliases.
package skills

import (
	"strings"
)

// aliases maps a canonical token to the spellings that should resolve to it.
// Intentionally small; extend as the catalog grows.
var aliases = map[string]string{
	"golang":              "go",
	"k8s":                 "kubernetes",
	"postgres":            "postgresql",
	"js":                  "javascript",
	"ts":                  "typescript",
	"nodejs":              "node.js",
	"node":                "node.js",
	"reactjs":             "react",
	"ci/cd":               "cicd",
	"ci cd":               "cicd",
	"golang/go":           "go",
	"ms sql":              "sql server",
	"mssql":               "sql server",
	"amazon web services": "aws",
	"google cloud":        "gcp",
}

// Canonical returns the canonical form of a skill name: trimmed, lowercased,
// inner whitespace collapsed, and known aliases resolved.
func Canonical(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	if canon, ok := aliases[s]; ok {
		return canon
	}
	return s
}

// CanonicalSet builds a set of canonical names, dropping empties and duplicates.
func CanonicalSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if c := Canonical(n); c != "" {
			set[c] = struct{}{}
		}
	}
	return set
}

// Match reports whether two skill names refer to the same canonical skill.
func Match(a, b string) bool {
	ca := Canonical(a)
	return ca != "" && ca == Canonical(b)
}
