package util

// Package util provides small, stateless utility functions shared across
// the application. Functions here have no dependencies on other internal
// packages.

import "strings"

// Slugify lowercases name, replaces every character that is not
// alphanumeric or '-' with '-', then trims leading/trailing '-'. It is
// idempotent: Slugify(Slugify(s)) == Slugify(s). The slug is the project
// record's primary key and the stem of its derived container/image names.
func Slugify(name string) string {
	lower := strings.ToLower(name)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// RepoName extracts a project name from a git repository URL: trim a
// trailing slash, trim a trailing ".git", then take the last path segment.
func RepoName(url string) string {
	trimmed := strings.TrimSuffix(url, "/")
	trimmed = strings.TrimSuffix(trimmed, ".git")
	idx := strings.LastIndex(trimmed, "/")
	var name string
	if idx == -1 {
		name = trimmed
	} else {
		name = trimmed[idx+1:]
	}
	if name == "" {
		return "project"
	}
	return name
}
