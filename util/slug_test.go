package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple name", input: "My Cool App", expected: "my-cool-app"},
		{name: "already a slug", input: "already-a-slug", expected: "already-a-slug"},
		{name: "replaces each punctuation character", input: "foo_bar.baz!!!qux", expected: "foo-bar-baz---qux"},
		{name: "trims leading and trailing separators", input: "--hello world--", expected: "hello-world"},
		{name: "mixed case and digits", input: "Project42", expected: "project42"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, Slugify(testCase.input))
		})
	}
}

func TestSlugifyIsIdempotent(t *testing.T) {
	inputs := []string{"My Cool App", "foo_bar.baz", "  leading and trailing  "}
	for _, input := range inputs {
		once := Slugify(input)
		twice := Slugify(once)
		assert.Equal(t, once, twice, "Slugify should be idempotent for %q", input)
	}
}

func TestRepoName(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{name: "https with .git suffix", url: "https://github.com/acme/widgets.git", expected: "widgets"},
		{name: "https without .git suffix", url: "https://github.com/acme/widgets", expected: "widgets"},
		{name: "trailing slash", url: "https://github.com/acme/widgets/", expected: "widgets"},
		{name: "ssh style url", url: "git@github.com:acme/widgets.git", expected: "widgets"},
		{name: "bare name, no slash", url: "widgets.git", expected: "widgets"},
		{name: "empty url falls back to project", url: "", expected: "project"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, RepoName(testCase.url))
		})
	}
}
