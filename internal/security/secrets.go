// Package security flags credentials embedded in stylesheet content.
package security

import (
	"regexp"
	"strings"
)

// Secret represents a detected secret.
type Secret struct {
	Type     string `json:"type"`
	Line     int    `json:"line"`
	StartPos int    `json:"start_pos"`
	EndPos   int    `json:"end_pos"`
}

// SecretDetector detects credentials left in stylesheet text: hardcoded
// passwords in param defaults, basic-auth URLs passed to document(), API
// keys in attribute values.
type SecretDetector struct {
	patterns     []secretPattern
	placeholders []string
}

type secretPattern struct {
	name  string
	regex *regexp.Regexp
}

// NewSecretDetector creates a new detector with default patterns.
func NewSecretDetector() *SecretDetector {
	return &SecretDetector{
		patterns: []secretPattern{
			{
				name:  "api_key",
				regex: regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)["']?\s*[=:]\s*["']?'?([a-zA-Z0-9_\-]{20,})`),
			},
			{
				name:  "password_literal",
				regex: regexp.MustCompile(`(?i)(password|passwd|pwd|secret)["']?\s*[=:]\s*["']?'?([^\s"'<>]{8,})`),
			},
			{
				name:  "basic_auth_url",
				regex: regexp.MustCompile(`(?i)(https?|ftp)://[^\s"'<>/@:]+:[^\s"'<>@]+@`),
			},
			{
				name:  "connection_string",
				regex: regexp.MustCompile(`(?i)(mongodb|postgres|mysql|redis|amqp)://[^\s"'<>]+`),
			},
			{
				name:  "aws_access_key",
				regex: regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
			},
			{
				name:  "private_key",
				regex: regexp.MustCompile(`-----BEGIN (RSA |EC |DSA )?PRIVATE KEY-----`),
			},
		},
		placeholders: []string{
			"your-", "example", "placeholder", "changeme", "dummy",
		},
	}
}

// Detect finds secrets in content. Lines whose value is an attribute value
// template or a placeholder are skipped: the credential comes from the
// input document, not the stylesheet.
func (d *SecretDetector) Detect(content string) []Secret {
	var secrets []Secret

	lines := strings.Split(content, "\n")

	for lineNum, line := range lines {
		if d.isPlaceholder(line) {
			continue
		}

		for _, pattern := range d.patterns {
			matches := pattern.regex.FindAllStringIndex(line, -1)
			for _, match := range matches {
				if isTemplatedValue(line, match[0], match[1]) {
					continue
				}
				secrets = append(secrets, Secret{
					Type:     pattern.name,
					Line:     lineNum + 1,
					StartPos: match[0],
					EndPos:   match[1],
				})
			}
		}
	}

	return secrets
}

// HasSecrets checks if content contains secrets.
func (d *SecretDetector) HasSecrets(content string) bool {
	return len(d.Detect(content)) > 0
}

func (d *SecretDetector) isPlaceholder(line string) bool {
	lower := strings.ToLower(line)
	for _, p := range d.placeholders {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// isTemplatedValue reports whether the match involves an attribute value
// template ({...}), which resolves at transform time.
func isTemplatedValue(line string, start, end int) bool {
	if strings.ContainsRune(line[start:end], '{') {
		return true
	}
	open := strings.LastIndexByte(line[:start], '{')
	if open < 0 {
		return false
	}
	closing := strings.IndexByte(line[open:], '}')
	return closing >= 0 && open+closing >= start
}
