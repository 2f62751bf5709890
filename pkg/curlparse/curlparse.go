// Package curlparse turns a curl command captured from browser devtools into
// the request descriptor used to poll the usage API.
package curlparse

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/google/shlex"

	"github.com/usagewatch/usagewatch/pkg/usage"
)

// ErrNoURL means the command contained no URL token. The caller treats this
// as a startup-fatal condition.
var ErrNoURL = errors.New("no URL found in curl command")

var (
	caretContinuation = regexp.MustCompile(`\^\s*\n\s*`)
	caretEscape       = regexp.MustCompile(`\^([^"])`)
)

// Parse extracts URL, method, and headers from a curl command string.
// cmd.exe-style caret line continuations (as copied from Windows browser
// devtools) are normalized before tokenizing.
func Parse(command string) (usage.RequestDescriptor, error) {
	desc := usage.RequestDescriptor{
		Method:  "GET",
		Headers: map[string]string{},
	}

	if caretContinuation.MatchString(command) {
		command = caretContinuation.ReplaceAllString(command, " ")
		command = strings.ReplaceAll(command, `^"`, `"`)
		command = caretEscape.ReplaceAllString(command, "$1")
	}

	tokens, err := shlex.Split(command)
	if err != nil {
		return desc, fmt.Errorf("tokenize curl command: %w", err)
	}

	for i := 0; i < len(tokens); i++ {
		token := tokens[i]

		switch {
		case token == "curl":
			continue

		case token == "-X" || token == "--request":
			if i+1 < len(tokens) {
				desc.Method = strings.ToUpper(tokens[i+1])
				i++
			}

		case token == "-H" || token == "--header":
			if i+1 < len(tokens) {
				key, value, found := strings.Cut(tokens[i+1], ":")
				if found {
					desc.Headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
				}
				i++
			}

		case token == "-b" || token == "--cookie":
			if i+1 < len(tokens) {
				desc.Headers["Cookie"] = tokens[i+1]
				i++
			}

		case !strings.HasPrefix(token, "-") && desc.URL == "":
			desc.URL = token
		}
	}

	if desc.URL == "" {
		return desc, ErrNoURL
	}
	return desc, nil
}

// ParseFile reads a curl command from a file (e.g. curl.txt) and parses it.
func ParseFile(path string) (usage.RequestDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return usage.RequestDescriptor{}, fmt.Errorf("read curl file: %w", err)
	}
	command := strings.TrimSpace(string(data))
	if command == "" {
		return usage.RequestDescriptor{}, fmt.Errorf("curl file %s is empty", path)
	}
	return Parse(command)
}
