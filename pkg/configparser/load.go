package configparser

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	ErrNoFilePath    = errors.New("no file path provided")
	ErrMalformedLine = errors.New("malformed yaml line")
)

// section is one open mapping level of the file.
type section struct {
	indent int
	name   string
}

// LoadYamlFile flattens a YAML mapping into environment variables: nested keys are joined
// with "_" and upper-cased (socket: endpoint → SOCKET_ENDPOINT). Variables already set in
// the environment win over the file.
//
// Values may reference the environment as ${VAR} or ${VAR:-default}. A "#" starts a comment
// unless it is quoted or glued to the preceding text (ws://host/#frag).
func LoadYamlFile(filepath string) error {
	if filepath == "" {
		return ErrNoFilePath
	}

	file, err := os.Open(filepath)
	if err != nil {
		return fmt.Errorf("could not open YAML file: %w", err)
	}
	defer file.Close()

	var (
		scanner = bufio.NewScanner(file)
		stack   []section
		lineNo  int
	)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t\r")

		content := strings.TrimSpace(stripComment(line))
		if content == "" || content == "---" {
			continue
		}
		if strings.HasPrefix(strings.TrimLeft(line, " "), "\t") {
			return fmt.Errorf("%w %d: tab indentation", ErrMalformedLine, lineNo)
		}

		indent := len(line) - len(strings.TrimLeft(line, " "))

		// close every section at this depth or deeper, whatever its width
		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}

		key, value, ok := strings.Cut(content, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" || (value != "" && value[0] != ' ') {
			return fmt.Errorf("%w %d: %q", ErrMalformedLine, lineNo, content)
		}

		value = strings.TrimSpace(value)
		if value == "" {
			stack = append(stack, section{indent: indent, name: key})
			continue
		}

		fullKey := envKey(stack, key)
		if os.Getenv(fullKey) != "" {
			continue
		}
		if err := os.Setenv(fullKey, expand(unquote(value))); err != nil {
			return fmt.Errorf("could not set env var %s: %w", fullKey, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading YAML file: %w", err)
	}

	return nil
}

func envKey(stack []section, key string) string {
	parts := make([]string, 0, len(stack)+1)
	for _, s := range stack {
		parts = append(parts, s.name)
	}
	parts = append(parts, key)

	return strings.ToUpper(strings.Join(parts, "_"))
}

// stripComment drops a trailing "# ..." that is outside quotes and preceded by a space.
func stripComment(line string) string {
	var quote rune
	for i, ch := range line {
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '#' && (i == 0 || line[i-1] == ' ' || line[i-1] == '\t'):
			return line[:i]
		}
	}
	return line
}

func unquote(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' || first == '\'') && first == last {
			return value[1 : len(value)-1]
		}
	}
	return value
}

// expand resolves ${VAR} and ${VAR:-default}. Unset or empty variables take the default.
func expand(value string) string {
	var b strings.Builder

	for {
		start := strings.Index(value, "${")
		if start < 0 {
			b.WriteString(value)
			return b.String()
		}
		end := strings.Index(value[start:], "}")
		if end < 0 {
			b.WriteString(value)
			return b.String()
		}
		end += start

		b.WriteString(value[:start])

		name, def, _ := strings.Cut(value[start+2:end], ":-")
		if env := os.Getenv(strings.TrimSpace(name)); env != "" {
			b.WriteString(env)
		} else {
			b.WriteString(def)
		}

		value = value[end+1:]
	}
}
