package types

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Diagnostic represents a finding about one statement of a program.
type Diagnostic struct {
	Rule      string   `json:"rule"`
	Filename  string   `json:"filename"`
	Message   string   `json:"message"`
	Statement string   `json:"statement"` // canonical form of the statement
	Note      string   `json:"note,omitempty"`
	Line      int      `json:"line"`
	Column    int      `json:"column"`
	Severity  Severity `json:"severity"`
}

// Severity is the importance of a diagnostic. The zero value is
// SeverityUnset, which no rule may run with.
type Severity int

const (
	SeverityUnset Severity = iota
	SeverityError
	SeverityWarning
	SeverityInfo
	SeverityOff
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	case SeverityOff:
		return "OFF"
	case SeverityUnset:
		return "UNSET"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity converts a case-insensitive severity name.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return SeverityError, nil
	case "WARNING", "WARN":
		return SeverityWarning, nil
	case "INFO":
		return SeverityInfo, nil
	case "OFF":
		return SeverityOff, nil
	default:
		return SeverityOff, fmt.Errorf("unknown severity %q", s)
	}
}

func (s Severity) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

func (s *Severity) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseSeverity(value.Value)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ConfigRule is the per-rule entry of the configuration file.
type ConfigRule struct {
	Severity Severity `yaml:"severity"`
}
