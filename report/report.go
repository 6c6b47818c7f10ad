// Package report formats benchmark results for people and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected text, json or yaml)", s)
	}
}

// Report is the outcome of one benchmark invocation.
type Report struct {
	Engine      string        `json:"engine"`
	Benchmark   string        `json:"benchmark"`
	Repeat      int           `json:"repeat"`
	Parallelism int           `json:"parallelism"`
	Mean        float32       `json:"mean"`
	Scores      []float32     `json:"scores"`
	Duration    time.Duration `json:"duration_ns"`
}

// yamlReport is Report with the duration spelled out, e.g. "1.5s".
type yamlReport struct {
	Engine      string    `yaml:"engine"`
	Benchmark   string    `yaml:"benchmark"`
	Repeat      int       `yaml:"repeat"`
	Parallelism int       `yaml:"parallelism"`
	Mean        float32   `yaml:"mean"`
	Scores      []float32 `yaml:"scores"`
	Duration    string    `yaml:"duration"`
}

// MarshalYAML implements yaml.Marshaler.
func (r Report) MarshalYAML() (any, error) {
	return yamlReport{
		Engine:      r.Engine,
		Benchmark:   r.Benchmark,
		Repeat:      r.Repeat,
		Parallelism: r.Parallelism,
		Mean:        r.Mean,
		Scores:      r.Scores,
		Duration:    r.Duration.String(),
	}, nil
}

// Write encodes r to w. The text form is the single "Result: <score>" line.
func Write(w io.Writer, r Report, format Format) error {
	switch format {
	case FormatText, "":
		_, err := fmt.Fprintf(w, "Result: %s\n", FormatScore(r.Mean))
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// FormatScore prints a score in plain decimal notation with the fewest
// digits that round-trip through float32.
func FormatScore(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}
