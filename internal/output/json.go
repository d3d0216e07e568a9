package output

import (
	"encoding/json"
)

// JSONFormatter formats results as JSON Lines: one object per matching line,
// block or expectation. In count mode it emits one count object per result.
type JSONFormatter struct {
	countOnly bool
}

// NewJSONFormatter creates a JSONFormatter.
func NewJSONFormatter(countOnly bool) *JSONFormatter {
	return &JSONFormatter{countOnly: countOnly}
}

type jsonLine struct {
	Type   string `json:"type"`
	Source string `json:"source,omitempty"`
	Offset int    `json:"offset"`
	Text   string `json:"text"`
}

type jsonBlock struct {
	Type   string   `json:"type"`
	Source string   `json:"source,omitempty"`
	Offset int      `json:"offset"`
	Lines  []string `json:"lines"`
}

type jsonCount struct {
	Type   string `json:"type"`
	Source string `json:"source,omitempty"`
	Count  int    `json:"count"`
}

type jsonFailure struct {
	Type    string `json:"type"`
	Source  string `json:"source,omitempty"`
	Message string `json:"message"`
}

type jsonOutcome struct {
	Type     string   `json:"type"`
	Source   string   `json:"source"`
	Index    int      `json:"index"`
	Name     string   `json:"name,omitempty"`
	Stream   string   `json:"stream,omitempty"`
	Kind     string   `json:"kind,omitempty"`
	Patterns []string `json:"patterns,omitempty"`
	Passed   bool     `json:"passed"`
	Message  string   `json:"message,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func (f *JSONFormatter) Format(buf []byte, result Result, multiSource bool) []byte {
	if result.Err != nil {
		return buf
	}
	switch {
	case f.countOnly:
		buf = appendJSON(buf, jsonCount{Type: "count", Source: result.Source, Count: result.Count()})
	case result.Outcomes != nil:
		for _, o := range result.Outcomes {
			jo := jsonOutcome{
				Type:     "expectation",
				Source:   result.Source,
				Index:    o.Index,
				Name:     o.Name,
				Stream:   string(o.Stream),
				Kind:     string(o.Kind),
				Patterns: o.Patterns,
				Passed:   o.Passed,
				Message:  o.Message,
			}
			if o.Err != nil {
				jo.Error = o.Err.Error()
			}
			buf = appendJSON(buf, jo)
		}
	case result.Failure != "":
		buf = appendJSON(buf, jsonFailure{Type: "failure", Source: result.Source, Message: result.Failure})
	case result.Lines:
		for _, b := range result.Blocks {
			buf = appendJSON(buf, jsonLine{Type: "line", Source: result.Source, Offset: b.Offset(), Text: b.Text(0)})
		}
	default:
		for _, b := range result.Blocks {
			buf = appendJSON(buf, jsonBlock{Type: "block", Source: result.Source, Offset: b.Offset(), Lines: b.Lines()})
		}
	}
	return buf
}

func appendJSON(buf []byte, v any) []byte {
	data, _ := json.Marshal(v)
	buf = append(buf, data...)
	return append(buf, '\n')
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)
