package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/meigma/revtrust"
)

type format string

const (
	formatText format = "text"
	formatJSON format = "json"
	formatYAML format = "yaml"
)

func parseFormat(s string) (format, error) {
	switch f := format(s); f {
	case formatText, formatJSON, formatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// report is the rendered view of one repository.
type report struct {
	Path      string   `json:"path" yaml:"path"`
	Revision  string   `json:"revision,omitempty" yaml:"revision,omitempty"`
	Author    string   `json:"author,omitempty" yaml:"author,omitempty"`
	Summary   string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Time      string   `json:"time,omitempty" yaml:"time,omitempty"`
	Signature string   `json:"signature,omitempty" yaml:"signature,omitempty"`
	Signer    string   `json:"signer,omitempty" yaml:"signer,omitempty"`
	State     string   `json:"state,omitempty" yaml:"state,omitempty"`
	Reasons   []string `json:"reasons,omitempty" yaml:"reasons,omitempty"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"`
}

func revisionReport(path string, info *revtrust.RevisionInfo) report {
	r := report{
		Path:     path,
		Revision: info.ID(),
		Author:   info.Author(),
		Summary:  info.Summary(),
		Time:     info.Time().Format(time.RFC3339),
	}
	if sig := info.Signature(); sig != nil {
		r.Signature = sig.Format().String()
		r.Signer = sig.Signer()
	}
	return r
}

func verdictReport(path string, v *revtrust.Verdict) report {
	r := revisionReport(path, v.Revision)
	r.State = v.State.String()
	for _, err := range v.Failures() {
		r.Reasons = append(r.Reasons, err.Error())
	}
	return r
}

func errorReport(path string, err error) report {
	return report{Path: path, State: revtrust.StateUnchecked.String(), Error: err.Error()}
}

// render writes reports in format f. Structured formats emit a single
// object unless list is set, in which case they always emit an array.
func render(w io.Writer, f format, reports []report, list bool) error {
	var value any = reports
	if !list && len(reports) == 1 {
		value = reports[0]
	}
	switch f {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	case formatYAML:
		out, err := yaml.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		for i, r := range reports {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			if err := renderText(w, r); err != nil {
				return err
			}
		}
		return nil
	}
}

func renderText(w io.Writer, r report) error {
	p := &textPrinter{w: w}
	p.field("path", r.Path)
	p.field("revision", r.Revision)
	p.field("author", r.Author)
	p.field("summary", r.Summary)
	p.field("time", r.Time)
	if r.Revision != "" {
		switch {
		case r.Signature == "":
			p.field("signature", "none")
		case r.Signer == "":
			p.field("signature", r.Signature)
		default:
			p.field("signature", r.Signature+" ("+r.Signer+")")
		}
	}
	p.field("state", r.State)
	for _, reason := range r.Reasons {
		p.field("reason", reason)
	}
	p.field("error", r.Error)
	return p.err
}

type textPrinter struct {
	w   io.Writer
	err error
}

func (p *textPrinter) field(name, value string) {
	if p.err != nil || value == "" {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%-10s %s\n", name+":", value)
}
