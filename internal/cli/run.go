package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/aretw0/espalier/internal/presentation/graph"
	"github.com/aretw0/espalier/internal/presentation/tui"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/schema"
)

// OutputFormat selects how results are written.
type OutputFormat string

const (
	FormatText     OutputFormat = "text"
	FormatJSON     OutputFormat = "json"
	FormatMarkdown OutputFormat = "markdown"
)

// NormalizeOptions tunes Normalize.
type NormalizeOptions struct {
	Format OutputFormat
	// Trace appends the explored rewrite graph to markdown reports.
	Trace bool
	// Render styles markdown reports; nil prints raw markdown.
	Render func(string) (string, error)
}

type normalizeJSON struct {
	Input       string   `json:"input"`
	NormalForms []string `json:"normal_forms"`
	Nodes       int      `json:"nodes"`
	Filtered    int      `json:"filtered"`
	Cached      bool     `json:"cached"`
}

// Normalize parses each term, normalizes it and writes the outcome to w.
func Normalize(ctx context.Context, env *Env, w io.Writer, terms []string, opts NormalizeOptions) error {
	for _, text := range terms {
		term, err := env.Signature.ParseTerm(text)
		if err != nil {
			return err
		}
		res, err := env.Engine.Normalize(ctx, term)
		if err != nil {
			return err
		}
		forms := termStrings(res.Normal)

		switch opts.Format {
		case FormatJSON:
			out := normalizeJSON{
				Input:       res.Input.String(),
				NormalForms: forms,
				Nodes:       res.Nodes,
				Filtered:    res.Filtered,
				Cached:      res.Cached,
			}
			if err := json.NewEncoder(w).Encode(out); err != nil {
				return err
			}
		case FormatMarkdown:
			report := tui.Report{
				Input:       res.Input.String(),
				NormalForms: forms,
				Nodes:       res.Nodes,
				Filtered:    res.Filtered,
				Cached:      res.Cached,
				Metrics:     domain.Measure(term, MetricSpec(env.Signature)).Summary(),
			}
			if opts.Trace {
				v, _, err := env.Engine.Trace(ctx, term)
				if err != nil {
					return err
				}
				report.Mermaid = graph.ProcessMermaid(v.Graph)
			}
			out, err := report.Render(opts.Render)
			if err != nil {
				return err
			}
			fmt.Fprint(w, out)
		default:
			fmt.Fprintln(w, strings.Join(forms, "\n"))
			if res.Filtered > 0 {
				env.Logger.Warn("search was cut by filters, normal forms may be incomplete",
					"term", text, "filtered", res.Filtered)
			}
		}
	}
	return nil
}

// Rewrites writes the single-step rewrites of term under one phase, one per
// line as RULE@POSITION -> RESULT.
func Rewrites(env *Env, w io.Writer, text string, phase int) error {
	term, err := env.Signature.ParseTerm(text)
	if err != nil {
		return err
	}
	rws, err := env.Engine.Rewrites(term, phase)
	if err != nil {
		return err
	}
	for _, rw := range rws {
		fmt.Fprintf(w, "%s@%s -> %s\n", rw.RuleName, rw.Position, rw.Result)
	}
	return nil
}

// GraphKind selects the drawing of Graph.
type GraphKind string

const (
	GraphPhases  GraphKind = "phases"
	GraphTerm    GraphKind = "term"
	GraphProcess GraphKind = "process"
)

// Graph writes a Mermaid drawing. GraphPhases ignores text unless it is set,
// in which case the phases visited while normalizing it are highlighted.
func Graph(ctx context.Context, env *Env, w io.Writer, kind GraphKind, text string) error {
	var term *domain.Term[string]
	if text != "" {
		var err error
		if term, err = env.Signature.ParseTerm(text); err != nil {
			return err
		}
	}

	switch kind {
	case GraphPhases:
		var overlay *graph.PhaseOverlay
		if term != nil {
			_, proc, err := env.Engine.Trace(ctx, term)
			if err != nil {
				return err
			}
			overlay = &graph.PhaseOverlay{}
			seen := make(map[int]bool)
			for _, c := range proc.Concretes() {
				if !seen[c.AbstractID] {
					seen[c.AbstractID] = true
					overlay.Visited = append(overlay.Visited, c.AbstractID)
				}
			}
		}
		fmt.Fprint(w, graph.PhaseMermaid(env.Engine.Phases(), overlay))
	case GraphTerm, GraphProcess:
		if term == nil {
			return fmt.Errorf("a term is required for the %s graph", kind)
		}
		if kind == GraphTerm {
			fmt.Fprint(w, graph.TermMermaid(term))
			return nil
		}
		v, _, err := env.Engine.Trace(ctx, term)
		if err != nil {
			return err
		}
		fmt.Fprint(w, graph.ProcessMermaid(v.Graph))
	default:
		return fmt.Errorf("unknown graph kind %q (want phases, term or process)", kind)
	}
	return nil
}

// Validate checks a signature file and, when set, a pipeline file against
// it. Every problem is listed on w; the returned error only says how many.
func Validate(w io.Writer, signaturePath, pipelinePath string) error {
	var problems []error
	sig := schema.DefaultSignature()
	if signaturePath != "" {
		var err error
		if sig, err = schema.LoadSignature(signaturePath); err != nil {
			problems = append(problems, splitErrors(err)...)
			sig = nil
		}
	}
	if pipelinePath != "" && sig != nil {
		pipe, err := schema.LoadPipeline(pipelinePath)
		if err == nil {
			var phases []domain.Phase[string]
			if phases, err = pipe.Build(sig); err == nil {
				_, err = pipe.SearchConfig(phases)
			}
		}
		if err != nil {
			problems = append(problems, splitErrors(err)...)
		}
	}

	if len(problems) == 0 {
		fmt.Fprintln(w, "OK")
		return nil
	}
	for _, p := range problems {
		fmt.Fprintf(w, "- %v\n", p)
	}
	return fmt.Errorf("%d validation error(s)", len(problems))
}

// Generate writes n random terms over the signature, one per line.
func Generate(env *Env, w io.Writer, n, depth int, seed uint64, variables []string) error {
	gen, err := NewGenerator(env.Signature, depth, variables)
	if err != nil {
		return err
	}
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for _, t := range gen.GenerateN(r, n) {
		fmt.Fprintln(w, t)
	}
	return nil
}

// MetricSpec counts every operator of sig, and variables under "$var".
// Unary operators also track how deeply they nest.
func MetricSpec(sig *schema.Signature) domain.MetricSpec[string, string] {
	return domain.MetricSpec[string, string]{
		Of: func(op string) []string {
			if sig.IsVariable(op) {
				return []string{schema.VariableRank}
			}
			return []string{op}
		},
		Nested: func(m string) bool {
			return m != schema.VariableRank && sig.IsUnary(m)
		},
	}
}

func splitErrors(err error) []error {
	if errs := schema.ValidationErrors(err); errs != nil {
		return errs
	}
	return []error{err}
}

func termStrings(terms []*domain.Term[string]) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.String()
	}
	return out
}
