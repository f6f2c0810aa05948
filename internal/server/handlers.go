package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/symgraph/pkg/demo"
	"github.com/matzehuels/symgraph/pkg/errors"
	"github.com/matzehuels/symgraph/pkg/expr"
	"github.com/matzehuels/symgraph/pkg/expr/transform"
	"github.com/matzehuels/symgraph/pkg/graph"
	"github.com/matzehuels/symgraph/pkg/pipeline"
)

// DemoSummary describes one demo in GET /demos.
type DemoSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Outputs     int    `json:"outputs"`
	Nodes       int    `json:"nodes"`
}

// Definition is one hoisted shared subexpression.
type Definition struct {
	Name string `json:"name"`
	Expr string `json:"expr"`
}

// CSEResponse is the result of shared-subexpression extraction.
type CSEResponse struct {
	Definitions []Definition `json:"definitions"`
	Outputs     []string     `json:"outputs"`
	Nodes       int          `json:"nodes"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (s *Server) handleDemos(w http.ResponseWriter, r *http.Request) {
	demos := demo.All()
	out := make([]DemoSummary, 0, len(demos))
	for _, d := range demos {
		g, err := d.Build(s.newBuilder())
		if err != nil {
			s.writeError(w, err)
			return
		}
		out = append(out, DemoSummary{
			Name:        d.Name,
			Description: d.Description,
			Outputs:     len(g.Outputs),
			Nodes:       transform.CountNodes(g.Outputs...),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	g, ok := s.buildDemo(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, graph.FromExprs(g.Outputs...))
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	g, ok := s.buildDemo(w, r)
	if !ok {
		return
	}
	syms := transform.Symbols(g.Outputs...)
	names := make([]string, len(syms))
	for i, x := range syms {
		names[i] = x.Name()
	}
	writeJSON(w, http.StatusOK, map[string][]string{"symbols": names})
}

func (s *Server) handleCSE(w http.ResponseWriter, r *http.Request) {
	g, ok := s.buildDemo(w, r)
	if !ok {
		return
	}
	s.writeCSE(w, g.Outputs)
}

func (s *Server) handlePostCSE(w http.ResponseWriter, r *http.Request) {
	g, err := graph.ReadGraph(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, err)
		return
	}
	outputs, err := graph.ToExprs(s.newBuilder(), g)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeCSE(w, outputs)
}

func (s *Server) writeCSE(w http.ResponseWriter, outputs []expr.Expr) {
	out, v, vdef, err := transform.ExtractShared(outputs, s.opts.Prefix, s.opts.Suffix)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := CSEResponse{
		Definitions: make([]Definition, len(v)),
		Outputs:     make([]string, len(out)),
		Nodes:       transform.CountNodes(out...),
	}
	for i := range v {
		resp.Definitions[i] = Definition{Name: v[i].Name(), Expr: vdef[i].String()}
	}
	for i, e := range out {
		resp.Outputs[i] = e.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	g, opts, ok := s.renderRequest(w, r)
	if !ok {
		return
	}
	dot, err := pipeline.DOT(g, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, dot)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	g, opts, ok := s.renderRequest(w, r)
	if !ok {
		return
	}
	opts.Formats = []string{pipeline.FormatSVG}
	artifacts, hit, err := s.opts.Runner.RenderWithCacheInfo(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(artifacts[pipeline.FormatSVG])
}

// renderRequest builds the demo named by the route and reads the detailed,
// regions and refresh query parameters.
func (s *Server) renderRequest(w http.ResponseWriter, r *http.Request) (*demo.Graph, pipeline.Options, bool) {
	opts := s.pipelineOptions(r)
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *bool
	}{
		{"detailed", &opts.Detailed},
		{"regions", &opts.Regions},
		{"refresh", &opts.Refresh},
	} {
		v, err := queryBool(q.Get(p.name))
		if err != nil {
			s.writeError(w, errors.Wrap(errors.ErrCodeInvalidArgument, err, "%s", p.name))
			return nil, opts, false
		}
		*p.dst = v
	}

	g, ok := s.buildDemo(w, r)
	return g, opts, ok
}

// buildDemo builds the demo named by the route, writing the error response
// on failure.
func (s *Server) buildDemo(w http.ResponseWriter, r *http.Request) (*demo.Graph, bool) {
	g, err := s.opts.Runner.Build(s.pipelineOptions(r))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return g, true
}

func (s *Server) pipelineOptions(r *http.Request) pipeline.Options {
	return pipeline.Options{
		Demo:   chi.URLParam(r, "name"),
		NoMemo: s.opts.NoMemo,
		Logger: s.opts.Logger,
	}
}

func (s *Server) newBuilder() *expr.Builder {
	return expr.NewBuilder(expr.WithMemo(!s.opts.NoMemo))
}

func queryBool(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}

// writeError maps the error code to an HTTP status.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusOf(code)
	if status >= http.StatusInternalServerError {
		s.opts.Logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: string(code)})
}

func statusOf(code errors.Code) int {
	switch code {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidArgument, errors.ErrCodeInvalidPath,
		errors.ErrCodeIndex, errors.ErrCodeEmptyInput:
		return http.StatusBadRequest
	case errors.ErrCodeShapeMismatch, errors.ErrCodeDimension, errors.ErrCodeCyclicDependency,
		errors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
