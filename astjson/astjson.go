// Package astjson implements Ember's lossless AST↔JSON bridge (spec.md
// §4.8): a deterministic, recursive, `kind`-tagged serialization of every
// AST node, and a deserializer that accepts either plain JSON or, in place
// of an expression, type, pattern or statement, a hybrid "source fragment"
// object that is lexed and parsed on the spot with the standalone entry
// point appropriate to that position. A fragment in place of a declaration
// is rejected.
package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/internal/idalloc"
	"github.com/emberlang/ember/lexer"
	"github.com/emberlang/ember/source"
	"github.com/emberlang/ember/token"
)

// Options controls serialization, per spec.md §6.1's enumerated struct
// `{includeSpans=true, pretty=false}`.
type Options struct {
	IncludeSpans bool
	Pretty       bool
}

// NewOptions returns the spec-mandated defaults: spans included, compact
// output.
func NewOptions() Options {
	return Options{IncludeSpans: true}
}

// SerializeProgram renders prog as a JSON string under opts.
func SerializeProgram(prog *ast.Program, opts Options) (string, error) {
	v := ProgramToJSON(prog, opts)
	var (
		b   []byte
		err error
	)
	if opts.Pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ProgramToJSON renders prog as an in-memory JSON value (a tree of
// map[string]any / []any / string / json.Number, ready for json.Marshal or
// further inspection without round-tripping through text).
func ProgramToJSON(prog *ast.Program, opts Options) any {
	e := &encoder{opts: opts}
	return e.program(prog)
}

// DeserializeError is one failure encountered while decoding, located by a
// JSON-path-like string (e.g. "decls[2].body.stmts[0]") so a caller can
// point a user at the offending fragment.
type DeserializeError struct {
	Path    string
	Message string
}

func (e DeserializeError) Error() string { return fmt.Sprintf("%s: %s", e.Path, e.Message) }

// DeserializeProgram accepts either a JSON string or an already-decoded
// JSON value (map[string]any, produced by encoding/json or by
// ProgramToJSON) and attempts to reconstruct a Program from it. It returns
// ok=true only when errs is empty, per spec.md §6.1's
// "(ok, program?, errors[])" contract. An expression, type, pattern or
// statement position in the input may alternatively be a source fragment
// `{source, file?}`, decoded by lexing and parsing that string with the
// standalone entry point appropriate to the position (spec.md §4.8); a
// fragment at declaration position is reported as a DeserializeError.
func DeserializeProgram(input any) (ok bool, prog *ast.Program, errs []DeserializeError) {
	defer func() {
		if r := recover(); r != nil {
			ok, prog = false, nil
			errs = []DeserializeError{{Path: "$", Message: fmt.Sprintf("internal compiler error: %v", r)}}
		}
	}()

	var v any
	switch in := input.(type) {
	case string:
		if err := json.Unmarshal([]byte(in), &v); err != nil {
			return false, nil, []DeserializeError{{Path: "$", Message: "invalid JSON: " + err.Error()}}
		}
	default:
		v = input
	}

	d := &decoder{}
	prog = d.decodeProgram(v, "$")
	if len(d.errs) > 0 {
		return false, nil, d.errs
	}
	return true, prog, nil
}

type encoder struct {
	opts Options
}

func (e *encoder) spanOf(n ast.Node) any {
	if !e.opts.IncludeSpans {
		return nil
	}
	sp := n.Span()
	if sp.File == nil {
		return nil
	}
	return map[string]any{
		"file":  sp.File.Path(),
		"start": positionJSON(sp.StartPos()),
		"end":   positionJSON(sp.EndPos()),
	}
}

func positionJSON(p source.Position) map[string]any {
	return map[string]any{"line": p.Line, "column": p.Column, "offset": p.Offset}
}

func withSpan(obj map[string]any, span any) map[string]any {
	if span != nil {
		obj["span"] = span
	}
	return obj
}

// decoder accumulates errors by JSON path as it walks a generic decoded
// JSON value, in the same accumulate-then-report style as report.Report:
// decoding does not stop at the first error, so a caller sees every
// malformed position in one pass.
type decoder struct {
	errs  []DeserializeError
	a     *idalloc.Allocator
	files map[string]*source.Index
}

// spanFrom reconstructs a Span from a serialized span object (the "span"
// field withSpan attaches: {file, start: {line,column,offset}, end: {...}}),
// per spec.md §8's round-trip invariant. Nodes sharing a file path share
// the same *source.Index, so spans decoded from the same document compare
// equal on File the way spans produced by a single lexer pass would. v is
// nil (IncludeSpans was false, or the node is synthetic) returns the zero
// Span, matching a fresh canon-fabricated node.
func (d *decoder) spanFrom(v any) source.Span {
	obj, ok := v.(map[string]any)
	if !ok {
		return source.Span{}
	}
	path, _ := obj["file"].(string)
	if d.files == nil {
		d.files = map[string]*source.Index{}
	}
	idx, ok := d.files[path]
	if !ok {
		idx = source.NewIndex(source.File{Path: path})
		d.files[path] = idx
	}
	return idx.Span(offsetOf(obj["start"]), offsetOf(obj["end"]))
}

func offsetOf(v any) int {
	m, ok := v.(map[string]any)
	if !ok {
		return 0
	}
	f, _ := m["offset"].(float64)
	return int(f)
}

func (d *decoder) fail(path, format string, args ...any) {
	d.errs = append(d.errs, DeserializeError{Path: path, Message: fmt.Sprintf(format, args...)})
}

func asObject(v any, path string, d *decoder) (map[string]any, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		d.fail(path, "expected a JSON object, got %T", v)
		return nil, false
	}
	return obj, true
}

func asArray(v any, path string, d *decoder) ([]any, bool) {
	if v == nil {
		return nil, true
	}
	arr, ok := v.([]any)
	if !ok {
		d.fail(path, "expected a JSON array, got %T", v)
		return nil, false
	}
	return arr, true
}

func asString(v any, path string, d *decoder) (string, bool) {
	s, ok := v.(string)
	if !ok {
		d.fail(path, "expected a string, got %T", v)
		return "", false
	}
	return s, true
}

func kindOf(obj map[string]any) (string, bool) {
	k, ok := obj["kind"]
	if !ok {
		return "", false
	}
	s, ok := k.(string)
	return s, ok
}

// isFragment reports whether obj is a hybrid source-fragment object
// (spec.md §4.8: "{source: string, file?: string}") rather than a
// kind-tagged node object.
func isFragment(obj map[string]any) bool {
	_, hasSource := obj["source"]
	_, hasKind := obj["kind"]
	return hasSource && !hasKind
}

// fragmentTokens lexes a source-fragment object's "source" text (and
// optional "file" label) into tokens, reporting lex errors against path.
// Each decode*-level caller then feeds the tokens to the parser's
// standalone entry point matching its own recursive position (e.g.
// parser.ParseExpression for an expression position), per spec.md §4.8.
func fragmentTokens(obj map[string]any, path string, d *decoder) ([]token.Token, bool) {
	src, ok := asString(obj["source"], path+".source", d)
	if !ok {
		return nil, false
	}
	file := "<fragment>"
	if f, ok := obj["file"]; ok {
		if s, ok := asString(f, path+".file", d); ok {
			file = s
		}
	}
	toks, rep := lexer.Lex(source.File{Path: file, Text: src})
	for _, diag := range rep.Diagnostics() {
		d.fail(path, "fragment lex error: %s", diag.Message)
	}
	if !rep.Success() {
		return nil, false
	}
	return toks, true
}
