package archivers

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/gziptool/gziptool/internal/engine"
)

// Filter selects entries with a CEL expression over the variables
// name (string) and size (int), e.g. `name.endsWith(".txt") && size < 1024`.
// A nil *Filter matches every entry.
type Filter struct {
	expr string
	prg  cel.Program
}

// NewFilter compiles expr. An empty expression returns a nil filter.
func NewFilter(expr string) (*Filter, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}

	env, err := cel.NewEnv(
		cel.Variable("name", cel.StringType),
		cel.Variable("size", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create filter environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, engine.UsageError("compile filter", issues.Err())
	}

	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, engine.UsageError("compile filter", fmt.Errorf("expression %q returns %s, want bool", expr, ast.OutputType()))
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, engine.UsageError("compile filter", err)
	}

	return &Filter{expr: expr, prg: prg}, nil
}

// Match evaluates the filter against h.
func (f *Filter) Match(h Header) (bool, error) {
	if f == nil {
		return true, nil
	}

	out, _, err := f.prg.Eval(map[string]any{
		"name": h.Name,
		"size": h.Size,
	})
	if err != nil {
		return false, engine.UsageError("evaluate filter", fmt.Errorf("entry %q: %w", h.Name, err))
	}

	matched, ok := out.Value().(bool)
	if !ok {
		return false, engine.UsageError("evaluate filter", fmt.Errorf("entry %q: result %v is not a bool", h.Name, out.Value()))
	}
	return matched, nil
}

func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.expr
}
