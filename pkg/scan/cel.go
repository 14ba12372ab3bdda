package scan

import (
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/checker/decls"
	"github.com/pkg/errors"
)

// celEvaluator compiles and caches the detection expressions of plugin
// descriptors. Programs see three variables: `status` (int), `body` (string)
// and `render` (string, the expanded expected output of the probe).
type celEvaluator struct {
	env *cel.Env

	mu       sync.Mutex
	programs map[string]cel.Program
}

func newCelEvaluator() (*celEvaluator, error) {
	env, err := cel.NewEnv(cel.Declarations(
		decls.NewVar("status", decls.Int),
		decls.NewVar("body", decls.String),
		decls.NewVar("render", decls.String),
	))
	if err != nil {
		return nil, errors.Wrap(err, "could not create cel env")
	}
	return &celEvaluator{
		env:      env,
		programs: make(map[string]cel.Program),
	}, nil
}

func (e *celEvaluator) program(expression string) (cel.Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if prg, ok := e.programs[expression]; ok {
		return prg, nil
	}

	ast, iss := e.env.Compile(expression)
	if iss != nil && iss.Err() != nil {
		return nil, errors.Wrapf(iss.Err(), "invalid detection expression %q", expression)
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, errors.Wrapf(err, "could not build program for %q", expression)
	}
	e.programs[expression] = prg
	return prg, nil
}

// Eval runs one detection expression against a probe exchange.
func (e *celEvaluator) Eval(expression string, status int, body, render string) (bool, error) {
	prg, err := e.program(expression)
	if err != nil {
		return false, err
	}

	out, _, err := prg.Eval(map[string]interface{}{
		"status": status,
		"body":   body,
		"render": render,
	})
	if err != nil {
		return false, errors.Wrapf(err, "detection expression %q failed", expression)
	}

	matched, ok := out.Value().(bool)
	if !ok {
		return false, errors.Errorf("detection expression %q is not boolean", expression)
	}
	return matched, nil
}
