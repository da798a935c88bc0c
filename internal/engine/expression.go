package engine

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// CompileConditionExpression compiles an expression condition into an
// expr-lang program. The expression sees the responses map as `responses`
// and must yield a boolean.
func CompileConditionExpression(expression string) (*vm.Program, error) {
	prog, err := expr.Compile(expression, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile condition expression: %w", err)
	}
	return prog, nil
}

// evaluateExpression runs an expression condition, compiling lazily and
// caching the program in the condition's Compiled slot. Compile or run
// failures resolve to indeterminate; an expression condition can never take
// the resolvers down.
func evaluateExpression(compiled *any, expression string, responses ResponseMap) Outcome {
	prog, ok := (*compiled).(*vm.Program)
	if !ok || prog == nil {
		p, err := CompileConditionExpression(expression)
		if err != nil {
			return OutcomeIndeterminate
		}
		*compiled = p
		prog = p
	}

	env := map[string]any{
		"responses": map[string]any(responses),
	}
	result, err := expr.Run(prog, env)
	if err != nil {
		return OutcomeIndeterminate
	}
	met, ok := result.(bool)
	if !ok {
		return OutcomeIndeterminate
	}
	return boolOutcome(met)
}
