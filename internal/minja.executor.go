package internal

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Evaluator error message constants
const (
	ErrMsgBreakOutsideLoop    = "break outside of a loop"
	ErrMsgContinueOutsideLoop = "continue outside of a loop"
	ErrMsgStepBudget          = "render step budget exceeded"
	ErrFmtUndefinedVariable   = "'%s' is not defined"
	ErrFmtNoAttribute         = "'%s' object has no attribute '%s'"
	ErrFmtNotCallable         = "'%s' object is not callable"
	ErrFmtUnknownFilter       = "Unknown filter '%s'"
	ErrFmtUnknownTest         = "Unknown test '%s'"
	ErrFmtUnexpectedKwarg     = "unexpected keyword argument '%s'"
	ErrFmtCannotUnpack        = "Cannot unpack %d values into %d targets"
	ErrMsgSetAttrNonNamespace = "Cannot set attribute on non-namespace value"
	ErrMsgSliceIndexType      = "slice indices must be integers or None"
)

// flowSignal threads loop control through statement evaluation.
type flowSignal int

const (
	flowNormal flowSignal = iota
	flowBreak
	flowContinue
)

// EvalError represents a runtime rendering failure.
type EvalError struct {
	Message  string
	Position Position
	Cause    error
}

// NewEvalError creates a new evaluation error.
func NewEvalError(message string, pos Position) *EvalError {
	return &EvalError{Message: message, Position: pos}
}

// WrapEvalError attaches a position to an underlying error, unless it
// already carries one.
func WrapEvalError(err error, pos Position) error {
	if _, ok := err.(*EvalError); ok {
		return err
	}
	return &EvalError{Message: err.Error(), Position: pos, Cause: err}
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause error.
func (e *EvalError) Unwrap() error {
	return e.Cause
}

// Interp is the tree-walking evaluator. It renders a statement AST
// against a scope chain, buffering output so failed renders produce
// nothing.
type Interp struct {
	logger   *zap.Logger
	builtins *BuiltinRegistry
	maxSteps int
	steps    int
}

// NewInterp creates an evaluator. maxSteps of 0 disables the step budget.
func NewInterp(logger *zap.Logger, maxSteps int) *Interp {
	if logger == nil {
		logger = zap.NewNop()
	}
	builtins := NewBuiltinRegistry()
	RegisterBuiltinFilters(builtins)
	RegisterBuiltinTests(builtins)
	return &Interp{logger: logger, builtins: builtins, maxSteps: maxSteps}
}

// Execute renders a template root against a scope and returns the output.
func (in *Interp) Execute(root *RootNode, scope *Scope) (string, error) {
	in.logger.Debug(LogMsgExecutorStart)
	in.steps = 0

	var sb strings.Builder
	flow, err := in.renderNodes(root.Children, scope, &sb)
	if err != nil {
		return "", err
	}
	if err := flowError(flow, root.Pos()); err != nil {
		return "", err
	}

	in.logger.Debug(LogMsgExecutorEnd, zap.Int("outputLen", sb.Len()))
	return sb.String(), nil
}

// flowError converts an escaped loop control signal into an error.
func flowError(flow flowSignal, pos Position) error {
	switch flow {
	case flowBreak:
		return NewEvalError(ErrMsgBreakOutsideLoop, pos)
	case flowContinue:
		return NewEvalError(ErrMsgContinueOutsideLoop, pos)
	}
	return nil
}

// step charges one unit against the render budget.
func (in *Interp) step(pos Position) error {
	in.steps++
	if in.maxSteps > 0 && in.steps > in.maxSteps {
		return NewEvalError(ErrMsgStepBudget, pos)
	}
	return nil
}

func (in *Interp) renderNodes(nodes []Node, scope *Scope, sb *strings.Builder) (flowSignal, error) {
	for _, node := range nodes {
		flow, err := in.renderNode(node, scope, sb)
		if err != nil {
			return flowNormal, err
		}
		if flow != flowNormal {
			return flow, nil
		}
	}
	return flowNormal, nil
}

func (in *Interp) renderNode(node Node, scope *Scope, sb *strings.Builder) (flowSignal, error) {
	if err := in.step(node.Pos()); err != nil {
		return flowNormal, err
	}

	switch n := node.(type) {
	case *TextNode:
		sb.WriteString(n.Content)
		return flowNormal, nil

	case *OutputNode:
		v, err := in.evalExpr(n.Expr, scope)
		if err != nil {
			return flowNormal, err
		}
		sb.WriteString(v.ToString())
		return flowNormal, nil

	case *IfNode:
		for _, branch := range n.Branches {
			if branch.Cond != nil {
				cond, err := in.evalExpr(branch.Cond, scope)
				if err != nil {
					return flowNormal, err
				}
				if !cond.Truthy() {
					continue
				}
			}
			// if blocks do not open a scope, so sets inside them remain
			// visible after endif.
			return in.renderNodes(branch.Children, scope, sb)
		}
		return flowNormal, nil

	case *ForNode:
		return in.renderFor(n, scope, sb)

	case *MacroNode:
		scope.Set(n.Name, in.makeMacro(n, scope))
		return flowNormal, nil

	case *SetNode:
		return flowNormal, in.execSet(n, scope)

	case *SetBlockNode:
		var body strings.Builder
		flow, err := in.renderNodes(n.Children, scope, &body)
		if err != nil {
			return flowNormal, err
		}
		if err := flowError(flow, n.Pos()); err != nil {
			return flowNormal, err
		}
		scope.Set(n.Target, StringValue(body.String()))
		return flowNormal, nil

	case *FilterBlockNode:
		var body strings.Builder
		flow, err := in.renderNodes(n.Children, scope, &body)
		if err != nil {
			return flowNormal, err
		}
		if err := flowError(flow, n.Pos()); err != nil {
			return flowNormal, err
		}
		args, err := in.evalArgs(n.Args, scope)
		if err != nil {
			return flowNormal, err
		}
		v, err := in.applyFilter(n.Name, StringValue(body.String()), args, n.Pos())
		if err != nil {
			return flowNormal, err
		}
		sb.WriteString(v.ToString())
		return flowNormal, nil

	case *CallBlockNode:
		v, err := in.evalCallBlock(n, scope)
		if err != nil {
			return flowNormal, err
		}
		sb.WriteString(v.ToString())
		return flowNormal, nil

	case *GenerationNode:
		return in.renderNodes(n.Children, scope, sb)

	case *BreakNode:
		return flowBreak, nil

	case *ContinueNode:
		return flowContinue, nil
	}
	return flowNormal, NewEvalError(fmt.Sprintf("unknown node type %s", node.Type()), node.Pos())
}

// execSet performs an inline assignment.
func (in *Interp) execSet(n *SetNode, scope *Scope) error {
	value, err := in.evalExpr(n.Value, scope)
	if err != nil {
		return err
	}

	if n.NamespaceVar != "" {
		ns, ok := scope.Get(n.NamespaceVar)
		if !ok {
			return NewEvalError(fmt.Sprintf(ErrFmtUndefinedVariable, n.NamespaceVar), n.Pos())
		}
		if !ns.IsNamespace() {
			return NewEvalError(ErrMsgSetAttrNonNamespace, n.Pos())
		}
		ns.Dict().SetString(n.Attr, value)
		return nil
	}

	if len(n.Targets) == 1 {
		scope.Set(n.Targets[0], value)
		return nil
	}
	return bindTargets(scope, n.Targets, value, n.Pos())
}

// bindTargets binds a destructuring assignment of value to targets.
func bindTargets(scope *Scope, targets []string, value Value, pos Position) error {
	if len(targets) == 1 {
		scope.Set(targets[0], value)
		return nil
	}
	items, err := Iterate(value)
	if err != nil {
		return WrapEvalError(err, pos)
	}
	if len(items) != len(targets) {
		return NewEvalError(fmt.Sprintf(ErrFmtCannotUnpack, len(items), len(targets)), pos)
	}
	for i, name := range targets {
		scope.Set(name, items[i])
	}
	return nil
}

// renderFor evaluates the iterable and runs the loop, re-entering through
// the loop callable when the loop is recursive.
func (in *Interp) renderFor(n *ForNode, scope *Scope, sb *strings.Builder) (flowSignal, error) {
	iterable, err := in.evalExpr(n.Iterable, scope)
	if err != nil {
		return flowNormal, err
	}
	return in.runForLoop(n, scope, sb, iterable, 1)
}

func (in *Interp) runForLoop(n *ForNode, scope *Scope, sb *strings.Builder, iterable Value, depth int) (flowSignal, error) {
	items, err := Iterate(iterable)
	if err != nil {
		return flowNormal, WrapEvalError(err, n.Pos())
	}

	// The loop filter is applied up front so the loop object reflects the
	// filtered sequence.
	if n.Cond != nil {
		var kept []Value
		for _, item := range items {
			probe := NewScope(scope)
			if err := bindTargets(probe, n.Targets, item, n.Pos()); err != nil {
				return flowNormal, err
			}
			cond, err := in.evalExpr(n.Cond, probe)
			if err != nil {
				return flowNormal, err
			}
			if cond.Truthy() {
				kept = append(kept, item)
			}
		}
		items = kept
	}

	if len(items) == 0 {
		if n.Else != nil {
			return in.renderNodes(n.Else, NewScope(scope), sb)
		}
		return flowNormal, nil
	}

	for i, item := range items {
		if err := in.step(n.Pos()); err != nil {
			return flowNormal, err
		}
		iterScope := NewScope(scope)
		if err := bindTargets(iterScope, n.Targets, item, n.Pos()); err != nil {
			return flowNormal, err
		}
		iterScope.Set("loop", in.makeLoopObject(n, scope, items, i, depth))

		flow, err := in.renderNodes(n.Children, iterScope, sb)
		if err != nil {
			return flowNormal, err
		}
		if flow == flowBreak {
			break
		}
	}
	return flowNormal, nil
}

// makeLoopObject builds the per-iteration loop variable. For recursive
// loops the object is callable and re-runs the loop body one level
// deeper.
func (in *Interp) makeLoopObject(n *ForNode, scope *Scope, items []Value, i, depth int) Value {
	length := len(items)
	loop := DictValue()
	d := loop.Dict()
	d.SetString("index0", IntValue(int64(i)))
	d.SetString("index", IntValue(int64(i+1)))
	d.SetString("revindex0", IntValue(int64(length-1-i)))
	d.SetString("revindex", IntValue(int64(length-i)))
	d.SetString("first", BoolValue(i == 0))
	d.SetString("last", BoolValue(i == length-1))
	d.SetString("length", IntValue(int64(length)))
	d.SetString("depth", IntValue(int64(depth)))
	d.SetString("depth0", IntValue(int64(depth-1)))
	if i > 0 {
		d.SetString("previtem", items[i-1])
	} else {
		d.SetString("previtem", NoneValue())
	}
	if i < length-1 {
		d.SetString("nextitem", items[i+1])
	} else {
		d.SetString("nextitem", NoneValue())
	}

	index := i
	d.SetString("cycle", CallableValue("cycle", func(_ *Interp, args *Arguments) (Value, error) {
		if len(args.Positional) == 0 {
			return Value{}, fmt.Errorf("cycle expects at least one argument")
		}
		return args.Positional[index%len(args.Positional)], nil
	}))

	if n.Recursive {
		d.SetString("__call__", CallableValue("loop", func(in2 *Interp, args *Arguments) (Value, error) {
			var sub strings.Builder
			flow, err := in2.runForLoop(n, scope, &sub, args.At(0), depth+1)
			if err != nil {
				return Value{}, err
			}
			if err := flowError(flow, n.Pos()); err != nil {
				return Value{}, err
			}
			return StringValue(sub.String()), nil
		}))
	}
	return loop
}

// makeMacro builds the callable for a macro definition. Parameter
// defaults are evaluated fresh at every call so mutable defaults are not
// shared between invocations.
func (in *Interp) makeMacro(n *MacroNode, defScope *Scope) Value {
	return CallableValue(n.Name, func(in2 *Interp, args *Arguments) (Value, error) {
		callScope := NewScope(defScope)

		bound := make([]bool, len(n.Params))
		for i, v := range args.Positional {
			if i >= len(n.Params) {
				return Value{}, NewEvalError(
					fmt.Sprintf("macro '%s' takes at most %d arguments", n.Name, len(n.Params)), n.Pos())
			}
			callScope.Set(n.Params[i].Name, v)
			bound[i] = true
		}
		for _, kw := range args.Keyword {
			found := false
			for i, param := range n.Params {
				if param.Name == kw.Name {
					callScope.Set(param.Name, kw.Val)
					bound[i] = true
					found = true
					break
				}
			}
			if !found {
				return Value{}, NewEvalError(fmt.Sprintf(ErrFmtUnexpectedKwarg, kw.Name), n.Pos())
			}
		}
		for i, param := range n.Params {
			if bound[i] {
				continue
			}
			if param.Default != nil {
				v, err := in2.evalExpr(param.Default, callScope)
				if err != nil {
					return Value{}, err
				}
				callScope.Set(param.Name, v)
			} else {
				callScope.Set(param.Name, NoneValue())
			}
		}
		if args.Caller != nil {
			callScope.Set("caller", Value{kind: KindCallable, call: args.Caller})
		}

		var sb strings.Builder
		flow, err := in2.renderNodes(n.Children, callScope, &sb)
		if err != nil {
			return Value{}, err
		}
		if err := flowError(flow, n.Pos()); err != nil {
			return Value{}, err
		}
		return StringValue(sb.String()), nil
	})
}

// evalCallBlock invokes a macro with the block body exposed as caller().
func (in *Interp) evalCallBlock(n *CallBlockNode, scope *Scope) (Value, error) {
	callee, err := in.evalExpr(n.Call.Callee, scope)
	if err != nil {
		return Value{}, err
	}
	args, err := in.evalArgs(n.Call.Args, scope)
	if err != nil {
		return Value{}, err
	}
	args.Caller = &Callable{Name: "caller", Fn: func(in2 *Interp, cargs *Arguments) (Value, error) {
		callerScope := NewScope(scope)
		for i, param := range n.CallerParams {
			if i < len(cargs.Positional) {
				callerScope.Set(param.Name, cargs.Positional[i])
			} else if param.Default != nil {
				v, err := in2.evalExpr(param.Default, callerScope)
				if err != nil {
					return Value{}, err
				}
				callerScope.Set(param.Name, v)
			} else {
				callerScope.Set(param.Name, NoneValue())
			}
		}
		var sb strings.Builder
		flow, err := in2.renderNodes(n.Children, callerScope, &sb)
		if err != nil {
			return Value{}, err
		}
		if err := flowError(flow, n.Pos()); err != nil {
			return Value{}, err
		}
		return StringValue(sb.String()), nil
	}}
	return in.callValue(callee, args, n.Pos())
}

// callValue invokes a callable value. Dicts carrying a __call__ entry,
// such as recursive loop objects, are callable too.
func (in *Interp) callValue(v Value, args *Arguments, pos Position) (Value, error) {
	if v.IsCallable() {
		result, err := v.Call().Fn(in, args)
		if err != nil {
			return Value{}, WrapEvalError(err, pos)
		}
		return result, nil
	}
	if v.Kind() == KindDict {
		if entry, ok := v.Dict().GetString("__call__"); ok && entry.IsCallable() {
			result, err := entry.Call().Fn(in, args)
			if err != nil {
				return Value{}, WrapEvalError(err, pos)
			}
			return result, nil
		}
	}
	return Value{}, NewEvalError(fmt.Sprintf(ErrFmtNotCallable, v.Kind()), pos)
}

// evalArgs evaluates an argument list, spreading star-unpacked iterables.
func (in *Interp) evalArgs(list ArgList, scope *Scope) (*Arguments, error) {
	args := &Arguments{}
	for _, a := range list.Positional {
		v, err := in.evalExpr(a.Expr, scope)
		if err != nil {
			return nil, err
		}
		if a.Unpack {
			items, err := Iterate(v)
			if err != nil {
				return nil, WrapEvalError(err, a.Expr.Pos())
			}
			args.Positional = append(args.Positional, items...)
		} else {
			args.Positional = append(args.Positional, v)
		}
	}
	for _, kw := range list.Keyword {
		v, err := in.evalExpr(kw.Expr, scope)
		if err != nil {
			return nil, err
		}
		args.Keyword = append(args.Keyword, KeywordArg{Name: kw.Name, Val: v})
	}
	return args, nil
}

func (in *Interp) evalExpr(expr ExprNode, scope *Scope) (Value, error) {
	if err := in.step(expr.Pos()); err != nil {
		return Value{}, err
	}

	switch e := expr.(type) {
	case *LiteralExpr:
		return e.Val, nil

	case *VariableExpr:
		v, _ := scope.Get(e.Name)
		return v, nil

	case *UnaryExpr:
		return in.evalUnary(e, scope)

	case *BinaryExpr:
		return in.evalBinary(e, scope)

	case *CondExpr:
		cond, err := in.evalExpr(e.Cond, scope)
		if err != nil {
			return Value{}, err
		}
		if cond.Truthy() {
			return in.evalExpr(e.Then, scope)
		}
		if e.Else == nil {
			return NoneValue(), nil
		}
		return in.evalExpr(e.Else, scope)

	case *ListExpr:
		items := make([]Value, len(e.Items))
		for i, item := range e.Items {
			v, err := in.evalExpr(item, scope)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return ArrayValue(items...), nil

	case *DictExpr:
		d := DictValue()
		for i := range e.Keys {
			key, err := in.evalExpr(e.Keys[i], scope)
			if err != nil {
				return Value{}, err
			}
			val, err := in.evalExpr(e.Values[i], scope)
			if err != nil {
				return Value{}, err
			}
			if err := d.Dict().Set(key, val); err != nil {
				return Value{}, WrapEvalError(err, e.Keys[i].Pos())
			}
		}
		return d, nil

	case *AttrExpr:
		base, err := in.evalBase(e.Base, scope, e.Pos())
		if err != nil {
			return Value{}, err
		}
		return in.getAttr(base, e.Name, e.Pos())

	case *IndexExpr:
		base, err := in.evalBase(e.Base, scope, e.Pos())
		if err != nil {
			return Value{}, err
		}
		key, err := in.evalExpr(e.Key, scope)
		if err != nil {
			return Value{}, err
		}
		v, err := Index(base, key)
		if err != nil {
			return Value{}, WrapEvalError(err, e.Pos())
		}
		return v, nil

	case *SliceExpr:
		return in.evalSlice(e, scope)

	case *CallExpr:
		callee, err := in.evalBase(e.Callee, scope, e.Pos())
		if err != nil {
			return Value{}, err
		}
		args, err := in.evalArgs(e.Args, scope)
		if err != nil {
			return Value{}, err
		}
		return in.callValue(callee, args, e.Pos())

	case *MethodExpr:
		base, err := in.evalBase(e.Base, scope, e.Pos())
		if err != nil {
			return Value{}, err
		}
		args, err := in.evalArgs(e.Args, scope)
		if err != nil {
			return Value{}, err
		}
		v, err := CallMethod(in, base, e.Name, args)
		if err != nil {
			return Value{}, WrapEvalError(err, e.Pos())
		}
		return v, nil

	case *FilterExpr:
		receiver, err := in.evalExpr(e.Base, scope)
		if err != nil {
			return Value{}, err
		}
		args, err := in.evalArgs(e.Args, scope)
		if err != nil {
			return Value{}, err
		}
		return in.applyFilter(e.Name, receiver, args, e.Pos())

	case *TestExpr:
		return in.evalTest(e, scope)
	}
	return Value{}, NewEvalError(fmt.Sprintf("unknown expression type %s", expr.Type()), expr.Pos())
}

// evalBase evaluates the base of an attribute, subscript, method or call
// expression. A bare undefined variable is an error here rather than a
// silent none, so `a.b` on a missing `a` names the actual problem.
func (in *Interp) evalBase(expr ExprNode, scope *Scope, pos Position) (Value, error) {
	if v, ok := expr.(*VariableExpr); ok {
		val, found := scope.Get(v.Name)
		if !found {
			return Value{}, NewEvalError(fmt.Sprintf(ErrFmtUndefinedVariable, v.Name), pos)
		}
		return val, nil
	}
	return in.evalExpr(expr, scope)
}

// getAttr implements dotted attribute access: key lookup on dicts, with
// missing keys yielding none.
func (in *Interp) getAttr(base Value, name string, pos Position) (Value, error) {
	switch base.Kind() {
	case KindDict:
		v, _ := base.Dict().GetString(name)
		return v, nil
	case KindNone:
		return NoneValue(), nil
	}
	return Value{}, NewEvalError(fmt.Sprintf(ErrFmtNoAttribute, base.Kind(), name), pos)
}

func (in *Interp) evalUnary(e *UnaryExpr, scope *Scope) (Value, error) {
	operand, err := in.evalExpr(e.Operand, scope)
	if err != nil {
		return Value{}, err
	}
	switch e.Op {
	case "not":
		return BoolValue(!operand.Truthy()), nil
	case "-":
		v, err := ArithNeg(operand)
		if err != nil {
			return Value{}, WrapEvalError(err, e.Pos())
		}
		return v, nil
	case "+":
		if !operand.IsNumber() {
			return Value{}, NewEvalError(fmt.Sprintf("%s for unary +: '%s'", ErrMsgBadOperand, operand.Kind()), e.Pos())
		}
		return operand, nil
	}
	return Value{}, NewEvalError(fmt.Sprintf("unknown unary operator '%s'", e.Op), e.Pos())
}

func (in *Interp) evalBinary(e *BinaryExpr, scope *Scope) (Value, error) {
	// and/or short-circuit and yield the deciding operand, as in Python.
	if e.Op == "and" || e.Op == "or" {
		left, err := in.evalExpr(e.Left, scope)
		if err != nil {
			return Value{}, err
		}
		if e.Op == "and" && !left.Truthy() {
			return left, nil
		}
		if e.Op == "or" && left.Truthy() {
			return left, nil
		}
		return in.evalExpr(e.Right, scope)
	}

	left, err := in.evalExpr(e.Left, scope)
	if err != nil {
		return Value{}, err
	}
	right, err := in.evalExpr(e.Right, scope)
	if err != nil {
		return Value{}, err
	}

	var v Value
	switch e.Op {
	case "+":
		v, err = ArithAdd(left, right)
	case "-":
		v, err = ArithSub(left, right)
	case "*":
		v, err = ArithMul(left, right)
	case "/":
		v, err = ArithDiv(left, right)
	case "//":
		v, err = ArithFloorDiv(left, right)
	case "%":
		v, err = ArithMod(left, right)
	case "~":
		v = Concat(left, right)
	case "==":
		v = BoolValue(left.Equal(right))
	case "!=":
		v = BoolValue(!left.Equal(right))
	case "<":
		var less bool
		less, err = left.Less(right)
		v = BoolValue(less)
	case ">":
		var less bool
		less, err = right.Less(left)
		v = BoolValue(less)
	case "<=":
		var greater bool
		greater, err = right.Less(left)
		v = BoolValue(!greater)
	case ">=":
		var less bool
		less, err = left.Less(right)
		v = BoolValue(!less)
	case "in":
		var found bool
		found, err = Contains(left, right)
		v = BoolValue(found)
	case "not in":
		var found bool
		found, err = Contains(left, right)
		v = BoolValue(!found)
	default:
		return Value{}, NewEvalError(fmt.Sprintf("unknown operator '%s'", e.Op), e.Pos())
	}
	if err != nil {
		return Value{}, WrapEvalError(err, e.Pos())
	}
	return v, nil
}

func (in *Interp) evalSlice(e *SliceExpr, scope *Scope) (Value, error) {
	base, err := in.evalBase(e.Base, scope, e.Pos())
	if err != nil {
		return Value{}, err
	}

	bound := func(expr ExprNode) (*int, error) {
		if expr == nil {
			return nil, nil
		}
		v, err := in.evalExpr(expr, scope)
		if err != nil {
			return nil, err
		}
		if v.IsNone() {
			return nil, nil
		}
		if !v.IsNumber() {
			return nil, NewEvalError(ErrMsgSliceIndexType, e.Pos())
		}
		i := int(v.asInt())
		return &i, nil
	}

	start, err := bound(e.Start)
	if err != nil {
		return Value{}, err
	}
	stop, err := bound(e.Stop)
	if err != nil {
		return Value{}, err
	}
	step := 1
	if e.Step != nil {
		v, err := in.evalExpr(e.Step, scope)
		if err != nil {
			return Value{}, err
		}
		if !v.IsNone() {
			if !v.IsNumber() {
				return Value{}, NewEvalError(ErrMsgSliceIndexType, e.Pos())
			}
			step = int(v.asInt())
		}
	}

	v, err := SliceValue(base, start, stop, step)
	if err != nil {
		return Value{}, WrapEvalError(err, e.Pos())
	}
	return v, nil
}

func (in *Interp) evalTest(e *TestExpr, scope *Scope) (Value, error) {
	// defined/undefined inspect evaluability rather than a value.
	if e.Name == "defined" || e.Name == "undefined" {
		v, err := in.evalExpr(e.Base, scope)
		defined := err == nil && !v.IsNone()
		result := defined
		if e.Name == "undefined" {
			result = !defined
		}
		if e.Negated {
			result = !result
		}
		return BoolValue(result), nil
	}

	receiver, err := in.evalExpr(e.Base, scope)
	if err != nil {
		return Value{}, err
	}
	args, err := in.evalArgs(e.Args, scope)
	if err != nil {
		return Value{}, err
	}
	result, err := in.applyTest(e.Name, receiver, args, e.Pos())
	if err != nil {
		return Value{}, err
	}
	if e.Negated {
		result = !result
	}
	return BoolValue(result), nil
}
