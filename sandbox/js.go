package sandbox

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/dop251/goja"
)

// JSEngine executes snippets as ECMAScript using an embedded interpreter.
//
// Every execution gets a fresh interpreter instance, so no state leaks
// between executions and concurrent executions never share a runtime. The
// interpreter itself has no file, process, or network intrinsics; the only
// capabilities inside a snippet are the injected helpers and the inert
// built-in data utilities. eval and the Function constructor are removed
// from the global scope before the snippet runs.
type JSEngine struct{}

var _ Engine = (*JSEngine)(nil)

// NewJSEngine creates the default interpreter engine.
func NewJSEngine() *JSEngine {
	return &JSEngine{}
}

// sourceName is the file name used in interpreter error positions.
const sourceName = "snippet.js"

// Execute compiles and runs the snippet with the helper environment bound
// into its global scope.
func (e *JSEngine) Execute(ctx context.Context, params ExecuteParams, env *Env) (ExecuteResult, error) {
	prog, err := goja.Compile(sourceName, params.Code, false)
	if err != nil {
		return ExecuteResult{}, syntaxError(err)
	}

	vm := goja.New()
	if err := restrict(vm); err != nil {
		return ExecuteResult{}, err
	}
	bind(ctx, vm, env)

	// The interrupt lands at the interpreter's next instruction; a tool
	// call blocked on I/O observes ctx directly through its own context.
	watchdogDone := make(chan struct{})
	defer close(watchdogDone)
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-watchdogDone:
		}
	}()

	completion, runErr := vm.RunProgram(prog)
	if runErr != nil {
		return ExecuteResult{}, classifyRunError(ctx, runErr)
	}

	return ExecuteResult{Value: resultValue(vm, completion)}, nil
}

// hardenProg severs the dynamic-evaluation intrinsics that stay reachable
// through the prototype chain after the global bindings are deleted: every
// function value leads back to the Function constructor via
// `fn.constructor`, so `[].constructor.constructor("...")` would compile new
// code. The constructor slot on each function prototype is replaced with a
// frozen throwing stub, covering plain, generator, async, and async
// generator functions.
var hardenProg = goja.MustCompile("harden.js", `
(function() {
	"use strict";
	var deny = function() {
		throw new TypeError("dynamic code evaluation is disabled");
	};
	var sever = function(proto) {
		Object.defineProperty(proto, "constructor", {
			value: deny, writable: false, configurable: false, enumerable: false
		});
	};
	sever(Object.getPrototypeOf(function() {}));
	sever(Object.getPrototypeOf(function*() {}));
	sever(Object.getPrototypeOf(async function() {}));
	sever(Object.getPrototypeOf(async function*() {}));
})();
`, true)

// restrict removes the dynamic-evaluation primitives: the global eval and
// Function bindings are deleted and the constructor escape hatches on the
// function prototypes are severed. Capability restriction is otherwise
// structural: the interpreter exposes no I/O at all, so there is nothing
// else to take away.
func restrict(vm *goja.Runtime) error {
	if _, err := vm.RunProgram(hardenProg); err != nil {
		return fmt.Errorf("%w: hardening interpreter: %v", ErrConfiguration, err)
	}
	global := vm.GlobalObject()
	_ = global.Delete("eval")
	_ = global.Delete("Function")
	return nil
}

// bind injects the helper surface into the interpreter's global scope. The
// execution context is captured so every tool call started by this snippet
// is cancelled when the execution's budget expires.
func bind(ctx context.Context, vm *goja.Runtime, env *Env) {
	_ = vm.Set("list_servers", func() []map[string]any {
		return env.ListServers()
	})

	_ = vm.Set("get_tool_names", func(server string) any {
		return env.GetToolNames(server)
	})

	_ = vm.Set("describe", func(call goja.FunctionCall) goja.Value {
		server := stringArg(call, 0)
		tool := stringArg(call, 1)
		detail := stringArg(call, 2)
		return vm.ToValue(env.Describe(server, tool, detail))
	})

	_ = vm.Set("search", func(call goja.FunctionCall) goja.Value {
		query := stringArg(call, 0)
		limit := 0
		if arg := call.Argument(1); !goja.IsUndefined(arg) && !goja.IsNull(arg) {
			limit = int(arg.ToInteger())
		}
		return vm.ToValue(env.Search(query, limit))
	})

	_ = vm.Set("create_proxy", func(server, tool string) goja.Value {
		p := env.CreateProxy(server, tool)
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			args := mapArg(call, 0)
			return vm.ToValue(env.CallProxy(ctx, p, args))
		})
	})

	printFn := func(call goja.FunctionCall) goja.Value {
		parts := make([]any, 0, len(call.Arguments))
		for _, arg := range call.Arguments {
			parts = append(parts, formatValue(arg))
		}
		env.Println(parts...)
		return goja.Undefined()
	}
	_ = vm.Set("println", printFn)

	console := vm.NewObject()
	_ = console.Set("log", printFn)
	_ = console.Set("warn", printFn)
	_ = console.Set("error", printFn)
	_ = vm.Set("console", console)
}

// stringArg returns the nth argument as a string, or "" when absent.
func stringArg(call goja.FunctionCall, n int) string {
	arg := call.Argument(n)
	if goja.IsUndefined(arg) || goja.IsNull(arg) {
		return ""
	}
	return arg.String()
}

// mapArg returns the nth argument exported as a keyword-argument map.
func mapArg(call goja.FunctionCall, n int) map[string]any {
	arg := call.Argument(n)
	if goja.IsUndefined(arg) || goja.IsNull(arg) {
		return nil
	}
	if m, ok := arg.Export().(map[string]any); ok {
		return m
	}
	return nil
}

// formatValue renders a value for printed output. Objects and arrays render
// as their exported Go shapes.
func formatValue(v goja.Value) any {
	if goja.IsUndefined(v) || goja.IsNull(v) {
		return "null"
	}
	return v.Export()
}

// resultValue extracts the snippet's final value: the `result` global if the
// snippet assigned one, otherwise the script completion value.
func resultValue(vm *goja.Runtime, completion goja.Value) any {
	if rv := vm.Get("result"); rv != nil && !goja.IsUndefined(rv) && !goja.IsNull(rv) {
		return rv.Export()
	}
	if completion == nil || goja.IsUndefined(completion) || goja.IsNull(completion) {
		return nil
	}
	return completion.Export()
}

// positionRe matches the "Line N:M" fragment of interpreter syntax errors.
var positionRe = regexp.MustCompile(`Line (\d+):(\d+)`)

// syntaxError converts a compile failure into a CodeError with position
// information when the message carries one.
func syntaxError(err error) error {
	ce := &CodeError{
		Message: err.Error(),
		Err:     ErrCodeExecution,
	}
	if m := positionRe.FindStringSubmatch(err.Error()); m != nil {
		ce.Line, _ = strconv.Atoi(m[1])
		ce.Column, _ = strconv.Atoi(m[2])
	}
	return ce
}

// classifyRunError maps interpreter failures onto the sandbox error
// taxonomy: interrupts become the context error (the executor reports
// deadline expiry as ErrTimeout), uncaught snippet exceptions become
// CodeError faults.
func classifyRunError(ctx context.Context, runErr error) error {
	var interrupted *goja.InterruptedError
	if errors.As(runErr, &interrupted) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("execution interrupted: %v", interrupted.Value())
	}

	var ex *goja.Exception
	if errors.As(runErr, &ex) {
		return &CodeError{
			Message: ex.Value().String(),
			Err:     ErrCodeExecution,
		}
	}

	return &CodeError{Message: runErr.Error(), Err: ErrCodeExecution}
}
