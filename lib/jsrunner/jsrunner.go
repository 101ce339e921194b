// Package jsrunner executes JavaScript bundles, used to drive the elk.js
// layout solver in-process.
package jsrunner

import (
	"fmt"
	"os"

	"github.com/dop251/goja"
)

type JSValue interface {
	String() string
	Export() interface{}
}

type JSRunner struct {
	vm *goja.Runtime
}

type gojaValue struct {
	val goja.Value
}

func (v *gojaValue) String() string {
	return v.val.String()
}

func (v *gojaValue) Export() interface{} {
	return v.val.Export()
}

func NewJSRunner() *JSRunner {
	r := &JSRunner{vm: goja.New()}
	// scripts expect a console
	if console, err := r.createConsole(); err == nil {
		_ = r.vm.Set("console", console)
	}
	return r
}

func (r *JSRunner) RunString(code string) (JSValue, error) {
	val, err := r.vm.RunString(code)
	if err != nil {
		return nil, err
	}
	return &gojaValue{val: val}, nil
}

func (r *JSRunner) Set(name string, value interface{}) error {
	return r.vm.Set(name, value)
}

func (r *JSRunner) createConsole() (*goja.Object, error) {
	vm := r.vm
	console := vm.NewObject()

	if err := console.Set("log", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		args := make([]interface{}, len(call.Arguments))
		for i, arg := range call.Arguments {
			args[i] = arg.Export()
		}
		fmt.Fprintln(os.Stderr, args...)
		return nil
	})); err != nil {
		return nil, err
	}

	if err := console.Set("error", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		args := make([]interface{}, len(call.Arguments))
		for i, arg := range call.Arguments {
			args[i] = arg.Export()
		}
		fmt.Fprintln(os.Stderr, args...)
		return nil
	})); err != nil {
		return nil, err
	}

	if err := console.Set("warn", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		args := make([]interface{}, len(call.Arguments))
		for i, arg := range call.Arguments {
			args[i] = arg.Export()
		}
		fmt.Fprintln(os.Stderr, args...)
		return nil
	})); err != nil {
		return nil, err
	}

	return console, nil
}
