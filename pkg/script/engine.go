// Package script runs JavaScript against a view: scripts edit the
// document, move the cursor and change the layout width.
package script

import (
	"fmt"
	"io"
	"os"

	"github.com/dop251/goja"

	"vexlayout/pkg/view"
)

// Engine executes scripts against one view.
type Engine struct {
	vm   *goja.Runtime
	view *view.View
}

type Option func(*config)

type config struct {
	stdout io.Writer
	stderr io.Writer
}

// WithOutput redirects console.log to stdout and console.warn and
// console.error to stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *config) { c.stdout, c.stderr = stdout, stderr }
}

// New creates an engine with a fresh goja runtime bound to v.
func New(v *view.View, opts ...Option) *Engine {
	c := config{stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(&c)
	}
	vm := goja.New()
	e := &Engine{vm: vm, view: v}

	(&consoleAPI{stdout: c.stdout, stderr: c.stderr}).register(vm)
	registerDocument(vm, v)
	registerCursor(vm, v)
	vm.Set("layout", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			v.SetWidth(int(call.Arguments[0].ToInteger()))
		}
		v.Layout()
		return vm.ToValue(v.Height())
	})
	return e
}

// Run executes scripts in order and stops at the first error.
func (e *Engine) Run(scripts ...string) error {
	for i, script := range scripts {
		if _, err := e.vm.RunString(script); err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
	}
	return nil
}
