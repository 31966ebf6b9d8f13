package autobet

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dop251/goja"
)

// LogEntry is a single log message emitted by the strategy script.
type LogEntry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// VM wraps a goja runtime with sandbox restrictions. The script defines
// a dobet() function; the runner pushes betting variables in before
// each call and reads the script's decisions back out afterwards.
type VM struct {
	runtime *goja.Runtime
	mu      sync.Mutex

	logs    []LogEntry
	logsMu  sync.Mutex
	maxLogs int

	stopRequested atomic.Bool

	// Set when a script outlives its interrupt grace period. The
	// abandoned goroutine may still hold mu, so every entry point must
	// bail out instead of locking; the runner discards the VM.
	discarded atomic.Bool
}

const (
	scriptInitTimeout = 2 * time.Second
	scriptCallTimeout = 1 * time.Second
)

// NewVM creates a sandboxed goja runtime.
func NewVM() *VM {
	vm := &VM{
		runtime: goja.New(),
		maxLogs: 500,
	}
	vm.injectGlobals()
	return vm
}

func (vm *VM) injectGlobals() {
	// log(...args) appends to the session log buffer
	vm.runtime.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		msg := strings.Join(parts, " ")

		vm.logsMu.Lock()
		if len(vm.logs) >= vm.maxLogs {
			vm.logs = vm.logs[1:]
		}
		vm.logs = append(vm.logs, LogEntry{Time: time.Now(), Message: msg})
		vm.logsMu.Unlock()

		return goja.Undefined()
	})

	// console.log aliases log
	console := vm.runtime.NewObject()
	console.Set("log", vm.runtime.Get("log"))
	vm.runtime.Set("console", console)

	// stop() ends the session after the current bet settles. The flag
	// is atomic: the callback runs while the script holds mu.
	vm.runtime.Set("stop", func(call goja.FunctionCall) goja.Value {
		vm.stopRequested.Store(true)
		return goja.Undefined()
	})

	// Block escape hatches; the script only sees betting variables.
	vm.runtime.Set("require", goja.Undefined())
	vm.runtime.Set("fetch", goja.Undefined())
	vm.runtime.Set("XMLHttpRequest", goja.Undefined())
	vm.runtime.Set("eval", goja.Undefined())
	vm.runtime.Set("Function", goja.Undefined())
}

// Execute runs the script source once, registering dobet().
func (vm *VM) Execute(source string) error {
	return vm.runWithTimeout(scriptInitTimeout, func() error {
		vm.mu.Lock()
		defer vm.mu.Unlock()
		_, err := vm.runtime.RunString(source)
		if err != nil {
			return fmt.Errorf("script execution error: %w", err)
		}
		return nil
	})
}

// CallDobet invokes the script's dobet() function.
func (vm *VM) CallDobet() error {
	return vm.runWithTimeout(scriptCallTimeout, func() error {
		vm.mu.Lock()
		defer vm.mu.Unlock()

		fn := vm.runtime.Get("dobet")
		if fn == nil || goja.IsUndefined(fn) || goja.IsNull(fn) {
			return fmt.Errorf("dobet() function is not defined")
		}
		callable, ok := goja.AssertFunction(fn)
		if !ok {
			return fmt.Errorf("dobet is not a function")
		}
		if _, err := callable(goja.Undefined()); err != nil {
			return fmt.Errorf("dobet() error: %w", err)
		}
		return nil
	})
}

// Set pushes one global variable into the runtime.
func (vm *VM) Set(name string, value any) {
	if vm.discarded.Load() {
		return
	}
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.runtime.Set(name, value)
}

// Number reads a numeric global back from the runtime.
func (vm *VM) Number(name string) float64 {
	if vm.discarded.Load() {
		return 0
	}
	vm.mu.Lock()
	defer vm.mu.Unlock()
	val := vm.runtime.Get(name)
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return 0
	}
	return val.ToFloat()
}

// Bool reads a boolean global back from the runtime.
func (vm *VM) Bool(name string) bool {
	if vm.discarded.Load() {
		return false
	}
	vm.mu.Lock()
	defer vm.mu.Unlock()
	val := vm.runtime.Get(name)
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return false
	}
	return val.ToBoolean()
}

// IsStopRequested reports whether the script called stop(). A
// discarded VM always reports stopped.
func (vm *VM) IsStopRequested() bool {
	return vm.discarded.Load() || vm.stopRequested.Load()
}

// Logs returns a copy of the session log buffer.
func (vm *VM) Logs() []LogEntry {
	vm.logsMu.Lock()
	defer vm.logsMu.Unlock()
	out := make([]LogEntry, len(vm.logs))
	copy(out, vm.logs)
	return out
}

func (vm *VM) runWithTimeout(timeout time.Duration, fn func() error) error {
	if vm.discarded.Load() {
		return fmt.Errorf("script runtime was discarded after a timeout")
	}

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		// Interrupt a runaway script execution. The interrupt sticks,
		// so the runtime is unusable either way.
		vm.runtime.Interrupt("script execution timeout")
		vm.discarded.Store(true)
		select {
		case err := <-done:
			if err != nil {
				return fmt.Errorf("script timed out: %w", err)
			}
			return fmt.Errorf("script timed out")
		case <-time.After(200 * time.Millisecond):
			// The goroutine ignored the interrupt and may never release
			// mu; it is abandoned along with the runtime.
			return fmt.Errorf("script timed out")
		}
	}
}
