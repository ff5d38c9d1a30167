package core_test

import (
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/toejough/casetest/internal/core"
)

// fakeReporter records failures. Like testing.T, Fatalf stops the calling goroutine.
type fakeReporter struct {
	mu       sync.Mutex
	failures []string
}

func (r *fakeReporter) Failures() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.failures...)
}

func (r *fakeReporter) Fatalf(format string, args ...any) {
	r.mu.Lock()
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
	r.mu.Unlock()

	runtime.Goexit()
}

func (r *fakeReporter) Helper() {}

// fakeRunner runs each registered body to completion on its own goroutine, the way
// t.Run does, and keeps what it reported.
type fakeRunner struct {
	tests []registeredTest
}

func (f *fakeRunner) Register(name string, body func(t core.TestReporter)) {
	reporter := &fakeReporter{}
	done := make(chan struct{})

	go func() {
		defer close(done)

		body(reporter)
	}()

	<-done

	f.tests = append(f.tests, registeredTest{name: name, reporter: reporter})
}

type registeredTest struct {
	name     string
	reporter *fakeReporter
}

func (r registeredTest) Failure() string {
	return strings.Join(r.reporter.Failures(), "\n")
}

func (r registeredTest) Passed() bool {
	return len(r.reporter.Failures()) == 0
}

// checkArgs wants a string and a non-nil map, and returns 1.
func checkArgs(arg1 string, arg2 map[string]any) (int, error) {
	if arg2 == nil {
		return 0, fmt.Errorf("%w: arg2 must be a map", core.ErrBadArgType)
	}

	_ = arg1

	return 1, nil
}

// newTesty builds the template most tests start from: checkArgs with valid defaults and a
// validator expecting 1.
func newTesty(runner *fakeRunner) *core.TestCase {
	tc := core.New(core.Require, runner.Register).Declare(checkArgs, "arg1", "arg2")
	tc.Set("arg1", "test").Set("arg2", core.Args{"foo": "bar"})
	tc.ValidateReturn = func(returns []any) bool {
		return len(returns) == 1 && returns[0] == 1
	}

	return tc
}
