package core

import (
	"reflect"
)

// Outcome is the asynchronous result of a DoIt call. Whether the target returned, failed,
// panicked, or never got called because its arguments were bad, the result arrives through
// the same Wait.
type Outcome struct {
	returnChan chan []any
	failChan   chan error
	done       chan struct{}

	lastIsError bool
	returns     []any
	err         error
}

// Done is closed once the outcome is available.
func (o *Outcome) Done() <-chan struct{} {
	return o.done
}

// Wait blocks until the target has finished, then returns its return values and its
// failure, if any. When the target's last result type is error, that error is split off
// from the values: a non-nil one is the failure.
func (o *Outcome) Wait() ([]any, error) {
	<-o.done

	return o.returns, o.err
}

// collect waits for exactly one of the result channels and publishes it.
func (o *Outcome) collect() {
	select {
	case returns := <-o.returnChan:
		o.returns = returns

		if o.lastIsError {
			o.returns = returns[:len(returns)-1]
			o.err = trailingError(returns)
		}
	case err := <-o.failChan:
		o.err = err
	}

	close(o.done)
}

// failedOutcome is an outcome that completed with err before the target ran.
func failedOutcome(err error) *Outcome {
	outcome := newOutcome()
	outcome.failChan <- err

	go outcome.collect()

	return outcome
}

func newOutcome() *Outcome {
	return &Outcome{
		returnChan: make(chan []any, 1),
		failChan:   make(chan error, 1),
		done:       make(chan struct{}),
	}
}

// startCall calls function with args on its own goroutine.
func startCall(function reflect.Value, args []reflect.Value) *Outcome {
	outcome := newOutcome()

	funcType := function.Type()
	outcome.lastIsError = funcType.NumOut() > 0 && funcType.Out(funcType.NumOut()-1) == errorType

	go func() {
		finished := false

		defer func() {
			if finished {
				return
			}

			// recover is nil when the goroutine is exiting via runtime.Goexit
			if r := recover(); r != nil {
				outcome.failChan <- &PanicError{Value: r}
			} else {
				outcome.failChan <- ErrGoexit
			}
		}()

		var results []reflect.Value

		// the variadic param's default holds the whole slice
		if funcType.IsVariadic() {
			results = function.CallSlice(args)
		} else {
			results = function.Call(args)
		}

		finished = true

		returns := make([]any, len(results))
		for i, result := range results {
			returns[i] = result.Interface()
		}

		outcome.returnChan <- returns
	}()

	go outcome.collect()

	return outcome
}

//nolint:gochecknoglobals // reflect type constant
var errorType = reflect.TypeFor[error]()

// trailingError returns the last return value when it is a non-nil error.
func trailingError(returns []any) error {
	if len(returns) == 0 {
		return nil
	}

	err, _ := returns[len(returns)-1].(error)

	return err
}
