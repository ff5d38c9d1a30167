package core_test

// This file contains regression tests for data races between a call and its waiters.
// Run with -race.

import (
	"sync"
	"sync/atomic"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/toejough/casetest/internal/core"
)

// TestRaceRegression_ConcurrentWaiters has many goroutines wait on one outcome. Each must
// see the same values, published exactly once.
func TestRaceRegression_ConcurrentWaiters(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var calls atomic.Int32

	release := make(chan struct{})

	outcome := core.New(core.Require, (&fakeRunner{}).Register).
		Declare(func(n int) []int {
			calls.Add(1)
			<-release

			return []int{n, n}
		}, "n").
		Set("n", 7).
		DoIt()

	const waiters = 16

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results [][]any
	)

	for range waiters {
		wg.Add(1)

		go func() {
			defer wg.Done()

			returns, err := outcome.Wait()
			if err != nil {
				t.Errorf("Wait: %v", err)

				return
			}

			mu.Lock()
			results = append(results, returns)
			mu.Unlock()
		}()
	}

	close(release)
	wg.Wait()

	g.Expect(calls.Load()).To(Equal(int32(1)))
	g.Expect(results).To(HaveLen(waiters))

	for _, returns := range results {
		g.Expect(returns).To(Equal([]any{[]int{7, 7}}))
	}
}

// TestRaceRegression_IndependentTemplates runs separate templates of the same target in
// parallel. Templates share nothing, so none needs a lock.
func TestRaceRegression_IndependentTemplates(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup

	for i := range 32 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			tc := newTesty(&fakeRunner{}).Set("arg2.index", i)

			returns, err := tc.DoIt().Wait()
			if err != nil || !tc.ValidateReturn(returns) {
				t.Errorf("template %d: returns %v, err %v", i, returns, err)
			}

			if _, err := tc.ToObject(); err != nil {
				t.Errorf("template %d: ToObject: %v", i, err)
			}
		}()
	}

	wg.Wait()
}

// TestRaceRegression_DoneBeforeWait proves Done can be selected on while the target runs.
func TestRaceRegression_DoneBeforeWait(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	release := make(chan struct{})

	outcome := core.New(core.Require, (&fakeRunner{}).Register).
		Declare(func() string {
			<-release

			return "finished"
		}).
		DoIt()

	select {
	case <-outcome.Done():
		t.Fatal("outcome was done before the target returned")
	default:
	}

	close(release)
	<-outcome.Done()

	returns, err := outcome.Wait()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(returns).To(Equal([]any{"finished"}))
}
