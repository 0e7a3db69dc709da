package utils

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"go.viam.com/test"
)

func TestForEachIndexParallel(t *testing.T) {
	results := make([]int, 50)
	err := ForEachIndexParallel(context.Background(), len(results), 4, func(ctx context.Context, i int) error {
		results[i] = i * i
		return nil
	})
	test.That(t, err, test.ShouldBeNil)
	for i, v := range results {
		test.That(t, v, test.ShouldEqual, i*i)
	}

	test.That(t, ForEachIndexParallel(context.Background(), 0, 0, nil), test.ShouldBeNil)

	var inFlight, maxInFlight int32
	err = ForEachIndexParallel(context.Background(), 20, 2, func(ctx context.Context, i int) error {
		n := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			m := atomic.LoadInt32(&maxInFlight)
			if n <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, n) {
				break
			}
		}
		return nil
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, atomic.LoadInt32(&maxInFlight), test.ShouldBeLessThanOrEqualTo, 2)
}

func TestForEachIndexParallelErrors(t *testing.T) {
	bad := errors.New("bad")
	err := ForEachIndexParallel(context.Background(), 10, 1, func(ctx context.Context, i int) error {
		if i == 3 {
			return bad
		}
		return nil
	})
	test.That(t, err, test.ShouldEqual, bad)

	err = ForEachIndexParallel(context.Background(), 3, 1, func(ctx context.Context, i int) error {
		panic(1)
	})
	test.That(t, err, test.ShouldBeError, errors.New("got panic running index 0 in parallel: 1"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var calls int32
	err = ForEachIndexParallel(ctx, 10, 2, func(ctx context.Context, i int) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	test.That(t, err, test.ShouldEqual, context.Canceled)
	test.That(t, atomic.LoadInt32(&calls), test.ShouldEqual, 0)
}
