// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/meterio/meter-auction/co"
	"github.com/stretchr/testify/assert"
)

func TestGoes(t *testing.T) {
	defer leaktest.Check(t)()

	var g co.Goes
	var n int32
	for i := 0; i < 10; i++ {
		g.Go(func() { atomic.AddInt32(&n, 1) })
	}
	<-g.Done()
	assert.Equal(t, int32(10), atomic.LoadInt32(&n))
}

func TestSignal(t *testing.T) {
	defer leaktest.Check(t)()

	var sig co.Signal
	w := sig.NewWaiter()

	select {
	case <-w.C():
		t.Fatal("should not be signaled yet")
	default:
	}

	var g co.Goes
	g.Go(func() {
		time.Sleep(10 * time.Millisecond)
		sig.Broadcast()
	})
	select {
	case <-w.C():
	case <-time.After(time.Second):
		t.Fatal("waiter not woken")
	}
	g.Wait()

	select {
	case <-sig.NewWaiter().C():
		t.Fatal("new waiter sees an old signal")
	default:
	}
}
