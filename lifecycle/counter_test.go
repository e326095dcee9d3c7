package lifecycle

import (
	"sync"
	"testing"
)

func TestCounterConcurrentAdd(t *testing.T) {
	var c Counter
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add(1)
		}()
	}
	wg.Wait()
	if c.Load() != 100 {
		t.Fatalf("got %d, want 100", c.Load())
	}
}

func TestCounterCloseValueRef(t *testing.T) {
	var c Counter
	c.Add(7)
	v := c.CloseValueRef()
	if v.Int != 7 {
		t.Fatalf("got %+v", v)
	}
	// CloseValueRef must not consume the counter.
	if c.Load() != 7 {
		t.Fatal("CloseValueRef must not reset the counter")
	}
}
