package geo

import (
	"sync"
	"testing"
)

func TestAttempt_SingleTransition(t *testing.T) {
	a := NewAttempt()
	if a.Status() != StatusPending {
		t.Fatalf("Status() = %q, want pending", a.Status())
	}
	if err := a.Succeed(SourceNetwork); err != nil {
		t.Fatalf("Succeed() error = %v", err)
	}
	if err := a.Fail(); err != ErrAlreadySettled {
		t.Fatalf("Fail() after Succeed error = %v, want ErrAlreadySettled", err)
	}
	if err := a.Succeed(SourceDevice); err != ErrAlreadySettled {
		t.Fatalf("second Succeed() error = %v, want ErrAlreadySettled", err)
	}
	if a.Status() != StatusDone || a.Source() != SourceNetwork {
		t.Fatalf("state = %q/%q, want done/network", a.Status(), a.Source())
	}
}

func TestAttempt_FailKeepsNoSource(t *testing.T) {
	a := NewAttempt()
	if err := a.Fail(); err != nil {
		t.Fatalf("Fail() error = %v", err)
	}
	if err := a.Succeed(SourceDevice); err != ErrAlreadySettled {
		t.Fatalf("Succeed() after Fail error = %v", err)
	}
	if a.Status() != StatusError || a.Source() != "" {
		t.Fatalf("state = %q/%q, want error/empty", a.Status(), a.Source())
	}
}

func TestAttempt_ConcurrentSettleOnce(t *testing.T) {
	a := NewAttempt()
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var err error
			if i%2 == 0 {
				err = a.Succeed(SourceDevice)
			} else {
				err = a.Fail()
			}
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("%d transitions succeeded, want exactly 1", wins)
	}
}
