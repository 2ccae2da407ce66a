package probe

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/kolkov/threadglue/thread"
)

func init() {
	register(Probe{
		Name:        "spawn-join",
		Description: "N threads get distinct handles; each joins exactly once",
		Run:         spawnJoin,
	})
	register(Probe{
		Name:        "mutex-stress",
		Description: "threads x iterations locked increments sum exactly",
		Run:         mutexStress,
	})
	register(Probe{
		Name:        "signal-no-waiter",
		Description: "a signal with no waiter is not remembered",
		Run:         signalNoWaiter,
	})
	register(Probe{
		Name:        "wait-timeout",
		Description: "an unsignaled timed wait reports a timeout after at least the timeout",
		Run:         waitTimeout,
	})
	register(Probe{
		Name:        "once",
		Description: "concurrent Do calls run the initializer once and return after it",
		Run:         onceGate,
	})
	register(Probe{
		Name:        "cancel",
		Description: "cancellation runs cleanup and yields Canceled, or is refused without effect",
		Run:         cancelThread,
	})
	register(Probe{
		Name:        "round-trip",
		Description: "joined values arrive unchanged",
		Run:         roundTrip,
	})
}

func joinAll(handles []*thread.Thread) ([]any, error) {
	values := make([]any, len(handles))
	var merr *multierror.Error
	for i, th := range handles {
		v, err := th.Join()
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("join %s: %w", th, err))
		}
		values[i] = v
		if err := th.Free(); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("free %s: %w", th, err))
		}
	}
	return values, merr.ErrorOrNil()
}

func spawnJoin(_ context.Context, opts Options) error {
	handles := make([]*thread.Thread, 0, opts.Threads)
	seen := make(map[uint64]bool, opts.Threads)
	for i := range opts.Threads {
		th, err := thread.Create(func(arg any) any { return arg }, i)
		if err != nil {
			_, _ = joinAll(handles)
			return fmt.Errorf("create thread %d: %w", i, err)
		}
		if seen[th.ID()] {
			return fmt.Errorf("duplicate handle id %d", th.ID())
		}
		seen[th.ID()] = true
		handles = append(handles, th)
	}

	for _, th := range handles {
		if _, err := th.Join(); err != nil {
			return fmt.Errorf("first join of %s: %w", th, err)
		}
		if _, err := th.Join(); !errors.Is(err, thread.ErrJoin) {
			return fmt.Errorf("second join of %s returned %v, want ErrJoin", th, err)
		}
		if err := th.Free(); err != nil {
			return err
		}
	}
	return nil
}

func mutexStress(ctx context.Context, opts Options) error {
	m := thread.NewMutex()
	defer m.Destroy()

	counter := 0
	handles := make([]*thread.Thread, 0, opts.Threads)
	for range opts.Threads {
		th, err := thread.Create(func(any) any {
			for range opts.Iterations {
				m.Lock()
				counter++
				m.Unlock()
			}
			return nil
		}, nil)
		if err != nil {
			_, _ = joinAll(handles)
			return err
		}
		handles = append(handles, th)
	}

	if _, err := joinAll(handles); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if want := opts.Threads * opts.Iterations; counter != want {
		return fmt.Errorf("counter is %d, want %d", counter, want)
	}
	return nil
}

func signalNoWaiter(_ context.Context, opts Options) error {
	c, err := thread.NewCond()
	if err != nil {
		return err
	}
	defer c.Destroy()
	m := thread.NewMutex()

	if err := c.Signal(); err != nil {
		return err
	}

	m.Lock()
	err = c.WaitTimeout(m, opts.TimeoutMS)
	m.Unlock()

	if !errors.Is(err, thread.ErrTimedOut) {
		return fmt.Errorf("wait after an unobserved signal returned %v, want timeout", err)
	}
	return nil
}

func waitTimeout(_ context.Context, opts Options) error {
	c, err := thread.NewCond()
	if err != nil {
		return err
	}
	defer c.Destroy()
	m := thread.NewMutex()

	m.Lock()
	start := time.Now()
	err = c.WaitTimeout(m, opts.TimeoutMS)
	elapsed := time.Since(start)
	m.Unlock()

	if !errors.Is(err, thread.ErrTimedOut) {
		return fmt.Errorf("wait returned %v, want timeout", err)
	}
	// Native waits may be rounded to the scheduler tick.
	const slack = 16 * time.Millisecond
	if want := time.Duration(opts.TimeoutMS) * time.Millisecond; elapsed+slack < want {
		return fmt.Errorf("timed out after %s, want at least %s", elapsed, want)
	}
	return nil
}

func onceGate(_ context.Context, opts Options) error {
	var (
		gate thread.Once
		runs atomic.Int32
		done atomic.Bool
	)

	handles := make([]*thread.Thread, 0, opts.Threads)
	for range opts.Threads {
		th, err := thread.Create(func(any) any {
			gate.Do(func() {
				runs.Add(1)
				time.Sleep(time.Millisecond)
				done.Store(true)
			})
			return done.Load()
		}, nil)
		if err != nil {
			_, _ = joinAll(handles)
			return err
		}
		handles = append(handles, th)
	}

	values, err := joinAll(handles)
	if err != nil {
		return err
	}
	for i, v := range values {
		if v != true {
			return fmt.Errorf("caller %d returned before the initializer completed", i)
		}
	}
	if n := runs.Load(); n != 1 {
		return fmt.Errorf("initializer ran %d times", n)
	}
	if gate.State() != thread.OnceDone {
		return fmt.Errorf("gate is %s, want done", gate.State())
	}
	return nil
}

func cancelThread(_ context.Context, _ Options) error {
	var cleaned atomic.Bool
	stop := make(chan struct{})
	running := make(chan struct{})

	th, err := thread.Create(func(any) any {
		thread.CleanupPush(func(any) { cleaned.Store(true) }, nil)
		close(running)
		for {
			select {
			case <-stop:
				thread.CleanupPop(false)
				return "finished"
			default:
				thread.TestCancel()
				time.Sleep(time.Millisecond)
			}
		}
	}, nil)
	if err != nil {
		return err
	}
	defer th.Free()
	<-running

	cerr := th.Cancel()
	if thread.GetInfo().CancelSupported {
		if cerr != nil {
			close(stop)
			return fmt.Errorf("cancel: %w", cerr)
		}
		v, err := th.Join()
		close(stop)
		if err != nil {
			return err
		}
		if v != thread.Canceled {
			return fmt.Errorf("join returned %v, want Canceled", v)
		}
		if !cleaned.Load() {
			return errors.New("cleanup action did not run")
		}
		return nil
	}

	if !errors.Is(cerr, thread.ErrCancel) {
		close(stop)
		return fmt.Errorf("cancel returned %v, want ErrCancel", cerr)
	}
	if !th.IsAlive() {
		close(stop)
		return errors.New("refused cancel terminated the target")
	}
	close(stop)
	v, err := th.Join()
	if err != nil {
		return err
	}
	if v != "finished" || cleaned.Load() {
		return fmt.Errorf("target did not finish normally: %v", v)
	}
	return nil
}

func roundTrip(_ context.Context, opts Options) error {
	type box struct{ n int }

	want := make([]any, 0, opts.Threads+3)
	for i := range opts.Threads {
		want = append(want, &box{n: i})
	}
	want = append(want, ^uintptr(0), uintptr(0), nil)

	handles := make([]*thread.Thread, 0, len(want))
	for _, v := range want {
		th, err := thread.Create(func(arg any) any { return arg }, v)
		if err != nil {
			_, _ = joinAll(handles)
			return err
		}
		handles = append(handles, th)
	}

	got, err := joinAll(handles)
	if err != nil {
		return err
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("value %d: got %v, want %v", i, got[i], want[i])
		}
	}
	return nil
}
