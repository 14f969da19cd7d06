package cdp

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// StepState is the state of one step inside a composite operation.
type StepState int

const (
	StepNotStarted StepState = iota
	StepPending
	StepMined
	StepErrored
)

func (s StepState) String() string {
	switch s {
	case StepNotStarted:
		return "not started"
	case StepPending:
		return "pending"
	case StepMined:
		return "mined"
	case StepErrored:
		return "errored"
	}
	return "unknown"
}

// StepStatus is delivered to observers on every step transition.
type StepStatus struct {
	// Index of the step inside the operation, starting at 1.
	Index int
	// Total number of steps in the operation.
	Total    int
	Contract string
	Method   string
	State    StepState
	// TxHash is empty while not started and for steps whose effect was
	// already in place so no transaction was needed.
	TxHash string
	Err    error
}

// step is one unit of a composite operation. run submits whatever work
// the step needs, reporting the tx hash through pending as soon as the
// transaction is on the network, and returns once the work is mined.
// Steps whose effect turns out to already be in place may finish without
// ever calling pending.
type step struct {
	contract string
	method   string
	run      func(pending func(hash string)) error
}

// Operation is one composite cdp operation, an ordered sequence of
// steps driven strictly one after another. Observers subscribe before
// Start and receive one notification per state transition per step, in
// step order. A failed step halts the operation, already mined steps
// stay mined.
type Operation struct {
	id      string
	steps   []step
	settle  func() (*Position, error)
	started bool

	mu        sync.Mutex
	observers []chan StepStatus
	statuses  []StepStatus

	done   chan struct{}
	result *Position
	err    error
}

func newOperation(steps []step, settle func() (*Position, error)) *Operation {
	statuses := make([]StepStatus, len(steps))
	for i, st := range steps {
		statuses[i] = StepStatus{
			Index:    i + 1,
			Total:    len(steps),
			Contract: st.contract,
			Method:   st.method,
			State:    StepNotStarted,
		}
	}
	return &Operation{
		id:       uuid.New().String(),
		steps:    steps,
		settle:   settle,
		statuses: statuses,
		done:     make(chan struct{}),
	}
}

// ID identifies the operation in logs and step reports.
func (o *Operation) ID() string {
	return o.id
}

// Steps returns a snapshot of every step's current status in step
// order.
func (o *Operation) Steps() []StepStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	snapshot := make([]StepStatus, len(o.statuses))
	copy(snapshot, o.statuses)
	return snapshot
}

// Subscribe registers an observer. The returned channel delivers every
// transition in order and is closed when the operation reaches a
// terminal state. Subscribe before Start to see all transitions, the
// channel is buffered so a slow observer never stalls the operation.
func (o *Operation) Subscribe() <-chan StepStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	// 2 transitions per step at most, pending then mined or errored
	ch := make(chan StepStatus, 2*len(o.steps))
	o.observers = append(o.observers, ch)
	return ch
}

func (o *Operation) notify(index int, state StepState, txHash string, err error) {
	o.mu.Lock()
	status := o.statuses[index]
	status.State = state
	if txHash != "" {
		status.TxHash = txHash
	}
	status.Err = err
	o.statuses[index] = status
	observers := make([]chan StepStatus, len(o.observers))
	copy(observers, o.observers)
	o.mu.Unlock()

	for _, ch := range observers {
		ch <- status
	}
}

func (o *Operation) closeObservers() {
	o.mu.Lock()
	observers := o.observers
	o.observers = nil
	o.mu.Unlock()
	for _, ch := range observers {
		close(ch)
	}
}

// Start launches the operation. It returns immediately, progress is
// delivered to subscribers and the outcome through Wait. Starting twice
// is a no-op.
func (o *Operation) Start() {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return
	}
	o.started = true
	o.mu.Unlock()
	go o.run()
}

// Run executes the operation on the calling goroutine and returns its
// outcome.
func (o *Operation) Run() (*Position, error) {
	o.Start()
	return o.Wait()
}

// Wait blocks until the operation settles or fails.
func (o *Operation) Wait() (*Position, error) {
	<-o.done
	return o.result, o.err
}

func (o *Operation) run() {
	defer close(o.done)
	defer o.closeObservers()

	for i, st := range o.steps {
		pendingSeen := false
		pending := func(hash string) {
			pendingSeen = true
			o.notify(i, StepPending, hash, nil)
		}

		err := st.run(pending)
		if err != nil {
			if !pendingSeen {
				o.notify(i, StepPending, "", nil)
			}
			o.notify(i, StepErrored, "", err)
			o.err = fmt.Errorf(
				"step %d/%d (%s.%s) failed: %w",
				i+1, len(o.steps), st.contract, st.method, err,
			)
			return
		}
		if !pendingSeen {
			// the step's effect was already in place, surface the two
			// transitions anyway so observers see a uniform sequence
			o.notify(i, StepPending, "", nil)
		}
		o.notify(i, StepMined, "", nil)
	}

	if o.settle != nil {
		o.result, o.err = o.settle()
	}
}
