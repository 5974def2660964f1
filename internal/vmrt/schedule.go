package vmrt

// RunAll cooperatively interleaves every thread spawned on vm (via Spawn)
// until each has halted, time-slicing at quantum instructions per turn so
// no single thread can starve the others — the scheduling model spec.md §5
// calls for ("parallel threads ... sharing a single heap and static
// table"; see thread.go's doc comment for why that model is implemented
// as single-goroutine cooperative interleaving rather than real OS
// threads). A thread that raises an uncaught exception or errors is
// marked Done with Err set and dropped from the rotation; RunAll returns
// the first such error only after every thread has finished or failed, so
// one failing thread doesn't starve the rest of their chance to run.
func (vm *VM) RunAll(quantum int) error {
	if quantum <= 0 {
		quantum = 256
	}
	var firstErr error
	pending := append([]*Thread(nil), vm.threads...)
	for len(pending) > 0 {
		next := pending[:0]
		for _, t := range pending {
			if t.Done {
				continue
			}
			for i := 0; i < quantum && !t.Done; i++ {
				if err := vm.step(t); err != nil {
					t.Done = true
					t.Err = err
					if firstErr == nil {
						firstErr = err
					}
					break
				}
			}
			if !t.Done {
				next = append(next, t)
			}
		}
		pending = next
	}
	return firstErr
}
