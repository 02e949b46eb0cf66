package espalier

// Waiters reports how many callers wait on the shared computation of key.
func Waiters[O comparable](e *Engine[O], key string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if f, ok := e.flights[key]; ok {
		return f.waiters
	}
	return 0
}
