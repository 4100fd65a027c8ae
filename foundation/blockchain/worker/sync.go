package worker

// syncOperations runs the longest chain rule on every tick.
func (w *Worker) syncOperations() {
	w.evHandler("worker: syncOperations: G started")
	defer w.evHandler("worker: syncOperations: G completed")

	for {
		select {
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.Sync()
			}
		case <-w.shut:
			w.evHandler("worker: syncOperations: received shut signal")
			return
		}
	}
}

// Sync replaces the local chain with the longest valid chain held by the
// known peers.
func (w *Worker) Sync() {
	w.evHandler("worker: sync: started")
	defer w.evHandler("worker: sync: completed")

	if len(w.state.RetrieveKnownPeers()) == 0 {
		w.evHandler("worker: sync: no known peers")
		return
	}

	replaced, chain, err := w.state.ResolveChain(w.ctx)
	if err != nil {
		w.evHandler("worker: sync: ERROR: %s", err)
		return
	}

	w.evHandler("worker: sync: replaced[%v]: depth[%d]", replaced, len(chain))
}
