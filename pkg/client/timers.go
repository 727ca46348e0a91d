package client

// MainFunction runs one period: the event cycle, the state-machine timers,
// the TTL cycle, then the response and retry timers of the remote nodes.
func (e *Engine) MainFunction() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tick++
	for _, in := range e.instances {
		e.eventCycle(in)
	}
	for _, in := range e.instances {
		e.smCycle(in)
	}
	for _, in := range e.instances {
		e.ttlCycle(in)
	}
	for _, in := range e.instances {
		e.responseCycle(in)
		e.retryCycle(in)
	}
	e.checkInvariants()
}

// RunTimerCycle advances the state-machine, response and retry timers by
// one period.
func (e *Engine) RunTimerCycle() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tick++
	for _, in := range e.instances {
		e.smCycle(in)
		e.responseCycle(in)
		e.retryCycle(in)
	}
	e.checkInvariants()
}

// RunTTLCycle advances the offer and subscription TTLs by one period.
func (e *Engine) RunTTLCycle() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, in := range e.instances {
		e.ttlCycle(in)
	}
	e.checkInvariants()
}

func (e *Engine) smCycle(in *instanceRecord) {
	step, ok := in.sm.Tick()
	if !ok {
		return
	}
	services := e.servicesOf(in)
	for i := range services {
		s := &services[i]
		if in.sm.Expire(&s.smTimer, step) {
			e.smTimeout(s)
		}
	}
}

func (e *Engine) ttlCycle(in *instanceRecord) {
	step, ok := in.ttl.Tick()
	if !ok {
		return
	}
	services := e.servicesOf(in)
	for i := range services {
		s := &services[i]
		if in.ttl.Expire(&s.ttl, step) {
			e.offerExpired(s)
		}
	}
	for i := range services {
		s := &services[i]
		groups := e.groupsOf(s)
		for k := range groups {
			g := &groups[k]
			if in.ttl.Expire(&g.ttl, step) {
				e.groupTTLExpired(s, g)
			}
		}
	}
}

func (e *Engine) responseCycle(in *instanceRecord) {
	step, ok := in.resp.Tick()
	if !ok {
		return
	}
	for i := range in.nodes {
		if in.resp.Expire(&in.nodes[i].respTimer, step) {
			e.responseExpired(in, i)
		}
	}
}

func (e *Engine) retryCycle(in *instanceRecord) {
	step, ok := in.retry.Tick()
	if !ok {
		return
	}
	for i := range in.nodes {
		if in.retry.Expire(&in.nodes[i].retryTimer, step) {
			e.retryExpired(in, i)
		}
	}
}
