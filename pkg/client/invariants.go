package client

import (
	"fmt"

	"github.com/someip-sd/sdclient-go/pkg/sd"
)

// checkInvariants verifies the state every cyclic entry point must leave
// behind. Violations are reported as diagnostics and panic in strict mode.
func (e *Engine) checkInvariants() {
	for i := range e.services {
		s := &e.services[i]
		if s.phase == PhaseDown && (s.udp.Valid() || s.tcp.Valid()) {
			e.violation(s, nil, "DOWN service holds a unicast connection")
		}
		if s.phase == PhaseAvailable && !s.offers.connLost && !e.heldConnsOnline(s) {
			e.violation(s, nil, "AVAILABLE service holds a unicast connection that is not online")
		}
		groups := e.groupsOf(s)
		for k := range groups {
			g := &groups[k]
			switch {
			case s.phase == PhaseDown && g.state.offered():
				e.violation(s, g, fmt.Sprintf("event group %s while service is DOWN", g.state))
			case (g.state == GroupWaitForAvailability || g.state == GroupAvailable) && s.phase != PhaseAvailable:
				e.violation(s, g, fmt.Sprintf("event group %s while service is %s", g.state, s.phase))
			case g.state == GroupAvailable && g.ack == AckNone:
				e.violation(s, g, "event group AVAILABLE without subscription")
			}
		}
	}
}

func (e *Engine) violation(s *serviceRecord, g *groupRecord, detail string) {
	d := serviceDiag(sd.DiagInvariantViolation, s)
	if g != nil {
		d = groupDiag(sd.DiagInvariantViolation, s, g)
	}
	d.Detail = detail
	e.report(d)
	if e.strict {
		panic(fmt.Sprintf("client: invariant violation: %s: %s", s.cfg.Name, detail))
	}
}
