// Package client implements the client side of SOME/IP service discovery.
//
// An Engine owns one record per configured client service and consumed
// event group. Each service runs the communication phase machine
//
//	DOWN -> INITIAL_WAIT -> REPETITION -> MAIN -> AVAILABLE
//
// and each event group the subscription machine
//
//	RELEASED -> REQUESTED_NO_OFFER -> REQUESTED_OFFER_RECEIVED
//	         -> WAIT_FOR_AVAILABILITY -> AVAILABLE
//
// Control requests (SetClientServiceState, StartAllServices, ...) and
// received entries (OnOfferReceived, OnSubscribeAckReceived, ...) are only
// recorded. The state machines run inside the cyclic entry points, which
// the host calls once per main-function period:
//
//	eng, err := client.New(cfg, client.Options{
//		Transport:   transport,
//		Sender:      sender,
//		Diagnostics: diags,
//	})
//	if err != nil {
//		return err
//	}
//	eng.StartAllServices()
//	for range ticker.C {
//		eng.MainFunction()
//	}
//
// MainFunction runs the event cycle followed by all timer domains;
// RunEventCycle, RunTimerCycle and RunTTLCycle run them separately.
//
// Collaborators are called with the engine lock held. They must not call
// back into the Engine.
package client
