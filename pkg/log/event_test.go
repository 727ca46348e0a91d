package log

import "testing"

func TestDirectionString(t *testing.T) {
	tests := []struct {
		dir  Direction
		want string
	}{
		{DirectionIn, "IN"},
		{DirectionOut, "OUT"},
		{DirectionLocal, "LOCAL"},
		{Direction(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.dir.String()
		if got != tt.want {
			t.Errorf("Direction(%d).String() = %q, want %q", tt.dir, got, tt.want)
		}
	}
}

func TestLayerString(t *testing.T) {
	tests := []struct {
		layer Layer
		want  string
	}{
		{LayerInstance, "INSTANCE"},
		{LayerService, "SERVICE"},
		{LayerEventGroup, "EVENTGROUP"},
		{LayerRemoteNode, "REMOTE_NODE"},
		{Layer(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.layer.String()
		if got != tt.want {
			t.Errorf("Layer(%d).String() = %q, want %q", tt.layer, got, tt.want)
		}
	}
}

func TestCategoryString(t *testing.T) {
	tests := []struct {
		cat  Category
		want string
	}{
		{CategoryMessage, "MESSAGE"},
		{CategoryControl, "CONTROL"},
		{CategoryState, "STATE"},
		{CategoryError, "ERROR"},
		{Category(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.cat.String()
		if got != tt.want {
			t.Errorf("Category(%d).String() = %q, want %q", tt.cat, got, tt.want)
		}
	}
}

func TestEntryTypeString(t *testing.T) {
	tests := []struct {
		entry EntryType
		want  string
	}{
		{EntryFind, "FIND"},
		{EntryOffer, "OFFER"},
		{EntryStopOffer, "STOP_OFFER"},
		{EntrySubscribe, "SUBSCRIBE"},
		{EntryStopSubscribe, "STOP_SUBSCRIBE"},
		{EntrySubscribeAck, "SUBSCRIBE_ACK"},
		{EntrySubscribeNack, "SUBSCRIBE_NACK"},
		{EntryType(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.entry.String()
		if got != tt.want {
			t.Errorf("EntryType(%d).String() = %q, want %q", tt.entry, got, tt.want)
		}
	}
}

func TestStateEntityString(t *testing.T) {
	if got := StateEntityService.String(); got != "SERVICE" {
		t.Errorf("StateEntityService.String() = %q, want %q", got, "SERVICE")
	}
	if got := StateEntityEventGroup.String(); got != "EVENTGROUP" {
		t.Errorf("StateEntityEventGroup.String() = %q, want %q", got, "EVENTGROUP")
	}
	if got := StateEntity(9).String(); got != "UNKNOWN" {
		t.Errorf("StateEntity(9).String() = %q, want %q", got, "UNKNOWN")
	}
}

func TestControlTypeString(t *testing.T) {
	tests := []struct {
		ctrl ControlType
		want string
	}{
		{ControlRequest, "REQUEST"},
		{ControlRelease, "RELEASE"},
		{ControlStart, "START"},
		{ControlHalt, "HALT"},
		{ControlPeerReboot, "PEER_REBOOT"},
		{ControlType(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.ctrl.String()
		if got != tt.want {
			t.Errorf("ControlType(%d).String() = %q, want %q", tt.ctrl, got, tt.want)
		}
	}
}
