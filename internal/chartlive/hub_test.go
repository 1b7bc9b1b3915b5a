package chartlive

import (
	"errors"
	"testing"

	"github.com/dentalworks/dental-clinic-platform/internal/chart"
)

type fakeConn struct {
	events []chart.Event
	err    error
}

func (f *fakeConn) SendJSON(v any) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, v.(chart.Event))
	return nil
}

func TestBroadcastReachesPatientViewers(t *testing.T) {
	hub := NewHub(nil)

	a := &fakeConn{}
	b := &fakeConn{}
	other := &fakeConn{}
	hub.register("patient-1", a)
	hub.register("patient-1", b)
	hub.register("patient-2", other)

	hub.Broadcast("patient-1", chart.Event{Type: "record.saved", ToothNumber: 14})

	if len(a.events) != 1 || len(b.events) != 1 {
		t.Fatalf("patient-1 viewers got %d/%d events, want 1/1", len(a.events), len(b.events))
	}
	if a.events[0].ToothNumber != 14 {
		t.Errorf("event tooth = %d, want 14", a.events[0].ToothNumber)
	}
	if len(other.events) != 0 {
		t.Errorf("patient-2 viewer should not receive patient-1 events")
	}
}

func TestBroadcastDropsDeadConnections(t *testing.T) {
	hub := NewHub(nil)

	dead := &fakeConn{err: errors.New("broken pipe")}
	live := &fakeConn{}
	hub.register("patient-1", dead)
	hub.register("patient-1", live)

	hub.Broadcast("patient-1", chart.Event{Type: "annotation.added"})
	if got := hub.ViewerCount("patient-1"); got != 1 {
		t.Fatalf("viewer count after dead drop = %d, want 1", got)
	}

	hub.Broadcast("patient-1", chart.Event{Type: "annotation.deleted"})
	if len(live.events) != 2 {
		t.Errorf("live viewer got %d events, want 2", len(live.events))
	}
}

func TestUnregisterCleansRoom(t *testing.T) {
	hub := NewHub(nil)

	id := hub.register("patient-1", &fakeConn{})
	hub.unregister("patient-1", id)

	if got := hub.ViewerCount("patient-1"); got != 0 {
		t.Fatalf("viewer count = %d, want 0", got)
	}
	// Broadcasting into an empty room must not panic.
	hub.Broadcast("patient-1", chart.Event{Type: "record.saved"})
}
