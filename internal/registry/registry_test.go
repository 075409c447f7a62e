package registry

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/deepgate/deepgate/internal/protocol"
)

func echoHandler(ctx context.Context, data json.RawMessage) (*protocol.Result, error) {
	return &protocol.Result{Message: "echo", Data: map[string]any{"raw": string(data)}}, nil
}

func TestRegistry_Dispatch(t *testing.T) {
	r := New()
	if err := r.Register("echo", echoHandler); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	r.Freeze()

	res, err := r.Dispatch(context.Background(), "echo", json.RawMessage(`{"a":1}`))
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res.Data["raw"] != `{"a":1}` {
		t.Errorf("Dispatch() raw = %v, want %v", res.Data["raw"], `{"a":1}`)
	}
}

func TestRegistry_UnknownAction(t *testing.T) {
	r := New()
	r.Freeze()

	_, err := r.Dispatch(context.Background(), "delete_everything", nil)
	if err == nil {
		t.Fatal("Dispatch() should fail for unknown action")
	}
	if protocol.KindOf(err) != protocol.KindValidation {
		t.Errorf("Dispatch() kind = %v, want %v", protocol.KindOf(err), protocol.KindValidation)
	}
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	r := New()
	if err := r.Register("echo", echoHandler); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	if err := r.Register("echo", echoHandler); err == nil {
		t.Error("second Register() should fail for duplicate name")
	}
}

func TestRegistry_FrozenRejectsRegistration(t *testing.T) {
	r := New()
	r.Freeze()
	if err := r.Register("late", echoHandler); err == nil {
		t.Error("Register() after Freeze() should fail")
	}
}

func TestRegistry_Actions_Sorted(t *testing.T) {
	r := New()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := r.Register(name, echoHandler); err != nil {
			t.Fatalf("Register(%q) error = %v", name, err)
		}
	}

	got := r.Actions()
	want := []string{"alpha", "mid", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("Actions() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Actions()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
