package order

import "testing"

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCanceled, true},
		{StatusPending, StatusShipped, false},
		{StatusPending, StatusDelivered, false},
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusCanceled, false},
		{StatusProcessing, StatusPending, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCanceled, false},
		{StatusDelivered, StatusShipped, false},
		{StatusCanceled, StatusPending, false},
		{StatusCanceled, StatusProcessing, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestStatusEditable(t *testing.T) {
	if !StatusPending.Editable() {
		t.Error("pending must be editable")
	}
	for _, s := range []Status{StatusProcessing, StatusShipped, StatusDelivered, StatusCanceled} {
		if s.Editable() {
			t.Errorf("%s must not be editable", s)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := ParseStatus("pending"); err != nil {
		t.Errorf("pending: unexpected error: %v", err)
	}
	if _, err := ParseStatus("shipped"); err != nil {
		t.Errorf("shipped: unexpected error: %v", err)
	}
	if _, err := ParseStatus("done"); err == nil {
		t.Error("expected error for unknown status")
	}
	if _, err := ParseStatus(""); err == nil {
		t.Error("expected error for empty status")
	}
}

func TestOwnedBy(t *testing.T) {
	id := int64(7)
	owned := Order{ClientID: &id}
	if !owned.OwnedBy(7) {
		t.Error("expected order to be owned by client 7")
	}
	if owned.OwnedBy(8) {
		t.Error("order must not be owned by another client")
	}

	anonymous := Order{}
	if anonymous.OwnedBy(7) {
		t.Error("anonymous order must not be owned by anyone")
	}
}
