package models

import "testing"

func TestIsValidClientStatus(t *testing.T) {
	for _, s := range []string{"canvas", "antysale", "brak_kontaktu", "sale", "$$"} {
		if !IsValidClientStatus(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range []string{"", "Canvas", "lead", "closed"} {
		if IsValidClientStatus(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		client Client
		want   string
	}{
		{Client{FirstName: "Jan", LastName: "Kowalski"}, "Jan Kowalski"},
		{Client{LastName: "Nowak"}, "Nowak"},
		{Client{CompanyName: "Spectres Sp. z o.o."}, "Spectres Sp. z o.o."},
	}
	for _, tt := range tests {
		if got := tt.client.DisplayName(); got != tt.want {
			t.Errorf("DisplayName() = %q, want %q", got, tt.want)
		}
	}
}

func TestLifecycleUpdateIsEmpty(t *testing.T) {
	if !(ClientLifecycleUpdate{}).IsEmpty() {
		t.Error("zero update should be empty")
	}
	st := StatusAntysale
	if (ClientLifecycleUpdate{Status: &st}).IsEmpty() {
		t.Error("status update should not be empty")
	}
	if (ClientLifecycleUpdate{ClearOwner: true}).IsEmpty() {
		t.Error("owner reset should not be empty")
	}
}
