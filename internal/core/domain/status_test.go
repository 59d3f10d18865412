package domain

import "testing"

func TestParseStatus(t *testing.T) {
	for _, status := range AllStatuses {
		parsed, err := ParseStatus(string(status))
		if err != nil {
			t.Fatalf("expected %s to parse, got %v", status, err)
		}
		if parsed != status {
			t.Fatalf("expected %s, got %s", status, parsed)
		}
	}

	if _, err := ParseStatus("RETURNED"); err == nil {
		t.Error("expected an unknown status to be rejected")
	}
	if _, err := ParseStatus("pending"); err == nil {
		t.Error("expected status parsing to be case sensitive")
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := map[RentalRecordStatus]bool{
		StatusAlreadyCommented: true,
		StatusDenied:           true,
		StatusCanceled:         true,
	}
	for _, status := range AllStatuses {
		if got := status.IsTerminal(); got != terminal[status] {
			t.Errorf("IsTerminal(%s) = %v, want %v", status, got, terminal[status])
		}
	}
}
