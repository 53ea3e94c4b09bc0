package orders

import (
	"testing"

	"mandi/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{models.OrderProcessing, models.OrderShipped, true},
		{models.OrderShipped, models.OrderDelivered, true},
		{models.OrderProcessing, models.OrderCancelled, true},
		{models.OrderShipped, models.OrderCancelled, true},

		// no skipping forward
		{models.OrderProcessing, models.OrderDelivered, false},

		// no moving backwards
		{models.OrderShipped, models.OrderProcessing, false},
		{models.OrderDelivered, models.OrderShipped, false},

		// terminal states stay terminal
		{models.OrderDelivered, models.OrderCancelled, false},
		{models.OrderDelivered, models.OrderProcessing, false},
		{models.OrderCancelled, models.OrderProcessing, false},
		{models.OrderCancelled, models.OrderShipped, false},
		{models.OrderCancelled, models.OrderDelivered, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestAllowedPriorsExcludeTerminal(t *testing.T) {
	for _, to := range []string{models.OrderShipped, models.OrderDelivered, models.OrderCancelled} {
		for _, prior := range allowedPriors(to) {
			if prior == models.OrderDelivered || prior == models.OrderCancelled {
				t.Fatalf("terminal status %s listed as a legal prior of %s", prior, to)
			}
		}
	}
	if allowedPriors("bogus") != nil {
		t.Fatal("unknown status must have no legal priors")
	}
}
