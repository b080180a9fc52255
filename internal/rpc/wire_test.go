package rpc_test

import (
	"errors"
	"fmt"
	"testing"

	"roadwatch/internal/rpc"
	"roadwatch/pkg/e"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want rpc.ErrorKind
	}{
		{"not found", fmt.Errorf("alert 1: %w", e.ErrNotFound), rpc.KindNotFound},
		{"conflict", fmt.Errorf("already voted: %w", e.ErrConflict), rpc.KindConflict},
		{"invalid input", fmt.Errorf("bad type: %w", e.ErrInvalidInput), rpc.KindInvalid},
		{"invalid coordinates", fmt.Errorf("lat out of range: %w", e.ErrInvalidCoordinates), rpc.KindInvalid},
		{"anything else", errors.New("pg connection reset"), rpc.KindInternal},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := rpc.KindOf(tc.err); got != tc.want {
				t.Fatalf("KindOf(%v) = %q, want %q", tc.err, got, tc.want)
			}
		})
	}
}

func TestWireError_Err_RoundTrip(t *testing.T) {
	t.Parallel()

	reply := rpc.ErrReply(
		mustRequest(t).ID,
		fmt.Errorf("already voted this way: %w", e.ErrConflict),
	)
	if reply.OK || reply.Error == nil {
		t.Fatalf("expected error reply, got %+v", reply)
	}
	if !errors.Is(reply.Error.Err(), e.ErrConflict) {
		t.Fatalf("conflict must survive the wire, got %v", reply.Error.Err())
	}
}

func TestWireError_InternalBecomesTransport(t *testing.T) {
	t.Parallel()

	we := &rpc.WireError{Kind: rpc.KindInternal, Message: "pg down"}
	if !errors.Is(we.Err(), e.ErrTransport) {
		t.Fatalf("remote internal failures must map to ErrTransport, got %v", we.Err())
	}
}

func TestPattern_Known(t *testing.T) {
	t.Parallel()

	for _, p := range []rpc.Pattern{
		rpc.PatternCreateAlert,
		rpc.PatternFindAllAlerts,
		rpc.PatternFindOneAlert,
		rpc.PatternUpdateAlert,
		rpc.PatternRemoveAlert,
		rpc.PatternFindAlertsNearMe,
		rpc.PatternRateAlert,
		rpc.PatternGetRatings,
		rpc.PatternGetAverageRating,
		rpc.PatternGetAllRatings,
	} {
		if !p.Known() {
			t.Fatalf("pattern %q must be known", p)
		}
	}
	if rpc.Pattern("dropTables").Known() {
		t.Fatal("unknown pattern must not be known")
	}
}

func mustRequest(t *testing.T) *rpc.Request {
	t.Helper()
	req, err := rpc.NewRequest(rpc.PatternRateAlert, struct{}{})
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	return req
}
