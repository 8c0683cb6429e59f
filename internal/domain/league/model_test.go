package league

import (
	"errors"
	"testing"

	"github.com/peterldowns/testy/check"
)

func TestAuctionState_TransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    AuctionState
		to      AuctionState
		wantErr bool
	}{
		{name: "unknown to in progress", from: AuctionStateUnknown, to: AuctionStateInProgress},
		{name: "in progress to finished", from: AuctionStateInProgress, to: AuctionStateFinished},
		{name: "unknown to finished", from: AuctionStateUnknown, to: AuctionStateFinished},
		{name: "finished stays finished", from: AuctionStateFinished, to: AuctionStateFinished},
		{name: "finished is absorbing", from: AuctionStateFinished, to: AuctionStateInProgress, wantErr: true},
		{name: "cannot reset to unknown", from: AuctionStateInProgress, to: AuctionStateUnknown, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.from.TransitionTo(tc.to)
			if tc.wantErr {
				check.True(t, errors.Is(err, ErrIllegalTransition))
				check.Equal(t, tc.from, got)
				return
			}
			check.NoError(t, err)
			check.Equal(t, tc.to, got)
		})
	}
}

func TestParseAuctionState(t *testing.T) {
	got, err := ParseAuctionState(" Finished ")
	check.NoError(t, err)
	check.True(t, got.IsFinished())

	got, err = ParseAuctionState("")
	check.NoError(t, err)
	check.Equal(t, AuctionStateUnknown, got)

	_, err = ParseAuctionState("paused")
	check.Error(t, err)
}
