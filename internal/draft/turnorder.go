package draft

// DefaultDoublePickAfterRound is the round after which each seat takes two
// consecutive picks per round.
const DefaultDoublePickAfterRound = 25

// DrafterForPick returns the 0-indexed seat whose turn it is at the given
// 1-indexed absolute pick.
//
// Rounds snake: odd rounds go seat 0..N-1, even rounds N-1..0. From pick
// doublePickAfterRound*N+1 onward every round has 2N picks and each seat
// picks twice in a row, still alternating direction. An even
// doublePickAfterRound starts the double-pick phase forward from seat 0; an
// odd one (such as the default 25) starts it in reverse from seat N-1. A
// non-positive doublePickAfterRound disables the double-pick phase.
func DrafterForPick(pickNumber, numDrafters, doublePickAfterRound int) int {
	if numDrafters <= 0 {
		return 0
	}
	if pickNumber < 1 {
		pickNumber = 1
	}

	if doublePickAfterRound > 0 {
		doublePickStart := doublePickAfterRound*numDrafters + 1
		if pickNumber >= doublePickStart {
			return doublePickDrafter(pickNumber-doublePickStart, numDrafters, doublePickAfterRound)
		}
	}

	zeroIndexed := pickNumber - 1
	round := zeroIndexed / numDrafters
	position := zeroIndexed % numDrafters
	if round%2 == 0 {
		return position
	}
	return numDrafters - 1 - position
}

// RoundForPick returns the 1-indexed round an absolute pick falls in.
// Standard rounds hold N picks and double-pick rounds hold 2N.
func RoundForPick(pickNumber, numDrafters, doublePickAfterRound int) int {
	if numDrafters <= 0 {
		return 1
	}
	if pickNumber < 1 {
		pickNumber = 1
	}
	if doublePickAfterRound > 0 && pickNumber > doublePickAfterRound*numDrafters {
		pickInPhase := pickNumber - doublePickAfterRound*numDrafters - 1
		return doublePickAfterRound + pickInPhase/(2*numDrafters) + 1
	}
	return (pickNumber-1)/numDrafters + 1
}

// SnakeDrafterForPick is DrafterForPick without a double-pick phase.
func SnakeDrafterForPick(pickNumber, numDrafters int) int {
	return DrafterForPick(pickNumber, numDrafters, 0)
}

// doublePickDrafter resolves a pick inside the double-pick phase.
// The last standard round runs forward when its 1-indexed number is odd, so
// the first double round runs the opposite way of that round.
func doublePickDrafter(pickInPhase, numDrafters, doublePickAfterRound int) int {
	picksPerRound := 2 * numDrafters
	doubleRound := pickInPhase / picksPerRound
	seatPosition := (pickInPhase % picksPerRound) / 2

	forward := (doublePickAfterRound+doubleRound)%2 == 0
	if forward {
		return seatPosition
	}
	return numDrafters - 1 - seatPosition
}

// positionInRound returns the 1-indexed slot of a seat within a standard
// snake round (round is 1-indexed).
func positionInRound(round, seat, numDrafters int) int {
	if round%2 == 1 {
		return seat + 1
	}
	return numDrafters - seat
}

// absolutePick converts a 1-indexed round and 0-indexed seat into an
// absolute pick number using standard snake order.
func absolutePick(round, seat, numDrafters int) int {
	return (round-1)*numDrafters + positionInRound(round, seat, numDrafters)
}
