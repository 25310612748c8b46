package boost

// Verbosity controls progress printing. Three policies exist:
//
//	VerboseOff():     never print
//	VerboseOn():      print every round/trial
//	VerboseEvery(n):  print every n-th round (plus the final round during
//	                  training) or every n-th trial during CV
//
// The zero value is VerboseOff.
type Verbosity struct {
	enabled bool
	every   int // 0 = every round when enabled
}

// VerboseOff disables progress printing.
func VerboseOff() Verbosity { return Verbosity{} }

// VerboseOn prints progress every round.
func VerboseOn() Verbosity { return Verbosity{enabled: true} }

// VerboseEvery prints progress every n rounds. n <= 0 disables printing.
func VerboseEvery(n int) Verbosity {
	if n <= 0 {
		return Verbosity{}
	}
	return Verbosity{enabled: true, every: n}
}

// Enabled reports whether any printing happens at all.
func (v Verbosity) Enabled() bool { return v.enabled }

// ShouldPrintRound reports whether the training round's evaluation message
// is printed. In every-nth mode the final round always prints.
func (v Verbosity) ShouldPrintRound(round, totalRounds int) bool {
	if !v.enabled {
		return false
	}
	if v.every == 0 {
		return true
	}
	return round%v.every == 0 || round == totalRounds-1
}

// ShouldPrintTrial reports whether the CV trial's aggregated line is
// printed.
func (v Verbosity) ShouldPrintTrial(trial int) bool {
	if !v.enabled {
		return false
	}
	if v.every == 0 {
		return true
	}
	return trial%v.every == 0
}

// silenced returns a copy with printing disabled, used on every worker
// whose rank is not 0.
func (v Verbosity) silenced() Verbosity { return Verbosity{} }
