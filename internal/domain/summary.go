package domain

import "time"

// RunSummary aggregates every AttemptResult of one orchestration pass in
// call order. It is handed to the notification sink and then discarded.
type RunSummary struct {
	StartedAt      time.Time
	FinishedAt     time.Time
	Results        []AttemptResult
	OverallSuccess bool
}

// Finalize stamps the end time and computes OverallSuccess, which is true
// iff every result checked in (or already had).
func (s *RunSummary) Finalize(finishedAt time.Time) {
	s.FinishedAt = finishedAt
	s.OverallSuccess = true
	for _, result := range s.Results {
		if !result.Status.OK() {
			s.OverallSuccess = false
			return
		}
	}
}

// Failed returns the (game, account) keys of results that did not check in.
func (s RunSummary) Failed() []AttemptKey {
	var failed []AttemptKey
	for _, result := range s.Results {
		if !result.Status.OK() {
			failed = append(failed, AttemptKey{Game: result.Game, Account: result.Account})
		}
	}
	return failed
}

// AttemptKey identifies one (game, account) pair within a run.
type AttemptKey struct {
	Game    GameID
	Account string
}
