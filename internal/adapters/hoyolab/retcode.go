package hoyolab

import "github.com/wangyi68/hoyolab-auto-checkin/internal/domain"

// Retcodes the sign-in API is known to return. Anything unrecognized is
// classified unknown_error and never retried.
const (
	retcodeOK            = 0
	retcodeAlreadySigned = -5003
	retcodeInvalidCookie = -100
)

// Retcodes that indicate a broken or overloaded endpoint rather than a bad
// request; worth trying the next fallback endpoint.
var rotatableRetcodes = map[int]struct{}{
	-500001: {},
	-1:      {},
	-10001:  {},
}

// classifyRetcode maps an API retcode to an attempt status and reports
// whether the next fallback endpoint should be tried within this attempt.
func classifyRetcode(code int) (domain.AttemptStatus, bool) {
	switch code {
	case retcodeOK:
		return domain.StatusSuccess, false
	case retcodeAlreadySigned:
		return domain.StatusAlreadyCheckedIn, false
	case retcodeInvalidCookie:
		return domain.StatusAuthInvalid, false
	}
	if _, ok := rotatableRetcodes[code]; ok {
		return domain.StatusNetworkError, true
	}
	return domain.StatusUnknownError, false
}
