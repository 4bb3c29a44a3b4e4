package notify

import (
	"fmt"
	"strings"

	"github.com/wangyi68/hoyolab-auto-checkin/internal/domain"
)

func statusLabel(status domain.AttemptStatus) string {
	switch status {
	case domain.StatusSuccess:
		return "checked in"
	case domain.StatusAlreadyCheckedIn:
		return "already checked in"
	case domain.StatusAuthInvalid:
		return "auth invalid"
	case domain.StatusRateLimited:
		return "rate limited"
	case domain.StatusNetworkError:
		return "network error"
	default:
		return "failed"
	}
}

// formatSummary renders one run as a plain-text message shared by every
// notification channel.
func formatSummary(summary domain.RunSummary) string {
	var b strings.Builder

	if summary.OverallSuccess {
		b.WriteString("HoYoLAB check-in: all games succeeded\n")
	} else {
		b.WriteString("HoYoLAB check-in: some games failed\n")
	}

	for _, result := range summary.Results {
		fmt.Fprintf(&b, "[%s] %s", result.Game, statusLabel(result.Status))
		if result.Reward != nil {
			fmt.Fprintf(&b, " (%s x%d)", result.Reward.Name, result.Reward.Count)
		}
		if result.SignedInDays != nil {
			fmt.Fprintf(&b, ", day %d", *result.SignedInDays)
		}
		if !result.Status.OK() && result.Message != "" {
			fmt.Fprintf(&b, ": %s", result.Message)
		}
		b.WriteByte('\n')
	}

	return strings.TrimRight(b.String(), "\n")
}
