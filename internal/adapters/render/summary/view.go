package summary

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/wangyi68/hoyolab-auto-checkin/internal/domain"
)

type RenderOptions struct {
	ShowElapsed bool
}

func renderView(summary domain.RunSummary, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("HoYoLAB Daily Check-in"),
		s.header.Render(fmt.Sprintf("games: %d", len(summary.Results))),
	}

	if len(summary.Results) == 0 {
		lines = append(lines, s.empty.Render("No games were checked in."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, result := range summary.Results {
		lines = append(lines, s.section.Render(renderResult(result, opts, s)))
	}

	lines = append(lines, s.section.Render(renderFooter(summary, s)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderResult(result domain.AttemptResult, opts RenderOptions, s styles) string {
	parts := []string{
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.game.Render(gameTitle(result)),
			" ",
			statusBadge(result.Status, s),
		),
	}

	if detail := detailLine(result); detail != "" {
		parts = append(parts, s.detail.Render(detail))
	}

	if meta := metaLine(result, opts); meta != "" {
		parts = append(parts, s.meta.Render(meta))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func gameTitle(result domain.AttemptResult) string {
	title := strings.ToUpper(string(result.Game))
	if spec, err := domain.Resolve(result.Game); err == nil {
		title = spec.Name
	}
	if result.Account != "" {
		return fmt.Sprintf("%s (uid %s)", title, result.Account)
	}
	return title
}

func statusBadge(status domain.AttemptStatus, s styles) string {
	switch status {
	case domain.StatusSuccess:
		return s.success.Render("✓ checked in")
	case domain.StatusAlreadyCheckedIn:
		return s.skipped.Render("• already checked in")
	case domain.StatusAuthInvalid:
		return s.failure.Render("✗ auth invalid")
	case domain.StatusRateLimited:
		return s.failure.Render("✗ rate limited")
	case domain.StatusNetworkError:
		return s.failure.Render("✗ network error")
	default:
		return s.failure.Render("✗ failed")
	}
}

func detailLine(result domain.AttemptResult) string {
	parts := make([]string, 0, 2)
	if result.Reward != nil {
		parts = append(parts, fmt.Sprintf("reward: %s x%d", result.Reward.Name, result.Reward.Count))
	}
	if result.SignedInDays != nil {
		parts = append(parts, fmt.Sprintf("day %d this month", *result.SignedInDays))
	}
	if len(parts) == 0 && !result.Status.OK() && result.Message != "" {
		parts = append(parts, result.Message)
	}
	return strings.Join(parts, ", ")
}

func metaLine(result domain.AttemptResult, opts RenderOptions) string {
	parts := make([]string, 0, 2)
	if result.AttemptCount > 1 {
		parts = append(parts, fmt.Sprintf("attempts: %d", result.AttemptCount))
	}
	if opts.ShowElapsed && result.Elapsed > 0 {
		parts = append(parts, fmt.Sprintf("took %s", result.Elapsed.Round(10*time.Millisecond)))
	}
	return strings.Join(parts, ", ")
}

func renderFooter(summary domain.RunSummary, s styles) string {
	succeeded := 0
	for _, result := range summary.Results {
		if result.Status.OK() {
			succeeded++
		}
	}

	line := fmt.Sprintf("%d/%d succeeded", succeeded, len(summary.Results))
	if summary.OverallSuccess {
		return s.success.Render(line)
	}
	return s.failure.Render(line)
}
