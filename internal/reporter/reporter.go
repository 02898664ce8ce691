package reporter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/displaywake/displaywake/internal/database"
	"github.com/displaywake/displaywake/internal/models"
	"github.com/displaywake/displaywake/pkg/utils"
)

// recentLimit caps how many individual events appear in the history
// output.
const recentLimit = 15

// Reporter handles wake history generation
type Reporter struct {
	repo *database.Repository
}

// New creates a new reporter
func New(repo *database.Repository) *Reporter {
	return &Reporter{repo: repo}
}

// GenerateHistory generates a wake history for the specified period
func (r *Reporter) GenerateHistory(periodType string) (*models.History, error) {
	period, err := r.getPeriod(periodType)
	if err != nil {
		return nil, err
	}

	// Get raw counts from database (SQL does the COUNT)
	summaries, err := r.repo.GetDecisionSummarySince(period.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to get decision summary: %w", err)
	}

	var total int
	for _, s := range summaries {
		total += s.EventCount
	}

	// Calculate percentages
	if total > 0 {
		for i := range summaries {
			summaries[i].Percentage = (float64(summaries[i].EventCount) / float64(total)) * 100.0
		}
	}

	events, err := r.repo.GetEventsSince(period.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to get wake events: %w", err)
	}
	if len(events) > recentLimit {
		events = events[:recentLimit]
	}

	history := &models.History{
		Period:      *period,
		Decisions:   summaries,
		Recent:      events,
		TotalEvents: total,
		GeneratedAt: time.Now(),
	}

	return history, nil
}

// getPeriod calculates the time range for the history
func (r *Reporter) getPeriod(periodType string) (*models.HistoryPeriod, error) {
	now := time.Now()
	var start, end time.Time

	switch periodType {
	case "day", "today":
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end = start.Add(24 * time.Hour)

	case "week":
		// Start of week (Monday)
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday = 7
		}
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(weekday - 1))
		end = start.AddDate(0, 0, 7)

	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 1, 0)

	default:
		return nil, fmt.Errorf("invalid period type: %s (valid: day, week, month)", periodType)
	}

	return &models.HistoryPeriod{
		Start: start,
		End:   end,
		Type:  periodType,
	}, nil
}

// FormatHistoryText formats the history as human-readable text
func (r *Reporter) FormatHistoryText(history *models.History) string {
	output := fmt.Sprintf("Wake History - %s\n", history.Period.Type)
	output += fmt.Sprintf("Period: %s to %s\n",
		history.Period.Start.Format("2006-01-02 15:04"),
		history.Period.End.Format("2006-01-02 15:04"))
	output += fmt.Sprintf("Total Signals: %d\n\n", history.TotalEvents)

	if history.TotalEvents == 0 {
		output += "No wake signals recorded for this period.\n"
		return output
	}

	output += fmt.Sprintf("%-20s %10s %10s\n", "Decision", "Count", "Percent")
	output += fmt.Sprintf("%s\n", "------------------------------------------")

	for _, d := range history.Decisions {
		output += fmt.Sprintf("%-20s %10d %9.1f%%\n", d.Decision, d.EventCount, d.Percentage)
	}

	if len(history.Recent) > 0 {
		output += "\nRecent signals:\n"
		for _, e := range history.Recent {
			line := fmt.Sprintf("  %s  idle %s, screen %s -> %s",
				e.Timestamp.Format("2006-01-02 15:04:05"),
				utils.FormatIdle(e.IdleSeconds),
				screenState(e.ScreenOff),
				e.Decision)
			if e.ActionError != "" {
				line += " (action failed)"
			}
			output += line + "\n"
		}
	}

	return output
}

// FormatHistoryJSON formats the history as JSON
func (r *Reporter) FormatHistoryJSON(history *models.History) (string, error) {
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// screenState renders the power reading the way xset reports it
func screenState(off bool) string {
	if off {
		return "off"
	}
	return "on"
}
