package client

import (
	"fmt"
	"strings"

	"taskboard/models"

	"github.com/charmbracelet/lipgloss"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const columnWidth = 26

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7"))
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3b4261")).
			Width(columnWidth).
			Padding(0, 1)
	cardTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("#c0caf5"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	mineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a"))

	priorityColors = map[models.Priority]lipgloss.Color{
		models.PriorityLow:    lipgloss.Color("#9ece6a"),
		models.PriorityMedium: lipgloss.Color("#e0af68"),
		models.PriorityHigh:   lipgloss.Color("#f7768e"),
	}
)

// RenderOptions controls how a board is drawn.
type RenderOptions struct {
	Title string
	Names map[primitive.ObjectID]string
	// Viewer, when set, marks the viewer's own cards and lists their next actions.
	Viewer *primitive.ObjectID
}

// RenderBoard draws the board as side-by-side columns.
func RenderBoard(board models.Board, opts RenderOptions) string {
	columns := make([]string, 0, len(board.Columns))
	for _, col := range board.Columns {
		lines := []string{headerStyle.Render(fmt.Sprintf("%s (%d)", col.Title, len(col.Tasks)))}
		if len(col.Tasks) == 0 {
			lines = append(lines, dimStyle.Render("no tasks"))
		}
		for _, t := range col.Tasks {
			lines = append(lines, renderCard(t, opts))
		}
		columns = append(columns, columnStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	}

	out := lipgloss.JoinHorizontal(lipgloss.Top, columns...)
	if opts.Title != "" {
		out = lipgloss.JoinVertical(lipgloss.Left, headerStyle.Render(opts.Title), out)
	}
	return out
}

func renderCard(t *models.Task, opts RenderOptions) string {
	title := fmt.Sprintf("%s %s", models.IconGlyph(t.IconName), t.Title)
	mine := opts.Viewer != nil && t.IsAssignee(*opts.Viewer)
	if mine {
		title = mineStyle.Render(title)
	} else {
		title = cardTitle.Render(title)
	}

	assignee := "unassigned"
	if t.AssigneeID != nil {
		assignee = opts.Names[*t.AssigneeID]
		if assignee == "" {
			assignee = t.AssigneeID.Hex()[:8]
		}
	}
	meta := lipgloss.NewStyle().Foreground(priorityColors[t.Priority]).Render(string(t.Priority)) +
		dimStyle.Render(" · "+assignee)

	lines := []string{title, meta}
	if mine {
		if actions := models.AvailableActions(t.Status); len(actions) > 0 {
			names := make([]string, len(actions))
			for i, a := range actions {
				names[i] = string(a)
			}
			lines = append(lines, dimStyle.Render("→ "+strings.Join(names, ", ")))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
