// Package help renders the key binding reference as a markdown overlay.
package help

import "github.com/charmbracelet/glamour"

const keysDoc = `# Taskboard keys

## Navigation
| Key | Action |
|-----|--------|
| 1 / 2 / 3 | dashboard / projects / calendar |
| j / k | next / previous task |
| h / l | previous / next project |
| [ / ] | previous / next comment |
| , / . | previous / next month (calendar) |

## Actions
| Key | Action |
|-----|--------|
| P | new project |
| t | new task |
| m | add member |
| c | comment on selected task |
| enter | mark selected task done |
| d | delete selected task |
| D | delete selected project |
| x | delete selected comment |
| n | notifications |
| e | event log |
| p | edit profile |
| r | refresh |
| ? | this help |
| q | quit |
`

// View renders the help overlay. Falls back to the raw markdown if the
// renderer cannot be constructed.
func View(width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return keysDoc
	}
	out, err := r.Render(keysDoc)
	if err != nil {
		return keysDoc
	}
	return out
}
