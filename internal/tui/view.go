package tui

import (
	"fmt"
	"strings"

	"github.com/bowerhall/regen/internal/scan"
)

var titles = map[screen]string{
	screenHome:     "Regen",
	screenChat:     "Waste Management Assistant",
	screenScan:     "Scan Waste",
	screenGuide:    "Segregation Guide",
	screenRewards:  "Rewards",
	screenSchedule: "Pickup Schedule",
	screenMarket:   "Marketplace",
	screenAddress:  "Register Address",
	screenProof:    "Composting Proof",
	screenSupport:  "Support",
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(titles[m.screen]))
	b.WriteString("\n\n")

	if m.screen == screenHome {
		b.WriteString(m.homeView())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("↑/↓ choose • enter open • q quit"))
		return b.String()
	}

	b.WriteString(frameStyle.Render(m.viewport.View()))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	if m.hasInput() {
		if m.loading {
			b.WriteString(m.spinner.View() + " " + helpStyle.Render("waiting for a reply..."))
		} else {
			b.WriteString(m.input.View())
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m Model) hasInput() bool {
	return placeholders[m.screen] != ""
}

func (m Model) help() string {
	switch m.screen {
	case screenChat:
		return "enter send • pgup/pgdn scroll • esc back"
	case screenScan:
		return "enter select / analyze • esc back"
	default:
		if m.hasInput() {
			return "enter submit • esc back"
		}
		return "↑/↓ scroll • esc back"
	}
}

func (m Model) homeView() string {
	var b strings.Builder
	for i, item := range menu {
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + item.title))
		} else {
			b.WriteString(itemStyle.Render("  " + item.title))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// content is what the viewport shows for the current screen.
func (m Model) content() string {
	switch m.screen {
	case screenChat:
		return m.chatContent()
	case screenScan:
		return m.scanContent()
	case screenGuide:
		return m.app.Guide()
	case screenRewards:
		return m.app.Rewards(m.sess)
	case screenSchedule:
		return m.app.Schedule()
	case screenMarket:
		return m.app.Market(m.input.Value())
	case screenAddress:
		if reg, ok := m.sess.Household(); ok {
			return "Registered address: " + reg.String()
		}
		return "Enter your house number and address, separated by |"
	case screenProof:
		return "Upload a photo of your compost as proof of composting."
	case screenSupport:
		return "Tell us about a missed pickup, a problem, or an idea."
	default:
		return ""
	}
}

func (m Model) chatContent() string {
	var b strings.Builder
	for _, e := range m.sess.Exchanges() {
		if e.IsUser {
			fmt.Fprintf(&b, "%s %s\n\n", userStyle.Render("You:"), e.Text)
			continue
		}
		fmt.Fprintf(&b, "%s\n%s\n\n", botStyle.Render("Assistant:"), m.markdown(e.Text))
	}
	if m.loading {
		b.WriteString(m.spinner.View() + " thinking...")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) scanContent() string {
	st := m.sess.Scan()
	if m.loading {
		st = scan.State{Loading: true}
	}

	if out := scan.Render(st); out != "" {
		return out
	}

	if m.holder.Active() {
		return "Image selected. Press Enter to analyze."
	}
	return "Type the path of a waste photo (PNG, JPG, GIF or WebP) and press Enter."
}
