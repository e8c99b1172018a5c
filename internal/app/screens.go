package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bowerhall/regen/internal/gateway"
	"github.com/bowerhall/regen/internal/household"
	"github.com/bowerhall/regen/internal/market"
	"github.com/bowerhall/regen/internal/rewards"
	"github.com/bowerhall/regen/internal/scan"
	"github.com/bowerhall/regen/internal/schedule"
	"github.com/bowerhall/regen/internal/session"
	"github.com/bowerhall/regen/internal/support"
)

const (
	ChatIntro  = "Ask me anything about recycling, composting, or waste disposal. Just type your question."
	ScanIntro  = "Send a photo of a waste item and I'll tell you whether it's recyclable."
	ProofIntro = "Send a photo of your compost with the caption \"proof\" to submit composting proof."

	AddressUsage  = "Please fill in both house number and address: /address <house no> | <address>"
	SupportUsage  = "Please write your feedback: /support <message>"
	RedeemUsage   = "Choose a reward to redeem: /redeem <number>. Send /rewards to see the list."
	UnknownReward = "Unknown reward. Send /rewards to see the list."
	RemindUsage   = "Use /remind on or /remind off."
	NoReminders   = "Pickup reminders are not available."
)

func (a *App) Home() string {
	var b strings.Builder
	b.WriteString("Welcome to Regen! 🌱\n\n")
	b.WriteString("/address - Register your house number and address\n")
	b.WriteString("/guide - How to segregate your waste\n")
	b.WriteString("/scan - Check if an item is recyclable\n")
	b.WriteString("/chat - Ask the waste management assistant\n")
	b.WriteString("/history - Your recent chat\n")
	b.WriteString("/rewards - Your coins and vouchers\n")
	b.WriteString("/schedule - Pickup timings and contacts\n")
	b.WriteString("/remind on|off - Pickup reminders\n")
	b.WriteString("/market [search] - Buy and sell recycled products\n")
	b.WriteString("/proof - Submit composting proof\n")
	b.WriteString("/support <message> - Send us feedback")
	return b.String()
}

func (a *App) Guide() string {
	var b strings.Builder
	b.WriteString("Waste Segregation Guide\n")
	for _, c := range a.catalog.Guide {
		fmt.Fprintf(&b, "\n%s", c.Title)
		if c.Bin != "" {
			fmt.Fprintf(&b, " (%s bin)", c.Bin)
		}
		b.WriteString("\n")
		for _, item := range c.Items {
			fmt.Fprintf(&b, "• %s\n", item)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// ScanScreen shows the last classification in sess, or how to start one.
func (a *App) ScanScreen(sess *session.Session) string {
	st := sess.Scan()
	if st.Result == nil && st.Error == "" && !st.Loading {
		return ScanIntro
	}
	return "Last scan:\n" + scan.Render(st)
}

func (a *App) renderScan(st scan.State) string {
	out := scan.Render(st)
	if st.Result != nil && st.Result.IsRecyclable && a.scanReward > 0 {
		out += fmt.Sprintf("\n+%d coins", a.scanReward)
	}
	return out
}

func (a *App) History(sess *session.Session, n int) string {
	var b strings.Builder
	for _, e := range sess.Recent(n) {
		who := "Assistant"
		if e.IsUser {
			who = "You"
		}
		fmt.Fprintf(&b, "%s: %s\n", who, e.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *App) Rewards(sess *session.Session) string {
	ledger := sess.Ledger()

	var b strings.Builder
	fmt.Fprintf(&b, "Coins: %d\n", ledger.Balance())
	fmt.Fprintf(&b, "This Month Earned: %d\n", ledger.EarnedThisMonth())
	b.WriteString(rewards.EarnHint + "\n\n")
	b.WriteString("Rewards\n")
	for i, card := range a.catalog.Rewards.Cards {
		fmt.Fprintf(&b, "%d. %s - %d coins\n   %s\n", i+1, card.Title, card.Coins, card.Description)
	}
	b.WriteString("\nRedeem with /redeem <number>")
	return b.String()
}

func (a *App) Redeem(sess *session.Session, ref string) string {
	if strings.TrimSpace(ref) == "" {
		return RedeemUsage
	}

	card, ok := a.catalog.Card(ref)
	if !ok {
		return UnknownReward
	}

	if _, err := sess.Ledger().Redeem(card); err != nil {
		if errors.Is(err, rewards.ErrInsufficientCoins) {
			return rewards.InsufficientMessage
		}
		return err.Error()
	}

	return fmt.Sprintf("%s: %s. Remaining coins: %d", rewards.RedeemedMessage, card.Title, sess.Ledger().Balance())
}

func (a *App) Schedule() string {
	cat := a.catalog.Schedule

	var b strings.Builder
	b.WriteString("Pickup Schedule\n")
	for _, d := range cat.Days {
		fmt.Fprintf(&b, "%s: %s\n", d.Day, strings.Join(d.Times, ", "))
	}

	if a.schedule != nil {
		now := a.now()
		if slot, at, ok := a.schedule.Next(now); ok {
			fmt.Fprintf(&b, "\nNext pickup: %s (in %s)\n", slot, at.Sub(now).Round(time.Minute))
		}
	}

	if len(cat.Notices) > 0 {
		b.WriteString("\nImportant Notices\n")
		for _, n := range cat.Notices {
			fmt.Fprintf(&b, "• %s\n", n)
		}
	}

	if len(cat.Authorities) > 0 {
		b.WriteString("\nContact Authorities\n")
		for _, au := range cat.Authorities {
			fmt.Fprintf(&b, "%s\nPhone: %s\nEmail: %s\n", au.Title, au.Contact, au.Email)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func (a *App) Remind(sub schedule.Subscriber, args string) string {
	if a.reminders == nil {
		return NoReminders
	}

	lead := a.reminders.Lead()
	switch strings.ToLower(args) {
	case "on":
		if !a.reminders.Subscribe(sub) {
			return "Pickup reminders are already on."
		}
		return fmt.Sprintf("Pickup reminders on. I'll message you %s before each pickup.", lead)
	case "off":
		if !a.reminders.Unsubscribe(sub) {
			return "Pickup reminders are already off."
		}
		return "Pickup reminders off."
	case "":
		if a.reminders.Subscribed(sub) {
			return "Pickup reminders are on. " + RemindUsage
		}
		return "Pickup reminders are off. " + RemindUsage
	default:
		return RemindUsage
	}
}

func (a *App) Market(query string) string {
	m := a.catalog.Market
	found := market.Search(m.Categories, query)

	var b strings.Builder
	b.WriteString("Marketplace\n")
	if len(found) == 0 {
		b.WriteString("\n" + market.NoResultsMessage + "\n")
	}
	for _, c := range found {
		fmt.Fprintf(&b, "\n%s\n", c.Title)
		for _, item := range c.Items {
			fmt.Fprintf(&b, "• %s\n", item)
		}
	}
	fmt.Fprintf(&b, "\nBuy recycled products: %s\n", m.BuyURL)
	fmt.Fprintf(&b, "Sell your scrap: %s", m.SellURL)
	return b.String()
}

// Address registers "<house no> | <address>", or shows the saved address when input is empty.
func (a *App) Address(sess *session.Session, input string) string {
	if strings.TrimSpace(input) == "" {
		if reg, ok := sess.Household(); ok {
			return "Registered address: " + reg.String()
		}
		return AddressUsage
	}

	reg, err := household.Register(household.Parse(input))
	if err != nil {
		return AddressUsage
	}

	sess.SetHousehold(reg)
	return household.SavedMessage
}

func (a *App) Support(text string) string {
	fb, err := support.SubmitFeedback(text)
	if err != nil {
		return SupportUsage
	}
	return fmt.Sprintf("%s Reference: %s", support.FeedbackMessage, fb.Ref)
}

func (a *App) Proof(img gateway.Image) string {
	p, err := support.SubmitProof(img, a.scanner.MaxBytes())
	if err != nil {
		return a.scanner.ValidationMessage(err)
	}
	return fmt.Sprintf("%s Reference: %s", support.ProofMessage, p.Ref)
}
