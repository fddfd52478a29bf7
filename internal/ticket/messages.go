package ticket

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/shestoi/rivalsyndicate/internal/discord"
	"github.com/shestoi/rivalsyndicate/internal/repository"
)

// Цвета embed-сообщений
const (
	colorBrand     = 0x00FFD1
	colorCompleted = 0x22C55E
	colorProgress  = 0xF59E0B
	colorClosed    = 0xEF4444

	footerText = "The Rival Syndicate"
)

var (
	closeTemplate = template.Must(template.New("close").Parse(
		"This ticket has been closed by **{{.By}}**.\nThis channel will be deleted in {{.Seconds}} seconds."))

	completeTemplate = template.Must(template.New("complete").Parse(
		"This order has been marked as complete by **{{.By}}**. Thank you for choosing The Rival Syndicate!\n" +
			"This ticket will close in {{.Seconds}} seconds."))
)

type noticeData struct {
	By      string
	Seconds int
}

func render(tmpl *template.Template, data noticeData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// orderSummary - первое сообщение в новом тикете
func orderSummary(req Request, now time.Time) discord.MessageParams {
	customer := req.Username
	content := fmt.Sprintf("Welcome %s!", req.Username)
	if req.DiscordID != "" {
		customer = mention(req.DiscordID)
		content = mention(req.DiscordID) + " Welcome to your order ticket!"
	}

	return discord.MessageParams{
		Content: content,
		Embeds: []discord.Embed{{
			Title: "🎮 New Order Created",
			Color: colorBrand,
			Fields: []discord.EmbedField{
				{Name: "Customer", Value: customer, Inline: true},
				{Name: "Character", Value: req.CharacterName, Inline: true},
				{Name: "Service", Value: req.ServiceType.DisplayName(), Inline: true},
				{Name: "Price", Value: "$" + req.Price.String(), Inline: true},
				{Name: "Order ID", Value: "`" + shortID(req.OrderID) + "`", Inline: true},
				{Name: "Status", Value: "⏳ Pending Payment", Inline: true},
			},
			Footer:    &discord.EmbedFooter{Text: footerText},
			Timestamp: now.UTC().Format(time.RFC3339),
		}},
	}
}

// statusUpdate - уведомление о смене статуса; completed выделяется цветом
func statusUpdate(upd StatusUpdate, now time.Time) discord.MessageParams {
	color := colorProgress
	if upd.Status == repository.StatusCompleted {
		color = colorCompleted
	}

	fields := []discord.EmbedField{
		{Name: "Status", Value: upd.Status.Label(), Inline: true},
		{Name: "Progress", Value: fmt.Sprintf("%d%%", upd.Progress), Inline: true},
	}
	if upd.Notes != "" {
		fields = append(fields, discord.EmbedField{Name: "Notes", Value: upd.Notes})
	}

	return discord.MessageParams{
		Embeds: []discord.Embed{{
			Title:     "📊 Order Status Updated",
			Color:     color,
			Fields:    fields,
			Footer:    &discord.EmbedFooter{Text: footerText},
			Timestamp: now.UTC().Format(time.RFC3339),
		}},
	}
}

func closeNotice(by string, delay time.Duration, now time.Time) (discord.MessageParams, error) {
	text, err := render(closeTemplate, noticeData{By: by, Seconds: int(delay.Seconds())})
	if err != nil {
		return discord.MessageParams{}, err
	}
	return discord.MessageParams{
		Embeds: []discord.Embed{{
			Title:       "🔒 Ticket Closed",
			Description: text,
			Color:       colorClosed,
			Footer:      &discord.EmbedFooter{Text: footerText},
			Timestamp:   now.UTC().Format(time.RFC3339),
		}},
	}, nil
}

func completeNotice(by string, delay time.Duration, now time.Time) (discord.MessageParams, error) {
	text, err := render(completeTemplate, noticeData{By: by, Seconds: int(delay.Seconds())})
	if err != nil {
		return discord.MessageParams{}, err
	}
	return discord.MessageParams{
		Embeds: []discord.Embed{{
			Title:       "✅ Order Completed",
			Description: text,
			Color:       colorCompleted,
			Footer:      &discord.EmbedFooter{Text: footerText},
			Timestamp:   now.UTC().Format(time.RFC3339),
		}},
	}, nil
}

func mention(discordID string) string {
	return "<@" + discordID + ">"
}
