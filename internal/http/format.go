package http

import (
	"fmt"
	"html"
	"strings"

	"expensebot/internal/core"
	"expensebot/internal/ledger"
	"expensebot/internal/services"
)

// Reply builders. Replies use Telegram HTML parse mode, so every
// user-controlled string goes through html.EscapeString.

func welcomeReply() string {
	return strings.Join([]string{
		"👋 Send me an expense and I'll categorize and record it.",
		"",
		"• Free text, e.g. <i>Client lunch $85</i>",
		"• A receipt photo, with an optional caption for context",
		"",
		"Commands:",
		"/ytd — year-to-date Contract Labor total",
		"/recent — latest entries",
		"/edit &lt;n&gt; &lt;text&gt; — replace an entry's description",
		"/note &lt;n&gt; &lt;text&gt; — append a note to an entry",
	}, "\n")
}

func recordedReply(result services.IntakeResult) string {
	rec := result.Record
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Recorded <b>%s</b> — %s\n", html.EscapeString(rec.Vendor), rec.Amount.Format())
	fmt.Fprintf(&b, "Category: %s (%d%% deductible)\n", html.EscapeString(rec.Category), rec.DeductiblePct)
	fmt.Fprintf(&b, "Description: %s", html.EscapeString(rec.Description))
	if rec.ReceiptURL != "" {
		fmt.Fprintf(&b, "\n🧾 <a href=\"%s\">Receipt</a>", rec.ReceiptURL)
	}
	if result.Mirrored {
		b.WriteString("\n📋 Mirrored to the related-party ledger.")
	}
	if result.YTD != nil {
		b.WriteString("\n")
		b.WriteString(ytdReply(*result.YTD))
	}
	return b.String()
}

func ytdReply(status services.YTDStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 YTD Contract Labor: %s of %s", status.Total.Format(), status.Threshold.Format())
	if status.Warn() {
		remaining := status.Remaining()
		if remaining.Cents < 0 {
			over := core.Money{Cents: -remaining.Cents}
			fmt.Fprintf(&b, "\n🚨 Over the annual threshold by %s.", over.Format())
		} else {
			fmt.Fprintf(&b, "\n⚠️ Only %s remaining under the annual threshold.", remaining.Format())
		}
	}
	return b.String()
}

func recentReply(entries []ledger.Entry) string {
	if len(entries) == 0 {
		return "📭 No entries recorded yet."
	}
	var b strings.Builder
	b.WriteString("🗒 Recent entries:\n")
	for _, e := range entries {
		rec := e.Record
		fmt.Fprintf(&b, "\n<b>#%d</b> %s — %s %s\n    %s (%s)",
			e.Index,
			rec.Date.Format("2006-01-02"),
			html.EscapeString(rec.Vendor),
			rec.Amount.Format(),
			html.EscapeString(rec.Description),
			html.EscapeString(rec.Category))
	}
	return b.String()
}

func editedReply(index int, text string) string {
	return fmt.Sprintf("✏️ Entry #%d description updated to: %s", index, html.EscapeString(text))
}

func notedReply(index int, text string) string {
	return fmt.Sprintf("📝 Note added to entry #%d: %s", index, html.EscapeString(text))
}

func notFoundReply(index int) string {
	return fmt.Sprintf("❓ Entry #%d not found. Use /recent to see entries.", index)
}

func usageReply(cmd, example string) string {
	return fmt.Sprintf("ℹ️ Usage: %s &lt;n&gt; &lt;text&gt;, e.g. <i>%s 1 %s</i>", cmd, cmd, example)
}

func noTextReply() string {
	return "📷 Couldn't read any text on that receipt. Try a clearer photo, or type the expense instead."
}

func photoDownloadFailedReply() string {
	return "📷 Couldn't download that photo. Please send it again."
}

func categorizeFailedReply() string {
	return "🤖 Couldn't categorize that expense right now. Please try again, or rephrase it."
}

func ledgerErrorReply() string {
	return "⚠️ Couldn't reach the ledger. Nothing was saved, please try again."
}
