package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"AltSentinel/internal/history"
	"AltSentinel/internal/model"
)

// Message is one composed alert email. Inline maps attachment filenames
// to PNG bytes; the HTML body references them as cid: URLs.
type Message struct {
	Subject string
	Text    string
	HTML    string
	Inline  map[string][]byte
}

// ChartName returns the inline attachment filename for an indicator.
func ChartName(id model.IndicatorID) string {
	return string(id) + ".png"
}

// Compose builds the single per-run alert message: one section per
// alert kind, each embedding the charts for its related indicators when
// rendered, falling back to a text summary otherwise.
func Compose(alerts []model.AlertCondition, charts map[model.IndicatorID][]byte, hist *history.Store) *Message {
	msg := &Message{
		Subject: subjectFor(alerts),
		Inline:  make(map[string][]byte),
	}

	var text strings.Builder
	var htm strings.Builder

	fmt.Fprintf(&text, "Market alert report | %s\n\n", time.Now().UTC().Format("2006-01-02 15:04 MST"))
	htm.WriteString("<html><body>\n")
	fmt.Fprintf(&htm, "<h1>Market alert report</h1>\n<p>%s</p>\n",
		time.Now().UTC().Format("2006-01-02 15:04 MST"))

	for _, a := range alerts {
		fmt.Fprintf(&text, "== %s ==\n%s\n", a.Kind.Title(), a.Message)
		fmt.Fprintf(&htm, "<h2>%s</h2>\n<p>%s</p>\n",
			html.EscapeString(a.Kind.Title()),
			strings.ReplaceAll(html.EscapeString(a.Message), "\n", "<br>\n"))

		for _, id := range a.Indicators {
			if png, ok := charts[id]; ok {
				name := ChartName(id)
				msg.Inline[name] = png
				fmt.Fprintf(&text, "[chart: %s]\n", id)
				fmt.Fprintf(&htm, "<div><img src=\"cid:%s\" alt=\"%s\"></div>\n", name, id)
			} else {
				fmt.Fprintf(&text, "%s\n", indicatorSummary(id, hist))
				fmt.Fprintf(&htm, "<p><i>%s</i></p>\n", html.EscapeString(indicatorSummary(id, hist)))
			}
		}
		text.WriteString("\n")
	}

	htm.WriteString("</body></html>\n")
	msg.Text = text.String()
	msg.HTML = htm.String()
	return msg
}

func subjectFor(alerts []model.AlertCondition) string {
	for _, a := range alerts {
		if a.Kind == model.AlertFullExit {
			return fmt.Sprintf("🚨 FULL EXIT SIGNAL (%d alerts)", len(alerts))
		}
	}
	if len(alerts) == 1 {
		return "⚠️ " + alerts[0].Kind.Title()
	}
	return fmt.Sprintf("⚠️ Market alert: %d signals triggered", len(alerts))
}

// indicatorSummary is the text fallback for an indicator without a
// rendered chart.
func indicatorSummary(id model.IndicatorID, hist *history.Store) string {
	last, ok := hist.Last(id)
	if !ok {
		return fmt.Sprintf("%s: no recorded samples", id)
	}
	return fmt.Sprintf("%s: latest %.4f at %s (%d samples recorded)",
		id, last.Value, last.Time.Format("2006-01-02"), hist.Len(id))
}
