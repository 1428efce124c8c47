package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	texttemplate "text/template"
)

type mailTemplate struct {
	subject string
	body    *template.Template
}

var mailTemplates = map[Type]mailTemplate{
	TypeBookingConfirmed: {
		subject: "Your booking {{.booking_id}} is confirmed",
		body: template.Must(template.New("booking_confirmed").Parse(`<html><body>
<p>Hi {{.name}},</p>
<p>Your celebration at <strong>{{.theater}}</strong> is confirmed.</p>
<table>
<tr><td>Booking</td><td>{{.booking_id}}</td></tr>
<tr><td>Date</td><td>{{.date}}</td></tr>
{{if .slot}}<tr><td>Slot</td><td>{{.slot}}</td></tr>{{end}}
<tr><td>Paid</td><td>{{.payment_amount}} of {{.total_amount}}</td></tr>
</table>
<p>Show the attached QR code at the venue.</p>
</body></html>`)),
	},
	TypeUnsavedReminder: {
		subject: "Your slot at {{.theater}} is still open",
		body: template.Must(template.New("unsaved_reminder").Parse(`<html><body>
<p>Hi {{.name}},</p>
<p>You started booking <strong>{{.theater}}</strong> for {{.date}} but did not finish.
Slots go fast, so complete your booking soon.</p>
</body></html>`)),
	},
	TypeOTP: {
		subject: "Your login code",
		body: template.Must(template.New("otp").Parse(`<html><body>
<p>Your one-time code is <strong>{{.code}}</strong>.</p>
<p>It expires in {{.expires_in}}.</p>
</body></html>`)),
	},
}

// Render produces the subject and HTML body for n.
func Render(n *Notification) (string, string, error) {
	t, ok := mailTemplates[n.Type]
	if !ok {
		return "", "", fmt.Errorf("no template for %q", n.Type)
	}
	data := n.Data
	if _, ok := data["name"]; !ok {
		data = make(map[string]string, len(n.Data)+1)
		for k, v := range n.Data {
			data[k] = v
		}
		data["name"] = n.RecipientName
		if data["name"] == "" {
			data["name"] = "there"
		}
	}

	subject, err := texttemplate.New("subject").Parse(t.subject)
	if err != nil {
		return "", "", err
	}
	var sb, bb bytes.Buffer
	if err := subject.Execute(&sb, data); err != nil {
		return "", "", fmt.Errorf("render subject: %w", err)
	}
	if err := t.body.Execute(&bb, data); err != nil {
		return "", "", fmt.Errorf("render body: %w", err)
	}
	return sb.String(), bb.String(), nil
}
