// Package templates renders the outgoing notification emails.
package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

const confirmedHTML = `
<html>
  <body style="font-family: Arial, sans-serif; color: #222;">
    <h2>See you there, {{.Name}}!</h2>
    <p>Your seat for <strong>{{.EventTitle}}</strong> is confirmed.</p>
    <p>
      <strong>When:</strong> {{.EventDate}}<br>
      <strong>Where:</strong> {{.EventLocation}}
    </p>
    <p>If your plans change you can cancel your reservation any time from the
    event page; your seat will be released to someone else.</p>
    <p style="color:#888; font-size: 12px;">{{.CompanyName}}{{if .SupportURL}} &middot; <a href="{{.SupportURL}}">Support</a>{{end}}</p>
  </body>
</html>`

const cancelledHTML = `
<html>
  <body style="font-family: Arial, sans-serif; color: #222;">
    <h2>Reservation cancelled</h2>
    <p>Hi {{.Name}}, your seat for <strong>{{.EventTitle}}</strong> on
    {{.EventDate}} has been released.</p>
    <p>You are welcome to reserve again while seats remain.</p>
    <p style="color:#888; font-size: 12px;">{{.CompanyName}}{{if .SupportURL}} &middot; <a href="{{.SupportURL}}">Support</a>{{end}}</p>
  </body>
</html>`

var tmpls = map[string]*template.Template{
	"reservation_confirmed": template.Must(template.New("reservation_confirmed").Parse(confirmedHTML)),
	"reservation_cancelled": template.Must(template.New("reservation_cancelled").Parse(cancelledHTML)),
}

var subjects = map[string]string{
	"reservation_confirmed": "Your seat is confirmed",
	"reservation_cancelled": "Your reservation was cancelled",
}

// Render returns the subject and HTML body for a named template.
func Render(name string, data map[string]any) (subject, html string, err error) {
	t, ok := tmpls[name]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", "", err
	}
	return subjects[name], buf.String(), nil
}
