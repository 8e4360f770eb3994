package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// ContactEmailData holds the data for contact form emails
type ContactEmailData struct {
	SenderName  string
	SenderEmail string
	Message     string
}

// contactEmailTemplate is the HTML body for contact form emails.
// html/template escapes every field.
const contactEmailTemplate = `<p>You have a new contact request:</p>
<h3>Contact Details</h3>
<ul>
  <li><strong>Name:</strong> {{.SenderName}}</li>
  <li><strong>Email:</strong> {{.SenderEmail}}</li>
</ul>
<h3>Message</h3>
<p>{{.Message}}</p>
`

var contactTmpl = template.Must(template.New("contact").Parse(contactEmailTemplate))

// ContactSubject returns the subject line for a submission from name.
func ContactSubject(name string) string {
	return fmt.Sprintf("New Contact Form Submission from %s", name)
}

// RenderContactEmail executes the contact template.
func RenderContactEmail(data ContactEmailData) (string, error) {
	var body bytes.Buffer
	if err := contactTmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return body.String(), nil
}
