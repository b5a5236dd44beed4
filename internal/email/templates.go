package email

import (
	"fmt"
	"html/template"
	"strings"
)

var templates = map[string]*template.Template{}

func init() {
	sources := map[string]string{
		"welcome": `
<h2>Welcome, {{.Name}}!</h2>
<p>Your RupeeStream account is ready. A welcome bonus of ₹1000 has been
credited to your balance.</p>
<p>Complete your KYC verification to start earning from tasks.</p>`,

		"completion_reviewed": `
<h2>Hi {{.Name}},</h2>
{{if .Approved}}
<p>Your completion of <b>{{.TaskTitle}}</b> was approved and the reward has
been added to your balance.</p>
{{else}}
<p>Your completion of <b>{{.TaskTitle}}</b> was rejected.</p>
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}
<p>You can review the feedback and submit again.</p>
{{end}}`,

		"payout_processed": `
<h2>Hi {{.Name}},</h2>
<p>Your payout of ₹{{.Amount}} has been transferred to your bank account.</p>`,

		"account_suspended": `
<h2>Hi {{.Name}},</h2>
<p>Your RupeeStream account has been suspended.</p>
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}
<p>Log in and pay the reactivation fee to restore access.</p>`,
	}

	for name, src := range sources {
		templates[name] = template.Must(template.New(name).Parse(src))
	}
}

func render(name string, data map[string]interface{}) (string, error) {
	tpl, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("email template not found: %s", name)
	}
	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email template %s: %w", name, err)
	}
	return buf.String(), nil
}
