package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// Built-in mail templates. Kept in code rather than on disk so a broken
// deployment cannot silently lose the recovery mail.
const passwordResetTemplate = `
<html>
<body>
	<h2>Password recovery</h2>
	<p>Hello {{.DisplayName}},</p>
	<p>We received a request to reset the password for your account.
	Follow the link below to choose a new password:</p>
	<p><a href="{{.ResetURL}}">{{.ResetURL}}</a></p>
	<p>The link is valid for one hour and can be used once.</p>
	<p>If you did not request this, you can safely ignore this email.</p>
	<p>— {{.FromName}}</p>
</body>
</html>
`

// TemplateManager renders the named mail templates.
type TemplateManager struct {
	templates map[string]*template.Template
}

func NewTemplateManager() (*TemplateManager, error) {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}

	if err := tm.add("password_reset", passwordResetTemplate); err != nil {
		return nil, err
	}

	return tm, nil
}

func (tm *TemplateManager) add(name, text string) error {
	t, err := template.New(name).Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse template %q: %w", name, err)
	}
	tm.templates[name] = t
	return nil
}

// Render executes the named template with data.
func (tm *TemplateManager) Render(name string, data TemplateData) (string, error) {
	t, ok := tm.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown template %q", name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %q: %w", name, err)
	}
	return buf.String(), nil
}
