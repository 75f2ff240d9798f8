package core

import (
	"bytes"
	"embed"
	htmltmpl "html/template"
	"net/mail"
	"path"
	"strings"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

//go:embed templates/email
var emailTemplatesFS embed.FS

var (
	textTemplates *texttmpl.Template
	htmlTemplates *htmltmpl.Template
	tmplInit      sync.Once
	tmplInitErr   error
)

type (
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		TemplateName string // without ext
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	ContextData struct {
		AppName         string
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails.
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

// Render resolves the message's text and HTML contents from its template pair
// (TemplateName.txt / TemplateName.gohtml), or from BodyStr when not templated.
func (m *EmailMessage) Render(conf *Config) error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
	}
	if m.TemplateName == "" {
		return nil
	}

	tmplInit.Do(parseEmailTemplates)
	if tmplInitErr != nil {
		return tmplInitErr
	}

	data := ContextData{
		AppName:         conf.AppName,
		FrontendBaseURL: conf.FrontendBaseURL,
		Data:            m.TemplateData,
	}

	if tmpl := textTemplates.Lookup(m.TemplateName + ".txt"); tmpl != nil {
		var buff bytes.Buffer
		if err := tmpl.Execute(&buff, data); err != nil {
			return errors.Wrap(err, "executing "+m.TemplateName+".txt")
		}
		m.TextContent = buff.String()
	}
	if tmpl := htmlTemplates.Lookup(m.TemplateName + ".gohtml"); tmpl != nil {
		var buff bytes.Buffer
		if err := tmpl.Execute(&buff, data); err != nil {
			return errors.Wrap(err, "executing "+m.TemplateName+".gohtml")
		}
		m.HTMLContent = buff.String()
	}
	return nil
}

// ParseEmailTemplates eagerly parses the embedded templates so a broken
// template fails at startup rather than on first send.
func ParseEmailTemplates(logger Logger) {
	tmplInit.Do(parseEmailTemplates)
	if tmplInitErr != nil {
		logger.Fatal("parsing email templates", tmplInitErr)
	}
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return (m.TextContent != "") || (m.HTMLContent != "") }

func parseEmailTemplates() {
	root := path.Join("templates", "email")

	fis, err := emailTemplatesFS.ReadDir(root)
	if err != nil {
		tmplInitErr = errors.Wrap(err, "reading email templates dir")
		return
	}

	textTemplates = texttmpl.New("")
	htmlTemplates = htmltmpl.New("")
	for _, fi := range fis {
		name := fi.Name()
		raw, err := emailTemplatesFS.ReadFile(path.Join(root, name))
		if err != nil {
			tmplInitErr = errors.Wrap(err, "reading email template "+name)
			return
		}
		switch {
		case strings.HasSuffix(name, ".txt"):
			_, err = textTemplates.New(name).Parse(string(raw))
		case strings.HasSuffix(name, ".gohtml"):
			_, err = htmlTemplates.New(name).Parse(string(raw))
		}
		if err != nil {
			tmplInitErr = errors.Wrap(err, "parsing email template "+name)
			return
		}
	}
}
