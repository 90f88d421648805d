package services

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"conference-management-api/models"
)

// certificateTmpl renders the HTML certificate artifact stored on the
// certificate row and served on download.
var certificateTmpl = template.Must(template.New("certificate").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Certificate</title>
  <style>
    body { font-family: Georgia, serif; text-align: center; padding: 60px; }
    .frame { border: 6px double #2c3e50; padding: 48px; }
    h1 { letter-spacing: 4px; }
    .name { font-size: 2rem; margin: 24px 0; }
    .paper { font-style: italic; }
  </style>
</head>
<body>
  <div class="frame">
    <h1>CERTIFICATE</h1>
    <p>This certifies that</p>
    <div class="name">{{.Name}}</div>
    <p>served as <strong>{{.Role}}</strong> at</p>
    <p><strong>{{.ConferenceName}}</strong>{{if .Location}}, {{.Location}}{{end}}</p>
    {{if .PaperTitle}}<p class="paper">for the paper &ldquo;{{.PaperTitle}}&rdquo;</p>{{end}}
    <p>Issued {{.IssuedOn}}</p>
  </div>
</body>
</html>
`))

type certificateData struct {
	Name           string
	Role           string
	ConferenceName string
	Location       string
	PaperTitle     string
	IssuedOn       string
}

// RenderCertificate produces the certificate artifact for one identity.
// Failures are isolated per identity by the caller.
func RenderCertificate(name, role string, conference *models.Conference, paperTitle *string) ([]byte, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("recipient name is empty")
	}

	data := certificateData{
		Name:           name,
		Role:           role,
		ConferenceName: conference.Name,
		IssuedOn:       time.Now().Format("2 January 2006"),
	}
	if conference.Location != nil {
		data.Location = *conference.Location
	}
	if paperTitle != nil {
		data.PaperTitle = *paperTitle
	}

	var buf bytes.Buffer
	if err := certificateTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
