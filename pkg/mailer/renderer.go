package mailer

import (
	"bytes"
	"io"
)

// ViewEngine html/v2 Engine'in Render imzası.
type ViewEngine interface {
	Render(out io.Writer, name string, binding interface{}, layout ...string) error
}

// TemplateRenderer e-posta gövdelerini gömülü şablonlardan üretir.
type TemplateRenderer struct {
	engine ViewEngine
	layout string
}

func NewTemplateRenderer(engine ViewEngine) *TemplateRenderer {
	return &TemplateRenderer{engine: engine, layout: "layouts/email"}
}

// Render "emails/<name>" şablonunu e-posta düzeniyle işler.
func (r *TemplateRenderer) Render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Render(&buf, "emails/"+name, data, r.layout); err != nil {
		return "", err
	}
	return buf.String(), nil
}
