package dto

import (
	"encoding/json"
	"strings"
)

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Flash mensaje de un solo uso mostrado tras una redirección.
type Flash struct {
	Kind    string `json:"kind"` // success, info, warning, danger
	Message string `json:"message"`
}

// PageResponse envoltorio de las vistas GET: datos + mensajes flash pendientes.
type PageResponse struct {
	Flash []Flash `json:"flash"`
	Data  any     `json:"data,omitempty"`
}

// NumberText valor numérico que llega como texto desde formularios. En JSON acepta 10 o "10";
// la validación la hace el caso de uso para poder responder con ValidationError.
type NumberText string

// UnmarshalJSON acepta string o número literal.
func (t *NumberText) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*t = ""
	case strings.HasPrefix(s, `"`):
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*t = NumberText(v)
	default:
		*t = NumberText(s)
	}
	return nil
}

// FormContext describe el formulario que espera una vista GET (la UI HTML queda fuera).
type FormContext struct {
	Action string   `json:"action"`
	Method string   `json:"method"`
	Fields []string `json:"fields"`
}
