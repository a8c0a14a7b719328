package api

import (
	"html/template"
	"net/http"

	"github.com/sapcc/go-bits/logg"

	"github.com/ivcompat/ivcompat/internal/infusion"
	"github.com/ivcompat/ivcompat/internal/solver"
)

// No third-party HTML templating library appears anywhere in the example
// pack; html/template is the stdlib's own answer to the one thing a
// hand-rolled renderer must never get wrong (escaping catalogue names
// into the response), so it is used here instead of string concatenation.

var catalogueTemplate = template.Must(template.New("catalogue").Parse(`<!DOCTYPE html>
<html>
<head><title>Infusion catalogue</title></head>
<body>
<h1>Infusion catalogue</h1>
<table border="1">
<tr><th>ID</th><th>Name</th><th>Type</th></tr>
{{range .}}<tr><td>{{.ID}}</td><td>{{.Name}}</td><td>{{.Type}}</td></tr>
{{end}}</table>
</body>
</html>
`))

var resultsTemplate = template.Must(template.New("results").Parse(`<!DOCTYPE html>
<html>
<head><title>IV assignment</title></head>
<body>
<h1>IV assignment</h1>
{{range .}}<h2>IV #{{.Line}}</h2>
<ul>
{{range .Names}}<li>{{.}}</li>
{{end}}</ul>
{{end}}
</body>
</html>
`))

func renderCatalogue(w http.ResponseWriter, rows []infusion.Row) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := catalogueTemplate.Execute(w, rows); err != nil {
		logg.Error("could not render catalogue template: %s", err.Error())
	}
}

func renderResults(w http.ResponseWriter, assignments []solver.IVAssignment) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := resultsTemplate.Execute(w, assignments); err != nil {
		logg.Error("could not render results template: %s", err.Error())
	}
}
