package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sapcc/go-bits/httpapi"
	"github.com/sapcc/go-bits/respondwith"

	"github.com/ivcompat/ivcompat/internal/graph"
	"github.com/ivcompat/ivcompat/internal/solver"
	"github.com/ivcompat/ivcompat/internal/store"
)

// v1Provider serves the IV compatibility HTTP surface: the catalogue
// listing and the solve endpoint.
type v1Provider struct {
	Loader store.Loader
}

// NewV1API builds an httpapi.API wrapping the given store.
func NewV1API(loader store.Loader) httpapi.API {
	return &v1Provider{Loader: loader}
}

// AddTo implements the httpapi.API interface.
func (p *v1Provider) AddTo(r *mux.Router) {
	r.Methods("GET", "HEAD").Path("/").HandlerFunc(p.ListCatalogue)
	r.Methods("GET").Path("/results").HandlerFunc(p.GetResults)
}

// ListCatalogue serves "GET /": an HTML listing of every known infusion.
func (p *v1Provider) ListCatalogue(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/")

	rows, err := p.Loader.ListAll(r.Context())
	if respondwith.ErrorText(w, err) {
		return
	}
	renderCatalogue(w, rows)
}

// GetResults serves "GET /results": it parses the requested IV
// assignments, runs the solver and renders either the resulting
// assignment or a 422 conflict report.
func (p *v1Provider) GetResults(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/results")

	req, err := parseSolveRequest(r)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	universe := req.universe()
	model, err := p.Loader.Load(r.Context(), universe)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	g := graph.Build(model, universe)
	result, err := solver.Solve(g, model, req.Seeds)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	assignments := solver.Render(result, model)
	renderResults(w, assignments)
}
