// Package pathbind adapts third-party routers to lens path specs.
//
//	id := lens.Parse(pathbind.Chi, lens.UUID).Required("id")
package pathbind

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/mux"

	"github.com/bjaus/lens"
)

// Chi reads path segments matched by a chi router.
var Chi = lens.PathFrom(chi.URLParam)

// Mux reads path variables matched by a gorilla/mux router.
var Mux = lens.PathFrom(func(r *http.Request, name string) string {
	return mux.Vars(r)[name]
})
