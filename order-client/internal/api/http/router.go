package httpapi

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func NewRouter(handler *Handler) http.Handler {
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
	}).Handler(r)
}

func NewServer(addr string, handler http.Handler) *http.Server {
	log.Printf("Order client API listening on %s", addr)
	return &http.Server{Addr: addr, Handler: handler}
}
