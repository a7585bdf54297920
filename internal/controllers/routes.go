package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/uptrace/bun"

	"github.com/helpify-project/messageboard/internal/router"
	"github.com/helpify-project/messageboard/internal/service"
)

func NewRouter(db *bun.DB, debug bool) *mux.Router {
	r := mux.NewRouter()

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	if debug {
		(&GoDebugController{}).Register(r)
	}

	router.RegisterAll(r,
		&HealthController{DB: db},
		&MessagesController{Messages: service.NewMessageService(db)},
	)

	return r
}
