package controllers

import (
	"net/http/pprof"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/helpify-project/messageboard/internal/router"
)

var _ router.Controller = (*GoDebugController)(nil)

// GoDebugController exposes net/http/pprof. Only mounted with --debug.
type GoDebugController struct {
}

func (c *GoDebugController) Register(router *mux.Router) {
	zap.L().Warn("enabling /debug/pprof endpoint")
	sub := router.PathPrefix("/debug/pprof").Subrouter()
	sub.HandleFunc("/cmdline", pprof.Cmdline)
	sub.HandleFunc("/profile", pprof.Profile)
	sub.HandleFunc("/symbol", pprof.Symbol)
	sub.HandleFunc("/trace", pprof.Trace)
	// Index serves the listing and every named profile (heap, allocs, mutex...).
	sub.PathPrefix("/").HandlerFunc(pprof.Index)
}
