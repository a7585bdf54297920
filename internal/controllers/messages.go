package controllers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/helpify-project/messageboard/internal/apierrors"
	"github.com/helpify-project/messageboard/internal/router"
	"github.com/helpify-project/messageboard/internal/service"
)

var _ router.Controller = (*MessagesController)(nil)

type MessagesController struct {
	Messages *service.MessageService
}

func (c *MessagesController) handleList(w http.ResponseWriter, r *http.Request) {
	messages, err := c.Messages.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, messages)
}

func (c *MessagesController) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := messageID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	msg, err := c.Messages.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, msg)
}

func (c *MessagesController) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input service.CreateMessageRequest
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	msg, err := c.Messages.Create(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, msg)
}

func (c *MessagesController) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := messageID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// A missing id wins over a bad body.
	if _, err = c.Messages.Get(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	var input service.UpdateMessageRequest
	if err = decodeJSON(w, r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	msg, err := c.Messages.Update(r.Context(), id, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, msg)
}

func (c *MessagesController) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := messageID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err = c.Messages.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *MessagesController) Register(router *mux.Router) {
	router.HandleFunc("/messages", c.handleList).Methods(http.MethodGet)
	router.HandleFunc("/messages", c.handleCreate).Methods(http.MethodPost)

	router.HandleFunc("/messages/{id:[0-9]+}", c.handleGet).Methods(http.MethodGet)
	router.HandleFunc("/messages/{id:[0-9]+}", c.handleUpdate).Methods(http.MethodPatch)
	router.HandleFunc("/messages/{id:[0-9]+}", c.handleDelete).Methods(http.MethodDelete)
}

// messageID parses the {id} path variable. Values that overflow int64 cannot
// name an existing row.
func messageID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, apierrors.ErrNotFound
	}

	return id, nil
}
