package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires every API route
func NewRouter(
	chat *ChatHandler,
	sessions *SessionHandler,
	users *UserHandler,
	reactions *ReactionHandler,
) *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/chat", chat.HandleChat).Methods(http.MethodPost)

	api.HandleFunc("/session", sessions.HandleCreate).Methods(http.MethodPost)
	api.HandleFunc("/session/{id}/mode", sessions.HandleSetMode).Methods(http.MethodPatch)
	api.HandleFunc("/session/{id}/history", sessions.HandleHistory).Methods(http.MethodGet)
	api.HandleFunc("/session/{id}/history", sessions.HandleClear).Methods(http.MethodDelete)

	api.HandleFunc("/users/{id}/preferences", users.HandleGetPreferences).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/preferences", users.HandleSavePreferences).Methods(http.MethodPut)
	api.HandleFunc("/users/{id}/flags", users.HandleSetFlag).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}/status", users.HandleStatus).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/call", users.HandleCall).Methods(http.MethodPost)

	api.HandleFunc("/messages/{id}/reactions", reactions.HandleAddReaction).Methods(http.MethodPost)
	api.HandleFunc("/messages/{id}/reactions", reactions.HandleGetReactions).Methods(http.MethodGet)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return router
}
