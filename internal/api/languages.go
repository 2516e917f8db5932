package api

import (
	"net/http"

	"vaachak/pkg/model"
)

func handleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"default":   model.DefaultLanguage,
		"languages": model.Languages(),
	})
}
