package httpapi

import (
	"net/http"
	"sync/atomic"

	"leadsnap-engine/internal/config"
	"leadsnap-engine/internal/secrets"
)

type SecretsHandler struct {
	CfgVal    *atomic.Value // stores config.Config
	Reload    func() error
	KeyStatus func() (bool, string)
}

type setOpenAIKeyReq struct {
	APIKey string `json:"api_key"`
}

func (h SecretsHandler) account() string {
	return h.CfgVal.Load().(config.Config).OpenAI.KeyringAccount
}

func (h SecretsHandler) SetOpenAIKey(w http.ResponseWriter, r *http.Request) {
	var req setOpenAIKeyReq
	if err := decodeBody(w, r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON: "+err.Error())
		return
	}
	if err := secrets.SetOpenAIKey(h.account(), req.APIKey); err != nil {
		WriteError(w, r, http.StatusBadRequest, "store_failed", "failed to store api key: "+err.Error())
		return
	}
	h.reload(w, r)
}

func (h SecretsHandler) DeleteOpenAIKey(w http.ResponseWriter, r *http.Request) {
	if err := secrets.DeleteOpenAIKey(h.account()); err != nil {
		WriteError(w, r, http.StatusBadRequest, "delete_failed", "failed to delete api key: "+err.Error())
		return
	}
	h.reload(w, r)
}

func (h SecretsHandler) Status(w http.ResponseWriter, r *http.Request) {
	configured, source := h.KeyStatus()
	WriteJSON(w, http.StatusOK, map[string]any{"configured": configured, "source": source})
}

func (h SecretsHandler) reload(w http.ResponseWriter, r *http.Request) {
	if h.Reload != nil {
		if err := h.Reload(); err != nil {
			WriteError(w, r, http.StatusInternalServerError, "reload_failed", err.Error())
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
