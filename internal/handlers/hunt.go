package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/stagehunt/internal/hunt"
)

// Progress is what the progress endpoints need from the tracker.
type Progress interface {
	Completed() ([]int, error)
	Reset() error
}

type HuntHandler struct {
	log      logrus.FieldLogger
	host     *hunt.Host
	progress Progress
	upgrader websocket.Upgrader
}

func NewHuntHandler(
	log logrus.FieldLogger,
	host *hunt.Host,
	progress Progress,
	upgrader websocket.Upgrader,
) *HuntHandler {
	return &HuntHandler{
		log:      log,
		host:     host,
		progress: progress,
		upgrader: upgrader,
	}
}

func (h HuntHandler) Stages(w http.ResponseWriter, r *http.Request) {
	stages, err := h.host.Stages()
	if err != nil {
		sendError(w, h.log, http.StatusInternalServerError, err)
		return
	}
	sendJSONOrLog(w, h.log, map[string]any{
		"title":  h.host.Hunt().Title,
		"stages": stages,
	})
}

func (h HuntHandler) Play(w http.ResponseWriter, r *http.Request) {
	p, err := h.host.Start(r.PathValue("key"))
	if err != nil {
		sendError(w, h.log, statusFor(err), err)
		return
	}
	sendJSONStatus(w, h.log, http.StatusCreated, newUpdate(p, nil, true))
}

func (h HuntHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseFetchDTO(r.URL.Query())
	if err != nil {
		sendError(w, h.log, http.StatusBadRequest, err)
		return
	}
	p, err := h.host.Play(r.PathValue("id"))
	if err != nil {
		sendError(w, h.log, statusFor(err), err)
		return
	}
	sendJSONOrLog(w, h.log, newUpdate(p, nil, !dto.Keep))
}

func (h HuntHandler) Command(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		sendError(w, h.log, http.StatusBadRequest, err)
		return
	}
	dto, err := ParseCommandDTO(r.Form)
	if err != nil {
		sendError(w, h.log, http.StatusBadRequest, err)
		return
	}
	p, err := h.host.Play(r.PathValue("id"))
	if err != nil {
		sendError(w, h.log, statusFor(err), err)
		return
	}

	replies, err := p.Run(dto.Cmd)
	update := newUpdate(p, replies, true)
	status := http.StatusOK
	if err != nil {
		// anything the play rejects is the client's fault
		status = statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		update.Error = err.Error()
	}
	sendJSONStatus(w, h.log, status, update)
}

func (h HuntHandler) Progress(w http.ResponseWriter, r *http.Request) {
	done, err := h.progress.Completed()
	if err != nil {
		sendError(w, h.log, http.StatusInternalServerError, err)
		return
	}
	if done == nil {
		done = []int{}
	}
	sendJSONOrLog(w, h.log, ProgressDTO{CompletedStages: done})
}

func (h HuntHandler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	if err := h.progress.Reset(); err != nil {
		sendError(w, h.log, http.StatusInternalServerError, err)
		return
	}
	h.host.Discard()
	h.log.Info("progress reset")
	sendJSONOrLog(w, h.log, ProgressDTO{CompletedStages: []int{}})
}

// Register mounts every endpoint on mux.
func (h HuntHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /stages", h.Stages)
	mux.HandleFunc("POST /stages/{key}/play", h.Play)
	mux.HandleFunc("GET /sessions/{id}", h.Fetch)
	mux.HandleFunc("POST /sessions/{id}/command", h.Command)
	mux.HandleFunc("/sessions/{id}/connect", h.Connect)
	mux.HandleFunc("GET /progress", h.Progress)
	mux.HandleFunc("POST /progress/reset", h.ResetProgress)
}
