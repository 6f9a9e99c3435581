package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/stagehunt/internal/hunt"
)

func SendJSON(w http.ResponseWriter, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Add("Content-Type", "application/json")
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, log logrus.FieldLogger, v any) {
	if _, err := SendJSON(w, v); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.WithField("response", v).Error("unable to send response: ", err)
	}
}

func sendJSONStatus(w http.ResponseWriter, log logrus.FieldLogger, status int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.WithField("response", v).Error("unable to send response: ", err)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, hunt.ErrUnknownStage), errors.Is(err, hunt.ErrUnknownPlay):
		return http.StatusNotFound
	case errors.Is(err, hunt.ErrStageLocked):
		return http.StatusForbidden
	case errors.Is(err, hunt.ErrGameOver), errors.Is(err, hunt.ErrAlreadyConnected):
		return http.StatusConflict
	case errors.Is(err, hunt.ErrUnknownCommand), errors.Is(err, hunt.ErrBadArguments):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func sendError(w http.ResponseWriter, log logrus.FieldLogger, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.Error(err)
	}
	sendJSONStatus(w, log, status, wrapError(err))
}
