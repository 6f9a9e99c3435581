package handlers

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/stagehunt/internal/hunt"
)

// Connect upgrades to a websocket that takes protocol lines as text
// messages. Every batch is answered with an update, and messages the
// engine queues on its own (delayed settles, completion hints) are pushed
// as they arrive. A play takes one connection at a time, and the socket is
// closed once the play is discarded.
func (h HuntHandler) Connect(w http.ResponseWriter, r *http.Request) {
	p, err := h.host.Play(r.PathValue("id"))
	if err != nil {
		sendError(w, h.log, statusFor(err), err)
		return
	}
	release, err := p.Attach()
	if err != nil {
		sendError(w, h.log, statusFor(err), err)
		return
	}
	defer release()
	c, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("upgrade: ", err)
		return
	}
	defer c.Close()

	log := h.log.WithField("play", p.ID)
	var mu sync.Mutex
	send := func(u UpdateDTO) bool {
		mu.Lock()
		defer mu.Unlock()
		if err := c.WriteJSON(u); err != nil {
			log.Warn("write: ", err)
			return false
		}
		return true
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case <-p.Inbox().Done():
				mu.Lock()
				msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "session replaced")
				c.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
				mu.Unlock()
				c.Close()
				return
			case <-p.Inbox().Updates():
				if !send(newUpdate(p, nil, true)) {
					return
				}
			}
		}
	}()

	if !send(newUpdate(p, nil, true)) {
		return
	}
	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("read: ", err)
			}
			break
		}
		if mt != websocket.TextMessage {
			break
		}
		text := strings.TrimSpace(string(message))
		log.Debug("\t> ", text)

		replies, err := p.Run(text)
		update := newUpdate(p, replies, true)
		if err != nil {
			update.Error = err.Error()
			log.WithFields(logrus.Fields{"command": text}).Debug("command: ", err)
		}
		if !send(update) || errors.Is(err, hunt.ErrUnknownPlay) {
			break
		}
	}
}
