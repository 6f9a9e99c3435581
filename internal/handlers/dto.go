package handlers

import (
	"github.com/gorilla/schema"

	"github.com/vancomm/stagehunt/internal/hunt"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// CommandDTO carries one or more protocol lines separated by newlines.
type CommandDTO struct {
	Cmd string `schema:"cmd,required"`
}

type FetchDTO struct {
	// Keep leaves queued messages in the inbox.
	Keep bool `schema:"keep"`
}

func ParseCommandDTO(src map[string][]string) (CommandDTO, error) {
	var dto CommandDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

func ParseFetchDTO(src map[string][]string) (FetchDTO, error) {
	var dto FetchDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

// UpdateDTO is what every play endpoint and the websocket send back.
type UpdateDTO struct {
	Replies  []hunt.Reply   `json:"replies,omitempty"`
	State    hunt.State     `json:"state"`
	Messages []hunt.Message `json:"messages"`
	Error    string         `json:"error,omitempty"`
}

func newUpdate(p *hunt.Play, replies []hunt.Reply, drain bool) UpdateDTO {
	u := UpdateDTO{
		Replies:  replies,
		State:    p.State(),
		Messages: []hunt.Message{},
	}
	if drain {
		if msgs := p.Inbox().Drain(); msgs != nil {
			u.Messages = msgs
		}
	}
	return u
}

type ProgressDTO struct {
	CompletedStages []int `json:"completed_stages"`
}
