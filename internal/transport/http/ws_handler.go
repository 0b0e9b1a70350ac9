package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"quizwiz/internal/app"
	"quizwiz/internal/domain"
	"quizwiz/internal/i18n"
)

type WSHandler struct {
	sessions app.SessionRepository
	upgrader websocket.Upgrader
}

func NewWSHandler(sessions app.SessionRepository) *WSHandler {
	return &WSHandler{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	QuestionIndex int    `json:"questionIndex"`
	Answer        string `json:"answer"`
}

type navigatePayload struct {
	Delta int `json:"delta"`
}

type tickPayload struct {
	Remaining int    `json:"remaining"`
	Warning   bool   `json:"warning"`
	Message   string `json:"message,omitempty"`
}

type completedPayload struct {
	Forced  bool          `json:"forced"`
	Passed  bool          `json:"passed"`
	Result  domain.Result `json:"result"`
	Message string        `json:"message"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ServeWS upgrades the request and drives the player's quiz over the socket.
// The player is identified by the playerId query parameter; reconnecting with
// the same id resumes a running attempt.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		playerID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// requests outlive neither the socket nor the handler
	ctx, cancelCtx := context.WithCancel(r.Context())
	defer cancelCtx()

	svc := h.sessions.GetOrCreate(playerID)
	defer h.sessions.DeleteIfIdle(playerID)
	events, unsubscribe := svc.Subscribe()
	defer unsubscribe()

	slog.Info("player connected", "player", playerID, "attempt", svc.ID())

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	var producers sync.WaitGroup

	emit := func(typ string, payload any) {
		select {
		case send <- outboundMessage[any]{Type: typ, Payload: payload}:
		case <-closeSignals:
		}
	}
	emitError := func(err error) {
		code, msg := i18n.Error(ctx, err)
		emit("error", errorPayload{Code: code, Message: msg})
	}

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				slog.Warn("ws write error", "player", playerID, "error", err)
				// keep draining so producers never block on a dead socket
				for range send {
				}
				return
			}
		}
	}()

	producers.Add(1)
	go func() {
		defer producers.Done()
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				typ, payload := eventMessage(ctx, ev)
				emit(typ, payload)
			case <-closeSignals:
				return
			}
		}
	}()

	emit("question", svc.Current())

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			// fetching can take a while; keep reading so a reset can abandon it
			producers.Add(1)
			go func() {
				defer producers.Done()
				snap, err := svc.Start(ctx)
				if errors.Is(err, domain.ErrStaleResponse) {
					return
				}
				if err != nil {
					emitError(err)
					return
				}
				emit("question", snap)
			}()
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emit("error", badRequest(ctx))
				continue
			}
			if _, err := svc.SelectAnswer(payload.QuestionIndex, payload.Answer); err != nil {
				emitError(err)
				continue
			}
			emit("answer", payload)
		case "navigate":
			var payload navigatePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emit("error", badRequest(ctx))
				continue
			}
			emit("question", svc.Navigate(payload.Delta))
		case "submit":
			// the completed event reaches the client through the subscription
			if _, err := svc.Submit(ctx); err != nil {
				emitError(err)
			}
		case "reset":
			svc.Reset()
			emit("question", svc.Current())
		case "state":
			emit("question", svc.Current())
		default:
			emit("error", badRequest(ctx))
		}
	}

	close(closeSignals)
	cancelCtx()
	producers.Wait()
	close(send)
	<-writerDone
	slog.Info("player disconnected", "player", playerID)
}

func eventMessage(ctx context.Context, ev domain.Event) (string, any) {
	switch ev.Type {
	case domain.EventCompleted:
		p := completedPayload{Forced: ev.Forced, Message: i18n.T(ctx, "QuizCompleted")}
		if ev.Result != nil {
			p.Result = *ev.Result
			p.Passed = app.Passed(ev.Result.Score)
		}
		if ev.Forced {
			p.Message = i18n.T(ctx, "TimeUp")
		}
		return string(ev.Type), p
	default:
		p := tickPayload{Remaining: ev.Remaining, Warning: ev.Warning}
		if ev.Warning {
			p.Message = i18n.T(ctx, "TimeRunningOut")
		}
		return string(ev.Type), p
	}
}

func badRequest(ctx context.Context) errorPayload {
	return errorPayload{Code: "bad_request", Message: i18n.T(ctx, "ErrorBadRequest")}
}
