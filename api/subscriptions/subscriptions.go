// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/block"
	"github.com/meterio/meter-auction/chain"
	"github.com/meterio/meter-auction/meter"
	"github.com/pkg/errors"
)

const (
	pingPeriod = 30 * time.Second
	writeWait  = 10 * time.Second
)

type Subscriptions struct {
	backtraceLimit uint32
	chain          *chain.Chain
	upgrader       *websocket.Upgrader
	done           chan struct{}
	wg             sync.WaitGroup
	logger         *slog.Logger
}

type msgReader interface {
	Read() (msgs []interface{}, hasMore bool, err error)
}

func New(chain *chain.Chain, allowedOrigins []string, backtraceLimit uint32) *Subscriptions {
	return &Subscriptions{
		backtraceLimit: backtraceLimit,
		chain:          chain,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done:   make(chan struct{}),
		logger: slog.Default().With("pkg", "subscriptions"),
	}
}

func (s *Subscriptions) newBlockReader(req *http.Request) (msgReader, error) {
	position, err := s.parsePosition(req.URL.Query().Get("pos"))
	if err != nil {
		return nil, err
	}
	return newBlockReader(s.chain, position), nil
}

func (s *Subscriptions) newBeatReader(req *http.Request) (msgReader, error) {
	position, err := s.parsePosition(req.URL.Query().Get("pos"))
	if err != nil {
		return nil, err
	}
	return newBeatReader(s.chain, position), nil
}

func (s *Subscriptions) newEventReader(req *http.Request) (msgReader, error) {
	position, err := s.parsePosition(req.URL.Query().Get("pos"))
	if err != nil {
		return nil, err
	}
	filter, err := parseEventFilter(req)
	if err != nil {
		return nil, err
	}
	return newEventReader(s.chain, position, filter), nil
}

func (s *Subscriptions) handleSubject(w http.ResponseWriter, req *http.Request) error {
	s.wg.Add(1)
	defer s.wg.Done()

	var (
		reader msgReader
		err    error
	)
	switch mux.Vars(req)["subject"] {
	case "block":
		reader, err = s.newBlockReader(req)
	case "beat":
		reader, err = s.newBeatReader(req)
	case "event":
		reader, err = s.newEventReader(req)
	default:
		return utils.HTTPError(errors.New("not found"), http.StatusNotFound)
	}
	if err != nil {
		return utils.BadRequest(err)
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		s.logger.Debug("upgrade to websocket", "err", err)
		return nil
	}
	defer conn.Close()

	// the reader side only detects the peer going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := s.pipe(conn, reader, closed); err != nil {
		s.logger.Debug("subscription closed", "err", err)
	}
	conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	return nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, reader msgReader, closed chan struct{}) error {
	ticker := s.chain.NewTicker()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	for {
		msgs, hasMore, err := reader.Read()
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}
		if hasMore {
			select {
			case <-s.done:
				return nil
			case <-closed:
				return nil
			default:
			}
			continue
		}
		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case <-ticker.C():
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

func (s *Subscriptions) parsePosition(posStr string) (meter.Bytes32, error) {
	bestID := s.chain.BestBlock().Header().ID()
	if posStr == "" {
		return bestID, nil
	}
	pos, err := meter.ParseBytes32(posStr)
	if err != nil {
		return meter.Bytes32{}, errors.WithMessage(err, "pos")
	}
	if block.Number(pos) > block.Number(bestID) {
		return meter.Bytes32{}, errors.New("pos: beyond best block")
	}
	if block.Number(bestID)-block.Number(pos) > s.backtraceLimit {
		return meter.Bytes32{}, errors.New("pos: too old")
	}
	return pos, nil
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{subject}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(s.handleSubject))
}

// Close closes all subscriptions and waits for their handlers to return.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}
