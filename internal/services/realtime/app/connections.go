package server

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/louisbranch/clubhouse/internal/services/realtime/wire"
)

// peerQueueSize bounds frames buffered for one socket. A full queue drops
// the frame for that socket only.
const peerQueueSize = 64

var (
	errPeerClosed       = errors.New("connection closed")
	errPeerBackpressure = errors.New("connection send queue is full")
	errPeerUnknown      = errors.New("connection not found")
)

// wsPeer owns the outbound queue of one socket. A single writer goroutine
// drains it so fan-out never blocks on a slow client.
type wsPeer struct {
	send      chan wire.Frame
	done      chan struct{}
	closeOnce sync.Once
}

func newWSPeer() *wsPeer {
	return &wsPeer{
		send: make(chan wire.Frame, peerQueueSize),
		done: make(chan struct{}),
	}
}

// enqueue never blocks. send is never closed; done signals shutdown.
func (p *wsPeer) enqueue(frame wire.Frame) error {
	select {
	case <-p.done:
		return errPeerClosed
	default:
	}
	select {
	case p.send <- frame:
		return nil
	default:
		return errPeerBackpressure
	}
}

func (p *wsPeer) close() {
	p.closeOnce.Do(func() { close(p.done) })
}

// writeLoop writes queued frames until the peer closes, then flushes what
// is already queued. A write error closes the peer.
func (p *wsPeer) writeLoop(write func(wire.Frame) error) {
	for {
		select {
		case frame := <-p.send:
			if err := write(frame); err != nil {
				p.close()
				return
			}
		case <-p.done:
			for {
				select {
				case frame := <-p.send:
					if err := write(frame); err != nil {
						return
					}
				default:
					return
				}
			}
		}
	}
}

// connectionTable maps connection ids to live sockets and is the Emitter
// the realtime core pushes through.
type connectionTable struct {
	mu    sync.RWMutex
	peers map[string]*wsPeer
}

var _ wire.Emitter = (*connectionTable)(nil)

func newConnectionTable() *connectionTable {
	return &connectionTable{peers: make(map[string]*wsPeer)}
}

func (t *connectionTable) add(connectionID string, peer *wsPeer) {
	t.mu.Lock()
	t.peers[connectionID] = peer
	t.mu.Unlock()
}

func (t *connectionTable) remove(connectionID string) {
	t.mu.Lock()
	delete(t.peers, connectionID)
	t.mu.Unlock()
}

func (t *connectionTable) get(connectionID string) *wsPeer {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.peers[connectionID]
}

func (t *connectionTable) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.peers)
}

// Emit encodes event and queues it on the connection.
func (t *connectionTable) Emit(ctx context.Context, connectionID string, event wire.Outbound) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	peer := t.get(strings.TrimSpace(connectionID))
	if peer == nil {
		return errPeerUnknown
	}
	frame, err := wire.EncodeOutbound(event)
	if err != nil {
		return err
	}
	return peer.enqueue(frame)
}
