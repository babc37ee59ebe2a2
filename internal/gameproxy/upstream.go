package gameproxy

import (
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/openworld-ambassador/ambassador/internal/gamepacket"
)

// WebsocketUpstream adapts a *websocket.Conn to UpstreamConn: one
// envelope per binary message in both directions.
type WebsocketUpstream struct {
	conn *websocket.Conn
}

// DialUpstream opens one websocket connection to url for a single
// client session, matching the "one websocket per client session"
// requirement of spec.md §6.
func DialUpstream(url string) (*WebsocketUpstream, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("gameproxy: dialing upstream websocket: %w", err)
	}
	return &WebsocketUpstream{conn: conn}, nil
}

// ReadPacket reads the next binary message and decodes it as one
// envelope.
func (u *WebsocketUpstream) ReadPacket() (gamepacket.Packet, error) {
	msgType, data, err := u.conn.ReadMessage()
	if err != nil {
		return gamepacket.Packet{}, err
	}
	if msgType != websocket.BinaryMessage {
		return gamepacket.Packet{}, fmt.Errorf("gameproxy: unexpected websocket message type %d", msgType)
	}
	return gamepacket.Decode(data)
}

// WritePacket encodes pkt as one envelope and writes it as a single
// binary message.
func (u *WebsocketUpstream) WritePacket(pkt gamepacket.Packet) error {
	return u.conn.WriteMessage(websocket.BinaryMessage, gamepacket.Encode(pkt))
}

// Close closes the underlying websocket connection.
func (u *WebsocketUpstream) Close() error {
	return u.conn.Close()
}
