package ws

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Engine.IO v4 packet types, sent as the first character of every text frame.
const (
	eioOpen    = '0'
	eioClose   = '1'
	eioPing    = '2'
	eioPong    = '3'
	eioMessage = '4'
)

// Socket.IO v5 packet types, carried inside an Engine.IO message.
const (
	sioConnect      = 0
	sioDisconnect   = 1
	sioEvent        = 2
	sioAck          = 3
	sioConnectError = 4
)

const defaultNamespace = "/"

// openPayload is the JSON body of the Engine.IO open packet.
type openPayload struct {
	SID          string `json:"sid"`
	PingInterval int    `json:"pingInterval"` // ms
	PingTimeout  int    `json:"pingTimeout"`  // ms
	MaxPayload   int    `json:"maxPayload"`
}

// Packet is a decoded Socket.IO packet. ID is set for events that expect an
// ack and for acks themselves. Data is the raw JSON payload, usually an array.
type Packet struct {
	Type      int
	Namespace string
	ID        *int
	Data      json.RawMessage
}

// Encode renders p as an Engine.IO message frame, e.g. 42["event",1] or 431[true].
func (p Packet) Encode() []byte {
	var b strings.Builder
	b.WriteByte(eioMessage)
	b.WriteString(strconv.Itoa(p.Type))
	if p.Namespace != "" && p.Namespace != defaultNamespace {
		b.WriteString(p.Namespace)
		b.WriteByte(',')
	}
	if p.ID != nil {
		b.WriteString(strconv.Itoa(*p.ID))
	}
	b.Write(p.Data)
	return []byte(b.String())
}

// decodePacket parses the Socket.IO part of an Engine.IO message, i.e. the
// frame with its leading '4' already removed.
func decodePacket(s string) (Packet, error) {
	if s == "" {
		return Packet{}, fmt.Errorf("empty socket.io packet")
	}
	t := int(s[0] - '0')
	if t > 6 {
		return Packet{}, fmt.Errorf("invalid socket.io packet type %q", s[0])
	}
	p := Packet{Type: t, Namespace: defaultNamespace}
	rest := s[1:]

	if strings.HasPrefix(rest, "/") {
		i := strings.IndexByte(rest, ',')
		if i < 0 {
			p.Namespace, rest = rest, ""
		} else {
			p.Namespace, rest = rest[:i], rest[i+1:]
		}
	}

	n := 0
	for n < len(rest) && rest[n] >= '0' && rest[n] <= '9' {
		n++
	}
	if n > 0 {
		id, err := strconv.Atoi(rest[:n])
		if err != nil {
			return Packet{}, fmt.Errorf("invalid ack id: %w", err)
		}
		p.ID = &id
		rest = rest[n:]
	}

	if rest != "" {
		if !json.Valid([]byte(rest)) {
			return Packet{}, fmt.Errorf("invalid socket.io payload")
		}
		p.Data = json.RawMessage(rest)
	}
	return p, nil
}

// eventPacket builds an EVENT packet for name with args.
func eventPacket(id *int, name string, args ...any) (Packet, error) {
	data, err := json.Marshal(append([]any{name}, args...))
	if err != nil {
		return Packet{}, err
	}
	return Packet{Type: sioEvent, Namespace: defaultNamespace, ID: id, Data: data}, nil
}

// ackPacket builds an ACK packet answering id with args.
func ackPacket(id int, args ...any) (Packet, error) {
	if args == nil {
		args = []any{}
	}
	data, err := json.Marshal(args)
	if err != nil {
		return Packet{}, err
	}
	return Packet{Type: sioAck, Namespace: defaultNamespace, ID: &id, Data: data}, nil
}

// eventName splits an EVENT payload into its name and arguments.
func eventName(data json.RawMessage) (string, []json.RawMessage, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return "", nil, fmt.Errorf("event payload: %w", err)
	}
	if len(parts) == 0 {
		return "", nil, fmt.Errorf("event payload: missing name")
	}
	var name string
	if err := json.Unmarshal(parts[0], &name); err != nil {
		return "", nil, fmt.Errorf("event name: %w", err)
	}
	return name, parts[1:], nil
}
