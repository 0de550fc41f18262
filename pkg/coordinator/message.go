package coordinator

import (
	"fmt"

	"github.com/shuliakovsky/peersync/pkg/wire"
)

// ControlMessage is the sum type of coordinator-control sub-messages
// (spec.md §6.2). Parsing peeks the sub-tag and dispatches to a total
// match instead of an if-else tag ladder (spec.md §9 redesign item).
type ControlMessage interface {
	isControlMessage()
}

// Negotiate is sent client→server to offer a connection and declare the
// sender's current client count.
type Negotiate struct {
	Name       string
	Port       uint16
	NumClients int32
}

func (Negotiate) isControlMessage() {}

// ConfirmDecision is sent server→client with the election outcome.
type ConfirmDecision struct {
	Accepted bool
}

func (ConfirmDecision) isControlMessage() {}

// ConfirmAck is sent client→server with no payload, after the client has
// been confirmed, as the first step of confirmation finalization.
type ConfirmAck struct{}

func (ConfirmAck) isControlMessage() {}

// Switch is sent server→client to redirect the client to a new
// coordinator.
type Switch struct {
	Host string
	Port uint16
}

func (Switch) isControlMessage() {}

// PingRequest is sent server→client with no payload, a liveness probe.
type PingRequest struct{}

func (PingRequest) isControlMessage() {}

// PingResponse is sent client→server, identifying the responder.
type PingResponse struct {
	Name string
	Port uint16
}

func (PingResponse) isControlMessage() {}

// PeerEntry is one row of a Peers gossip message.
type PeerEntry struct {
	Name string
	Port uint16
	Age  uint32
}

// Peers is sent server→client with the coordinator's view of the group.
type Peers struct {
	Entries []PeerEntry
}

func (Peers) isControlMessage() {}

// EncodeNegotiate frames a Negotiate message.
func EncodeNegotiate(name string, port uint16, numClients int32) []byte {
	c := wire.NewChunk(wire.FamilyControl, wire.SubNegotiate, name, port, numClients)
	return c.Bytes()
}

// EncodeConfirmDecision frames a server→client election decision.
func EncodeConfirmDecision(accepted bool) []byte {
	var v int32
	if accepted {
		v = 1
	}
	c := wire.NewChunk(wire.FamilyControl, wire.SubConfirm, v)
	return c.Bytes()
}

// EncodeConfirmAck frames the no-payload client→server acknowledgement.
func EncodeConfirmAck() []byte {
	c := wire.NewChunk(wire.FamilyControl, wire.SubConfirm)
	return c.Bytes()
}

// EncodeSwitch frames a redirection instruction.
func EncodeSwitch(host string, port uint16) []byte {
	c := wire.NewChunk(wire.FamilyControl, wire.SubSwitch, host, port)
	return c.Bytes()
}

// EncodePingRequest frames the no-payload server→client liveness probe.
func EncodePingRequest() []byte {
	c := wire.NewChunk(wire.FamilyControl, wire.SubPing)
	return c.Bytes()
}

// EncodePingResponse frames the client→server liveness response.
func EncodePingResponse(name string, port uint16) []byte {
	c := wire.NewChunk(wire.FamilyControl, wire.SubPing, name, port)
	return c.Bytes()
}

// EncodePeers frames a gossip peer-list broadcast.
func EncodePeers(entries []PeerEntry) []byte {
	c := wire.NewChunk(wire.FamilyControl, wire.SubPeers, int32(len(entries)))
	for _, e := range entries {
		c.Add(e.Name, e.Port, e.Age)
	}
	return c.Bytes()
}

// DecodeControl parses a frame whose family tag has already been consumed
// by the caller (it is known to be wire.FamilyControl) and returns the
// concrete sub-message.
func DecodeControl(s *wire.Stream) (ControlMessage, error) {
	switch {
	case s.PeekTag(wire.SubNegotiate):
		name, err := s.GetString()
		if err != nil {
			return nil, err
		}
		port, err := s.GetUint16()
		if err != nil {
			return nil, err
		}
		n, err := s.GetInt32()
		if err != nil {
			return nil, err
		}
		return Negotiate{Name: name, Port: port, NumClients: n}, nil

	case s.PeekTag(wire.SubConfirm):
		if s.Remaining() == 0 {
			return ConfirmAck{}, nil
		}
		v, err := s.GetInt32()
		if err != nil {
			return nil, err
		}
		return ConfirmDecision{Accepted: v != 0}, nil

	case s.PeekTag(wire.SubSwitch):
		host, err := s.GetString()
		if err != nil {
			return nil, err
		}
		port, err := s.GetUint16()
		if err != nil {
			return nil, err
		}
		return Switch{Host: host, Port: port}, nil

	case s.PeekTag(wire.SubPing):
		if s.Remaining() == 0 {
			return PingRequest{}, nil
		}
		name, err := s.GetString()
		if err != nil {
			return nil, err
		}
		port, err := s.GetUint16()
		if err != nil {
			return nil, err
		}
		return PingResponse{Name: name, Port: port}, nil

	case s.PeekTag(wire.SubPeers):
		n, err := s.GetInt32()
		if err != nil {
			return nil, err
		}
		entries := make([]PeerEntry, 0, n)
		for i := int32(0); i < n; i++ {
			name, err := s.GetString()
			if err != nil {
				return nil, err
			}
			port, err := s.GetUint16()
			if err != nil {
				return nil, err
			}
			age, err := s.GetUint32()
			if err != nil {
				return nil, err
			}
			entries = append(entries, PeerEntry{Name: name, Port: port, Age: age})
		}
		return Peers{Entries: entries}, nil

	default:
		return nil, fmt.Errorf("coordinator: %w", wire.ErrUnknownTag)
	}
}
