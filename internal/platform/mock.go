package platform

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Mock is an in-memory platform used by tests. It records every request and
// counts calls per method so ordering invariants ("no dial after a failed
// room creation") can be asserted.
type Mock struct {
	mu sync.Mutex

	// Error overrides. When set, the corresponding method fails.
	CreateRoomErr        error
	CreateParticipantErr error
	ListRoomsErr         error
	ListTrunksErr        error
	UpdateTrunkErr       error

	// Canned data.
	Trunks []TrunkInfo

	rooms        map[string]RoomInfo
	participants []SIPParticipantRequest
	calls        map[string]int

	roomSeq int
	sipSeq  int
}

func NewMock() *Mock {
	return &Mock{
		rooms: make(map[string]RoomInfo),
		calls: make(map[string]int),
	}
}

// Calls returns how many times the named method was invoked.
func (m *Mock) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// Participants returns all recorded dial requests.
func (m *Mock) Participants() []SIPParticipantRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SIPParticipantRequest, len(m.participants))
	copy(out, m.participants)
	return out
}

// Rooms returns all rooms created so far.
func (m *Mock) Rooms() []RoomInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RoomInfo, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r)
	}
	return out
}

func (m *Mock) CreateRoom(ctx context.Context, name string) (RoomInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["CreateRoom"]++

	if m.CreateRoomErr != nil {
		return RoomInfo{}, m.CreateRoomErr
	}
	if existing, ok := m.rooms[name]; ok {
		return existing, fmt.Errorf("%w: %s", ErrRoomExists, name)
	}
	m.roomSeq++
	room := RoomInfo{
		SID:       fmt.Sprintf("RM_mock%04d", m.roomSeq),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	m.rooms[name] = room
	return room, nil
}

func (m *Mock) ListRooms(ctx context.Context, names []string) ([]RoomInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["ListRooms"]++

	if m.ListRoomsErr != nil {
		return nil, m.ListRoomsErr
	}
	var out []RoomInfo
	for _, r := range m.rooms {
		if len(names) == 0 {
			out = append(out, r)
			continue
		}
		for _, n := range names {
			if r.Name == n {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (m *Mock) CreateSIPParticipant(ctx context.Context, req SIPParticipantRequest) (SIPParticipantInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["CreateSIPParticipant"]++

	if m.CreateParticipantErr != nil {
		return SIPParticipantInfo{}, m.CreateParticipantErr
	}
	m.sipSeq++
	m.participants = append(m.participants, req)
	return SIPParticipantInfo{
		ParticipantID:       fmt.Sprintf("PA_mock%04d", m.sipSeq),
		ParticipantIdentity: req.ParticipantIdentity,
		RoomName:            req.RoomName,
		SIPCallID:           fmt.Sprintf("SCL_mock%04d", m.sipSeq),
	}, nil
}

func (m *Mock) ListOutboundTrunks(ctx context.Context) ([]TrunkInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["ListOutboundTrunks"]++

	if m.ListTrunksErr != nil {
		return nil, m.ListTrunksErr
	}
	out := make([]TrunkInfo, len(m.Trunks))
	copy(out, m.Trunks)
	return out, nil
}

func (m *Mock) UpdateOutboundTrunk(ctx context.Context, trunk TrunkInfo) (TrunkInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["UpdateOutboundTrunk"]++

	if m.UpdateTrunkErr != nil {
		return TrunkInfo{}, m.UpdateTrunkErr
	}
	for i, t := range m.Trunks {
		if t.TrunkID == trunk.TrunkID {
			m.Trunks[i] = trunk
			return trunk, nil
		}
	}
	return TrunkInfo{}, fmt.Errorf("trunk not found: %s", trunk.TrunkID)
}
