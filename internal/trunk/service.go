package trunk

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dialout-service/internal/platform"
)

var ErrTrunkNotFound = errors.New("trunk not found")

// Service wraps outbound trunk administration and configuration
// diagnostics. Nothing here dials; every operation is safe to run against
// a live trunk.
type Service struct {
	trunks  platform.TrunkService
	rooms   platform.RoomService
	trunkID string
}

// NewService builds the admin surface around the platform client.
// trunkID is the trunk the dialer is configured to use; diagnostics verify
// it actually exists upstream.
func NewService(trunks platform.TrunkService, rooms platform.RoomService, trunkID string) *Service {
	return &Service{trunks: trunks, rooms: rooms, trunkID: trunkID}
}

func (s *Service) List(ctx context.Context) ([]platform.TrunkInfo, error) {
	return s.trunks.ListOutboundTrunks(ctx)
}

// UpdateRequest carries the mutable trunk fields. Nil/absent fields keep
// their current value; Numbers replaces the whole list when present.
type UpdateRequest struct {
	Name         *string  `json:"name"`
	Address      *string  `json:"address"`
	Numbers      []string `json:"numbers"`
	Transport    *string  `json:"transport"`
	AuthUsername *string  `json:"auth_username"`
}

// Update patches one outbound trunk. The platform replaces trunk config
// wholesale, so the current state is fetched first and the request merged
// onto it.
func (s *Service) Update(ctx context.Context, trunkID string, req UpdateRequest) (platform.TrunkInfo, error) {
	cur, err := s.find(ctx, trunkID)
	if err != nil {
		return platform.TrunkInfo{}, err
	}

	if req.Name != nil {
		cur.Name = *req.Name
	}
	if req.Address != nil {
		cur.Address = *req.Address
	}
	if req.Numbers != nil {
		cur.Numbers = req.Numbers
	}
	if req.Transport != nil {
		cur.Transport = *req.Transport
	}
	if req.AuthUsername != nil {
		cur.AuthUsername = *req.AuthUsername
	}

	return s.trunks.UpdateOutboundTrunk(ctx, cur)
}

func (s *Service) find(ctx context.Context, trunkID string) (platform.TrunkInfo, error) {
	trunks, err := s.trunks.ListOutboundTrunks(ctx)
	if err != nil {
		return platform.TrunkInfo{}, err
	}
	for _, t := range trunks {
		if t.TrunkID == trunkID {
			return t, nil
		}
	}
	return platform.TrunkInfo{}, fmt.Errorf("%w: %s", ErrTrunkNotFound, trunkID)
}

// Check is one diagnostic probe outcome.
type Check struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// Report is the full diagnostics run. Healthy is the conjunction of all
// checks; individual failures stay visible for operators.
type Report struct {
	Healthy bool    `json:"healthy"`
	Checks  []Check `json:"checks"`
}

// Diagnose probes the platform connection and the configured trunk. It
// returns a report rather than an error: partial findings are the point,
// a broken platform connection is itself a finding.
func (s *Service) Diagnose(ctx context.Context) Report {
	var rep Report
	add := func(name string, ok bool, detail string) {
		rep.Checks = append(rep.Checks, Check{Name: name, OK: ok, Detail: detail})
	}

	if s.trunkID == "" {
		add("trunk_configured", false, "no outbound trunk id configured")
	} else {
		add("trunk_configured", true, s.trunkID)
	}

	rooms, err := s.rooms.ListRooms(ctx, nil)
	if err != nil {
		add("platform_connectivity", false, err.Error())
	} else {
		add("platform_connectivity", true, fmt.Sprintf("%d active rooms", len(rooms)))
	}

	trunks, err := s.trunks.ListOutboundTrunks(ctx)
	switch {
	case err != nil:
		add("trunk_exists", false, "could not list trunks: "+err.Error())
	default:
		var configured *platform.TrunkInfo
		for i := range trunks {
			if trunks[i].TrunkID == s.trunkID {
				configured = &trunks[i]
				break
			}
		}
		if configured == nil {
			ids := make([]string, 0, len(trunks))
			for _, t := range trunks {
				ids = append(ids, t.TrunkID)
			}
			add("trunk_exists", false, fmt.Sprintf(
				"configured trunk %s not found; available: %s",
				s.trunkID, strings.Join(ids, ", ")))
		} else {
			add("trunk_exists", true, fmt.Sprintf("%s (%s)", configured.TrunkID, configured.Name))
			if len(configured.Numbers) == 0 {
				add("trunk_numbers", false, "trunk has no outbound caller numbers configured")
			} else {
				add("trunk_numbers", true, strings.Join(configured.Numbers, ", "))
			}
		}
	}

	rep.Healthy = true
	for _, c := range rep.Checks {
		if !c.OK {
			rep.Healthy = false
			break
		}
	}
	return rep
}
