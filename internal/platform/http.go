package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"dialout-service/internal/config"
)

// Client talks to the session platform's Twirp-style JSON API.
// It implements RoomService, SIPService and TrunkService.
//
// Every request is authenticated with a freshly minted access token; the
// upstream error text is preserved verbatim so operators can diagnose
// trunk and account problems without platform access.
type Client struct {
	baseURL    string
	tokens     *TokenSource
	httpClient *http.Client
	log        *slog.Logger
}

const (
	roomServicePath = "/twirp/livekit.RoomService/"
	sipServicePath  = "/twirp/livekit.SIP/"
)

func NewClient(cfg config.PlatformConfig, log *slog.Logger) (*Client, error) {
	tokens, err := NewTokenSource(cfg.APIKey, cfg.APISecret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	base, err := normalizeURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL:    base,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}, nil
}

// normalizeURL maps the platform's websocket URL form onto its HTTP API.
func normalizeURL(raw string) (string, error) {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	switch {
	case raw == "":
		return "", errors.New("platform: url is required")
	case strings.HasPrefix(raw, "ws://"):
		return "http://" + strings.TrimPrefix(raw, "ws://"), nil
	case strings.HasPrefix(raw, "wss://"):
		return "https://" + strings.TrimPrefix(raw, "wss://"), nil
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return raw, nil
	default:
		return "", fmt.Errorf("platform: unsupported url scheme in %q", raw)
	}
}

// --- RoomService ---

type createRoomRequest struct {
	Name string `json:"name"`
}

type roomWire struct {
	Sid          string      `json:"sid"`
	Name         string      `json:"name"`
	CreationTime json.Number `json:"creation_time"`
}

func (w roomWire) toInfo() RoomInfo {
	info := RoomInfo{SID: w.Sid, Name: w.Name}
	if secs, err := w.CreationTime.Int64(); err == nil && secs > 0 {
		info.CreatedAt = time.Unix(secs, 0).UTC()
	}
	return info
}

func (c *Client) CreateRoom(ctx context.Context, name string) (RoomInfo, error) {
	var out roomWire
	err := c.call(ctx, roomServicePath+"CreateRoom", createRoomRequest{Name: name}, &out)
	if err == nil {
		return out.toInfo(), nil
	}

	var aerr *apiError
	if errors.As(err, &aerr) && aerr.Code == "already_exists" {
		// Surface the existing room's identifiers so the caller can decide
		// whether reuse is acceptable.
		rooms, lerr := c.ListRooms(ctx, []string{name})
		if lerr == nil && len(rooms) > 0 {
			return rooms[0], fmt.Errorf("%w: %s", ErrRoomExists, name)
		}
		return RoomInfo{Name: name}, fmt.Errorf("%w: %s", ErrRoomExists, name)
	}
	return RoomInfo{}, err
}

type listRoomsRequest struct {
	Names []string `json:"names,omitempty"`
}

type listRoomsResponse struct {
	Rooms []roomWire `json:"rooms"`
}

func (c *Client) ListRooms(ctx context.Context, names []string) ([]RoomInfo, error) {
	var out listRoomsResponse
	if err := c.call(ctx, roomServicePath+"ListRooms", listRoomsRequest{Names: names}, &out); err != nil {
		return nil, err
	}
	rooms := make([]RoomInfo, 0, len(out.Rooms))
	for _, r := range out.Rooms {
		rooms = append(rooms, r.toInfo())
	}
	return rooms, nil
}

// --- SIPService ---

func (c *Client) CreateSIPParticipant(ctx context.Context, req SIPParticipantRequest) (SIPParticipantInfo, error) {
	var out SIPParticipantInfo
	if err := c.call(ctx, sipServicePath+"CreateSIPParticipant", req, &out); err != nil {
		return SIPParticipantInfo{}, err
	}
	return out, nil
}

// --- TrunkService ---

type listOutboundTrunksResponse struct {
	Items []TrunkInfo `json:"items"`
}

func (c *Client) ListOutboundTrunks(ctx context.Context) ([]TrunkInfo, error) {
	var out listOutboundTrunksResponse
	if err := c.call(ctx, sipServicePath+"ListSIPOutboundTrunk", struct{}{}, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

type updateOutboundTrunkRequest struct {
	TrunkID string    `json:"sip_trunk_id"`
	Replace TrunkInfo `json:"replace"`
}

func (c *Client) UpdateOutboundTrunk(ctx context.Context, trunk TrunkInfo) (TrunkInfo, error) {
	if trunk.TrunkID == "" {
		return TrunkInfo{}, errors.New("platform: trunk id is required")
	}
	var out TrunkInfo
	err := c.call(ctx, sipServicePath+"UpdateSIPOutboundTrunk", updateOutboundTrunkRequest{
		TrunkID: trunk.TrunkID,
		Replace: trunk,
	}, &out)
	if err != nil {
		return TrunkInfo{}, err
	}
	return out, nil
}

// --- transport plumbing ---

// apiError is the platform's structured error body.
type apiError struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`

	httpStatus int
}

func (e *apiError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("platform error (%s): %s", e.Code, e.Msg)
	}
	return fmt.Sprintf("platform error (http %d): %s", e.httpStatus, e.Msg)
}

func (c *Client) call(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("platform: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("platform: build request: %w", err)
	}
	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("platform: mint token: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("platform: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("platform: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		aerr := &apiError{httpStatus: resp.StatusCode}
		if jerr := json.Unmarshal(respBody, aerr); jerr != nil || aerr.Msg == "" {
			aerr.Msg = strings.TrimSpace(string(respBody))
		}
		c.log.Warn("platform call failed", "path", path, "status", resp.StatusCode, "code", aerr.Code)
		return aerr
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("platform: decode response: %w", err)
		}
	}
	return nil
}
