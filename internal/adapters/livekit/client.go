package livekit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"expomeet/internal/domain"
)

// Client calls the LiveKit server's Twirp RoomService endpoints and mints
// access tokens. Server API requests carry a short-lived admin token; room
// join tokens are issued per identity with a room-scoped grant.
type Client struct {
	host       string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
}

// NewClient returns a RoomService backed by a LiveKit server at host
// (e.g. "https://livekit.example.com").
func NewClient(host, apiKey, apiSecret string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		host:       host,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		httpClient: httpClient,
	}
}

type videoGrant struct {
	RoomCreate bool   `json:"roomCreate,omitempty"`
	RoomList   bool   `json:"roomList,omitempty"`
	RoomJoin   bool   `json:"roomJoin,omitempty"`
	Room       string `json:"room,omitempty"`
}

type accessClaims struct {
	jwt.RegisteredClaims
	Video videoGrant `json:"video"`
}

func (c *Client) signToken(identity string, grant videoGrant, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.apiKey,
			Subject:   identity,
			ID:        uuid.NewString(),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Video: grant,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(c.apiSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// CreateAccessToken mints a join token for the given identity and room.
func (c *Client) CreateAccessToken(identity, roomName string, ttl time.Duration) (string, error) {
	return c.signToken(identity, videoGrant{RoomJoin: true, Room: roomName}, ttl)
}

type roomPayload struct {
	SID             string `json:"sid"`
	Name            string `json:"name"`
	Metadata        string `json:"metadata"`
	MaxParticipants uint32 `json:"max_participants"`
	CreationTime    string `json:"creation_time"`
}

func (p roomPayload) toDomain() *domain.LiveRoom {
	room := &domain.LiveRoom{
		SID:             p.SID,
		Name:            p.Name,
		Metadata:        p.Metadata,
		MaxParticipants: p.MaxParticipants,
	}
	if secs, err := strconv.ParseInt(p.CreationTime, 10, 64); err == nil {
		room.CreatedAt = time.Unix(secs, 0)
	}
	return room
}

func (c *Client) twirp(ctx context.Context, method string, body, out interface{}) error {
	adminToken, err := c.signToken("", videoGrant{RoomCreate: true, RoomList: true}, time.Minute)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	url := fmt.Sprintf("%s/twirp/livekit.RoomService/%s", c.host, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call room service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("room service %s returned status %d: %s", method, resp.StatusCode, msg)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode room service response: %w", err)
		}
	}
	return nil
}

func (c *Client) CreateRoom(ctx context.Context, name, metadata string) (*domain.LiveRoom, error) {
	req := struct {
		Name     string `json:"name"`
		Metadata string `json:"metadata,omitempty"`
	}{Name: name, Metadata: metadata}
	var resp roomPayload
	if err := c.twirp(ctx, "CreateRoom", req, &resp); err != nil {
		return nil, err
	}
	return resp.toDomain(), nil
}

func (c *Client) DeleteRoom(ctx context.Context, name string) error {
	req := struct {
		Room string `json:"room"`
	}{Room: name}
	return c.twirp(ctx, "DeleteRoom", req, nil)
}

func (c *Client) ListRooms(ctx context.Context) ([]*domain.LiveRoom, error) {
	var resp struct {
		Rooms []roomPayload `json:"rooms"`
	}
	if err := c.twirp(ctx, "ListRooms", struct{}{}, &resp); err != nil {
		return nil, err
	}
	rooms := make([]*domain.LiveRoom, 0, len(resp.Rooms))
	for _, r := range resp.Rooms {
		rooms = append(rooms, r.toDomain())
	}
	return rooms, nil
}
