package domain

import (
	"context"
	"time"
)

// LiveRoom is a live communication session identified by name, as reported
// by the room provisioning collaborator.
type LiveRoom struct {
	SID             string    `json:"sid"`
	Name            string    `json:"name"`
	Metadata        string    `json:"metadata"`
	MaxParticipants uint32    `json:"max_participants"`
	CreatedAt       time.Time `json:"created_at"`
}

// RoomService is the external room provisioning collaborator. Creation and
// deletion are treated as best-effort by the lifecycle services: a failure
// here never rolls back a committed status transition.
type RoomService interface {
	CreateRoom(ctx context.Context, name, metadata string) (*LiveRoom, error)
	DeleteRoom(ctx context.Context, name string) error
	ListRooms(ctx context.Context) ([]*LiveRoom, error)
	// CreateAccessToken mints a join token for the given identity and room.
	CreateAccessToken(identity, roomName string, ttl time.Duration) (string, error)
}
