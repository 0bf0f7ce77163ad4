package livekit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateRoom(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sid":"RM_abc","name":"slot-1","metadata":"","max_participants":0,"creation_time":"1748772000"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "api-key", "api-secret", srv.Client())
	room, err := client.CreateRoom(context.Background(), "slot-1", "")
	require.NoError(t, err)
	assert.Equal(t, "/twirp/livekit.RoomService/CreateRoom", gotPath)
	assert.Equal(t, "slot-1", gotBody["name"])
	assert.Equal(t, "RM_abc", room.SID)
	assert.Equal(t, "slot-1", room.Name)
	assert.Equal(t, time.Unix(1748772000, 0), room.CreatedAt)

	// The admin token must be a Bearer JWT signed with the api secret and
	// carry the roomCreate grant.
	require.True(t, strings.HasPrefix(gotAuth, "Bearer "))
	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(strings.TrimPrefix(gotAuth, "Bearer "), claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("api-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	assert.Equal(t, "api-key", claims.Issuer)
	assert.True(t, claims.Video.RoomCreate)
}

func TestClient_DeleteRoom(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "api-key", "api-secret", srv.Client())
	err := client.DeleteRoom(context.Background(), "slot-1")
	require.NoError(t, err)
	assert.Equal(t, "/twirp/livekit.RoomService/DeleteRoom", gotPath)
	assert.Equal(t, "slot-1", gotBody["room"])
}

func TestClient_ListRooms(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rooms":[{"sid":"RM_1","name":"a"},{"sid":"RM_2","name":"b"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "api-key", "api-secret", srv.Client())
	rooms, err := client.ListRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "a", rooms[0].Name)
	assert.Equal(t, "b", rooms[1].Name)
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"internal"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "api-key", "api-secret", srv.Client())
	_, err := client.CreateRoom(context.Background(), "slot-1", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestClient_CreateAccessToken(t *testing.T) {
	client := NewClient("https://livekit.example.com", "api-key", "api-secret", nil)

	token, err := client.CreateAccessToken("user-1", "slot-1", time.Hour)
	require.NoError(t, err)

	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("api-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "api-key", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.Video.RoomJoin)
	assert.Equal(t, "slot-1", claims.Video.Room)
}
