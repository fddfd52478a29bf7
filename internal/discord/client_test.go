package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(zap.NewNop(), nil, Config{BotToken: "bot-token", BaseURL: srv.URL})
}

func TestClient_CreateGuildChannel(t *testing.T) {
	var got CreateChannelParams
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/guilds/g1/channels", r.URL.Path)
		require.Equal(t, "Bot bot-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"c1","name":"ticket-alice-12345678","type":0}`))
	}))

	ch, err := c.CreateGuildChannel(context.Background(), "g1", CreateChannelParams{
		Name:     "ticket-alice-12345678",
		ParentID: "cat",
		PermissionOverwrites: []PermissionOverwrite{
			{ID: "g1", Type: OverwriteTypeRole, Deny: PermissionViewChannel},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "c1", ch.ID)
	require.Equal(t, "cat", got.ParentID)
	require.Len(t, got.PermissionOverwrites, 1)
}

func TestClient_APIError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		isNotFound bool
		message    string
	}{
		{
			name:       "unknown channel",
			status:     http.StatusNotFound,
			body:       `{"message":"Unknown Channel","code":10003}`,
			isNotFound: true,
			message:    "Unknown Channel",
		},
		{
			name:    "server error with plain body",
			status:  http.StatusInternalServerError,
			body:    "upstream exploded",
			message: "upstream exploded",
		},
		{
			name:    "forbidden without body",
			status:  http.StatusForbidden,
			message: "Forbidden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			err := c.DeleteChannel(context.Background(), "c1")
			require.Error(t, err)
			require.Equal(t, tt.isNotFound, IsNotFound(err))

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, tt.status, apiErr.StatusCode)
			require.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestClient_DeleteChannel_NoContent(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, c.DeleteChannel(context.Background(), "c1"))
}

func TestClient_CreateMessage_OnlyOK(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{}`))
	}))

	_, err := c.CreateMessage(context.Background(), "c1", MessageParams{Content: "hi"})
	require.Error(t, err)
}

func TestClient_ListChannelMessages_Paginates(t *testing.T) {
	calls := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.Equal(t, "100", r.URL.Query().Get("limit"))

		// Первая страница без курсора, дальше before = последний id
		if calls == 1 {
			require.Empty(t, r.URL.Query().Get("before"))
		} else {
			require.Equal(t, fmt.Sprintf("m%d-99", calls-1), r.URL.Query().Get("before"))
		}

		size := 100
		if calls == 3 {
			size = 40
		}
		batch := make([]Message, size)
		for i := range batch {
			batch[i] = Message{ID: fmt.Sprintf("m%d-%d", calls, i)}
		}
		_ = json.NewEncoder(w).Encode(batch)
	}))

	msgs, err := c.ListChannelMessages(context.Background(), "orders", 100, 5)
	require.NoError(t, err)
	require.Len(t, msgs, 240)
	require.Equal(t, 3, calls)
}

func TestClient_ListChannelMessages_StopsAtMaxPages(t *testing.T) {
	calls := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		batch := make([]Message, 100)
		for i := range batch {
			batch[i] = Message{ID: strconv.Itoa(calls*1000 + i)}
		}
		_ = json.NewEncoder(w).Encode(batch)
	}))

	msgs, err := c.ListChannelMessages(context.Background(), "orders", 100, 5)
	require.NoError(t, err)
	require.Len(t, msgs, 500)
	require.Equal(t, 5, calls)
}

func TestClient_ListGuildMembers_AfterCursor(t *testing.T) {
	calls := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.Equal(t, "1000", r.URL.Query().Get("limit"))
		if calls == 2 {
			require.Equal(t, "u999", r.URL.Query().Get("after"))
		}

		size := 1000
		if calls == 2 {
			size = 3
		}
		batch := make([]Member, size)
		for i := range batch {
			batch[i] = Member{User: User{ID: fmt.Sprintf("u%d", i)}, Roles: []string{"booster"}}
		}
		_ = json.NewEncoder(w).Encode(batch)
	}))

	members, err := c.ListGuildMembers(context.Background(), "g1")
	require.NoError(t, err)
	require.Len(t, members, 1003)
	require.True(t, members[0].HasRole("booster"))
}

func TestClient_GetGuild(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "true", r.URL.Query().Get("with_counts"))
		_, _ = w.Write([]byte(`{"id":"g1","name":"Syndicate","approximate_member_count":1200,"approximate_presence_count":300}`))
	}))

	g, err := c.GetGuild(context.Background(), "g1")
	require.NoError(t, err)
	require.Equal(t, 1200, g.ApproximateMemberCount)
	require.Equal(t, 300, g.ApproximatePresenceCount)
}

func TestClient_BulkOverwriteGuildCommands(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/applications/app/guilds/g1/commands", r.URL.Path)

		var cmds []Command
		require.NoError(t, json.NewDecoder(r.Body).Decode(&cmds))
		require.Len(t, cmds, 2)
		_, _ = w.Write([]byte(`[]`))
	}))

	err := c.BulkOverwriteGuildCommands(context.Background(), "app", "g1", []Command{
		{Name: "close", Description: "Close this ticket"},
		{Name: "complete", Description: "Complete the order"},
	})
	require.NoError(t, err)
}

func TestUser_AvatarURL(t *testing.T) {
	require.Empty(t, User{ID: "1"}.AvatarURL())
	require.Equal(t, "https://cdn.discordapp.com/avatars/1/abc.png", User{ID: "1", Avatar: "abc"}.AvatarURL())
}
