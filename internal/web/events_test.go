package web

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movers-solution/movers/internal/access"
	"github.com/movers-solution/movers/internal/navigation"
	"github.com/movers-solution/movers/internal/session"
)

// readEvents sends the data of each server-sent event on the returned channel
func readEvents(t *testing.T, resp *http.Response) <-chan string {
	t.Helper()
	out := make(chan string, 8)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(resp.Body)
		var data string
		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case strings.HasPrefix(line, "data:"):
				data = strings.TrimPrefix(line, "data:")
			case line == "" && data != "":
				out <- data
				data = ""
			}
		}
	}()
	return out
}

func nextView(t *testing.T, events <-chan string) navigation.View {
	t.Helper()
	select {
	case data, ok := <-events:
		require.True(t, ok, "event stream closed")
		var v navigation.View
		require.NoError(t, json.Unmarshal([]byte(data), &v))
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for session event")
		return navigation.View{}
	}
}

func TestSessionEvents(t *testing.T) {
	srv := newTestServer(t, &fakeBackend{})
	cookie, key := signIn(t, srv, session.Empty())

	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/session/events", nil)
	require.NoError(t, err)
	req.AddCookie(cookie)

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	events := readEvents(t, resp)

	initial := nextView(t, events)
	assert.False(t, initial.ShowLogout)
	assert.True(t, initial.Has(access.RouteLogin))

	require.NoError(t, srv.sessions.Set(context.Background(), key, alex()))
	signedIn := nextView(t, events)
	assert.True(t, signedIn.ShowLogout)
	assert.Equal(t, "alex", signedIn.Username)
	assert.True(t, signedIn.Has(access.RouteInventory))

	require.NoError(t, srv.sessions.Clear(context.Background(), key))
	signedOut := nextView(t, events)
	assert.False(t, signedOut.ShowLogout)
	assert.Empty(t, signedOut.Username)
}
