package api

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goclean/domain/cleaning"
	"goclean/domain/core"
)

func TestSSEHubPublish(t *testing.T) {
	hub := NewSSEHub()
	events, unsubscribe := hub.Subscribe()
	assert.Equal(t, 1, hub.ClientCount())

	id := core.NewRunID()
	hub.Publish(cleaning.RunEvent{Type: cleaning.RunEventStarted, RunID: id})

	select {
	case event := <-events:
		assert.Equal(t, id, event.RunID)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}

	unsubscribe()
	unsubscribe()
	assert.Zero(t, hub.ClientCount())

	// publishing with no clients is a no-op
	hub.Publish(cleaning.RunEvent{Type: cleaning.RunEventFinished, RunID: id})
}

func TestSSEHubDropsForSlowClients(t *testing.T) {
	hub := NewSSEHub()
	_, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish(cleaning.RunEvent{Type: cleaning.RunEventStarted, RunID: core.NewRunID()})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a client that never reads")
	}
}

func TestEventsEndpointStreamsRuns(t *testing.T) {
	s, _ := newTestServer(t, false)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/v1/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	post, err := http.Post(ts.URL+"/api/v1/clean", "application/json", strings.NewReader(herdPayload))
	require.NoError(t, err)
	post.Body.Close()
	require.Equal(t, http.StatusOK, post.StatusCode)

	scanner := bufio.NewScanner(resp.Body)
	var sawFinished bool
	for scanner.Scan() {
		if strings.Contains(scanner.Text(), `"type":"run_finished"`) {
			sawFinished = true
			break
		}
	}
	assert.True(t, sawFinished, "expected a run_finished event on the stream")
}
