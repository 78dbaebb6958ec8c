package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func hookServer(t *testing.T, hits *atomic.Int64, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDeliver_CountsOnlySuccesses(t *testing.T) {
	var ok1, fail, ok2 atomic.Int64
	s1 := hookServer(t, &ok1, http.StatusNoContent)
	s2 := hookServer(t, &fail, http.StatusInternalServerError)
	s3 := hookServer(t, &ok2, http.StatusOK)

	f := NewFanout(time.Second, nil, nil)
	sent := f.Deliver(context.Background(), []Destination{
		{Channel: ChannelAdmin, Endpoint: s1.URL, Enabled: true},
		{Channel: ChannelDeveloper, Endpoint: s2.URL, Enabled: true},
		{Channel: ChannelStakeholder, Endpoint: s3.URL, Enabled: true},
	}, BuildPayload(Event{Kind: KindPipelineFailure}))

	assert.Equal(t, 2, sent)
	// The failing destination must not prevent the other attempts.
	assert.Equal(t, int64(1), ok1.Load())
	assert.Equal(t, int64(1), fail.Load())
	assert.Equal(t, int64(1), ok2.Load())
}

func TestDeliver_UnreachableEndpointIsNotFatal(t *testing.T) {
	var ok atomic.Int64
	s := hookServer(t, &ok, http.StatusOK)

	f := NewFanout(time.Second, nil, nil)
	sent := f.Deliver(context.Background(), []Destination{
		{Channel: ChannelAdmin, Endpoint: "http://127.0.0.1:1/unreachable", Enabled: true},
		{Channel: ChannelDeveloper, Endpoint: s.URL, Enabled: true},
	}, BuildPayload(Event{Kind: KindPipelineFailure}))

	assert.Equal(t, 1, sent)
	assert.Equal(t, int64(1), ok.Load())
}

func TestDeliver_HungDestinationTimesOut(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The server only watches for client disconnects once the request
		// body is drained; without this, the context is never canceled and
		// slow.Close deadlocks.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer slow.Close()

	var ok atomic.Int64
	fast := hookServer(t, &ok, http.StatusOK)

	f := NewFanout(100*time.Millisecond, nil, nil)
	start := time.Now()
	sent := f.Deliver(context.Background(), []Destination{
		{Channel: ChannelAdmin, Endpoint: slow.URL, Enabled: true},
		{Channel: ChannelDeveloper, Endpoint: fast.URL, Enabled: true},
	}, BuildPayload(Event{Kind: KindPipelineSuccess}))

	assert.Equal(t, 1, sent)
	assert.Equal(t, int64(1), ok.Load())
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestDeliver_NoDestinations(t *testing.T) {
	f := NewFanout(time.Second, nil, nil)
	assert.Equal(t, 0, f.Deliver(context.Background(), nil, BuildPayload(Event{Kind: KindPipelineSuccess})))
}

func TestDeliver_SendsJSONBody(t *testing.T) {
	var gotType atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType.Store(r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := NewFanout(time.Second, nil, nil)
	sent := f.Deliver(context.Background(), []Destination{
		{Channel: ChannelAdmin, Endpoint: srv.URL, Enabled: true},
	}, BuildPayload(Event{Kind: KindUserCreated, UserEmail: "a@b.test"}))

	assert.Equal(t, 1, sent)
	assert.Equal(t, "application/json", gotType.Load())
}
