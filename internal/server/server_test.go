package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/ontoviz/pkg/errors"
	"github.com/matzehuels/ontoviz/pkg/graph"
	"github.com/matzehuels/ontoviz/pkg/hull"
	"github.com/matzehuels/ontoviz/pkg/layout"
	"github.com/matzehuels/ontoviz/pkg/pipeline"
)

func testSnapshot() graph.Snapshot {
	return graph.Snapshot{
		Nodes: []graph.Node{
			{ID: "Thing", EntityType: graph.EntityCategory, GroupIDs: []string{"core"}},
			{ID: "Agent", EntityType: graph.EntityCategory, GroupIDs: []string{"core"}},
			{ID: "Person", EntityType: graph.EntityCategory, GroupIDs: []string{"core"}},
			{ID: "hasName", EntityType: graph.EntityProperty},
		},
		Edges: []graph.Edge{
			{Source: "Agent", Target: "Thing", EdgeType: graph.EdgeParent},
			{Source: "Person", Target: "Agent", EdgeType: graph.EdgeParent},
			{Source: "Person", Target: "hasName", EdgeType: graph.EdgeProperty},
		},
	}
}

func body(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func do(t *testing.T, s *Server, method, path string, b io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, b)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&e))
	return e
}

func TestHealth(t *testing.T) {
	rec := do(t, New(Config{}), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err, "response has no request id")
}

func TestRequestIDPropagates(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	New(Config{}).Handler().ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	New(Config{}).Handler().ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(RequestIDHeader))
}

func TestLayout(t *testing.T) {
	s := New(Config{})
	for _, algo := range layout.Algorithms {
		t.Run(string(algo), func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/v1/layout", body(t, LayoutRequest{
				Snapshot: testSnapshot(),
				Options:  &pipeline.Options{Layout: layout.Options{Algorithm: algo}},
			}))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var res LayoutResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
			assert.Equal(t, string(algo), res.Payload.Algorithm)
			assert.Len(t, res.Payload.Positions, 4)
			assert.Len(t, res.Payload.Hulls, 1)
			assert.Equal(t, 4, res.Stats.Nodes)
			assert.NotEmpty(t, res.SnapshotHash)
			assert.Equal(t, rec.Header().Get(RequestIDHeader), res.RequestID)
		})
	}
}

func TestLayoutUnknownAlgorithmFallsBack(t *testing.T) {
	s := New(Config{})
	rec := do(t, s, http.MethodPost, "/v1/layout", body(t, LayoutRequest{
		Snapshot: testSnapshot(),
		Options:  &pipeline.Options{Layout: layout.Options{Algorithm: "spring"}},
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res LayoutResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, string(layout.Hierarchical), res.Payload.Algorithm)
	assert.Len(t, res.Payload.Positions, 4)
}

func TestLayoutDefaultsFromConfig(t *testing.T) {
	s := New(Config{Defaults: pipeline.Options{Layout: layout.Options{Algorithm: layout.Radial}}})
	rec := do(t, s, http.MethodPost, "/v1/layout", body(t, LayoutRequest{Snapshot: testSnapshot()}))
	require.Equal(t, http.StatusOK, rec.Code)

	var res LayoutResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, string(layout.Radial), res.Payload.Algorithm)
}

func TestLayoutErrors(t *testing.T) {
	s := New(Config{})
	tests := []struct {
		name   string
		body   io.Reader
		status int
		code   errors.Code
	}{
		{"empty body", strings.NewReader(""), http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad json", strings.NewReader("{"), http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{
			"empty node id",
			body(t, LayoutRequest{Snapshot: graph.Snapshot{Nodes: []graph.Node{{ID: ""}}}}),
			http.StatusBadRequest, errors.ErrCodeInvalidSnapshot,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/v1/layout", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			e := decodeError(t, rec)
			assert.Equal(t, tt.code, e.Error.Code)
			assert.NotEmpty(t, e.Error.Message)
		})
	}
}

func TestBodyLimit(t *testing.T) {
	s := New(Config{MaxBodyBytes: 64})
	rec := do(t, s, http.MethodPost, "/v1/layout", body(t, LayoutRequest{Snapshot: testSnapshot()}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errors.ErrCodeInvalidInput, decodeError(t, rec).Error.Code)
}

func TestRender(t *testing.T) {
	s := New(Config{})

	rec := do(t, s, http.MethodPost, "/v1/render/svg", body(t, LayoutRequest{Snapshot: testSnapshot()}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")

	rec = do(t, s, http.MethodPost, "/v1/render/dot", body(t, LayoutRequest{Snapshot: testSnapshot()}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "digraph"))

	rec = do(t, s, http.MethodPost, "/v1/render/gif", body(t, LayoutRequest{Snapshot: testSnapshot()}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errors.ErrCodeInvalidFormat, decodeError(t, rec).Error.Code)
}

func TestHulls(t *testing.T) {
	s := New(Config{})
	padding := 10.0
	req := HullsRequest{
		Nodes: []graph.Node{
			{ID: "a", GroupIDs: []string{"g1"}},
			{ID: "b", GroupIDs: []string{"g1", "g2"}},
			{ID: "c", GroupIDs: []string{"g1"}},
			{ID: "d"},
		},
		Positions: graph.PositionMap{
			"a": {X: 0, Y: 0},
			"b": {X: 200, Y: 0},
			"c": {X: 100, Y: 150},
			"d": {X: 500, Y: 500},
		},
		NodeWidth:  40,
		NodeHeight: 20,
		Padding:    &padding,
	}
	rec := do(t, s, http.MethodPost, "/v1/hulls", body(t, req))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res HullsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	require.Len(t, res.Hulls, 2)
	assert.Equal(t, "g1", res.Hulls[0].GroupID)
	assert.Equal(t, hull.KindPath, res.Hulls[0].Kind)
	assert.Equal(t, "g2", res.Hulls[1].GroupID)
	assert.Equal(t, hull.KindCircle, res.Hulls[1].Kind)

	negative := -1.0
	req.Padding = &negative
	rec = do(t, s, http.MethodPost, "/v1/hulls", body(t, req))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHullsEmpty(t *testing.T) {
	rec := do(t, New(Config{}), http.MethodPost, "/v1/hulls", strings.NewReader(`{}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"hulls":[]`)
}

// sseEvent is one parsed server-sent event.
type sseEvent struct {
	name string
	data string
}

func readEvents(t *testing.T, r io.Reader) []sseEvent {
	t.Helper()
	var events []sseEvent
	var cur sseEvent
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1<<20), 1<<24)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			cur.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			cur.data = strings.TrimPrefix(line, "data: ")
		case line == "" && cur.name != "":
			events = append(events, cur)
			cur = sseEvent{}
		}
	}
	return events
}

func TestFrames(t *testing.T) {
	s := New(Config{})
	rec := do(t, s, http.MethodPost, "/v1/views/main/frames", body(t, LayoutRequest{
		Snapshot: testSnapshot(),
		Options:  &pipeline.Options{Layout: layout.Options{Algorithm: layout.ForceDirected}},
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	events := readEvents(t, rec.Body)
	require.GreaterOrEqual(t, len(events), 2)
	assert.Equal(t, EventDone, events[len(events)-1].name)

	frames := events[:len(events)-1]
	for _, ev := range frames {
		assert.Equal(t, EventFrame, ev.name)
	}
	var last pipeline.FrameEvent
	require.NoError(t, json.Unmarshal([]byte(frames[len(frames)-1].data), &last))
	assert.True(t, last.Final)
	assert.Equal(t, "main", last.View)
	assert.Len(t, last.Positions, 4)
	assert.Len(t, last.Hulls, 1)
}

func TestFramesValidation(t *testing.T) {
	s := New(Config{})
	rec := do(t, s, http.MethodPost, "/v1/views/bad%20view/frames", body(t, LayoutRequest{Snapshot: testSnapshot()}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/v1/views/main/frames", body(t, LayoutRequest{
		Snapshot: testSnapshot(),
		Options:  &pipeline.Options{Formats: []string{"gif"}},
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errors.ErrCodeInvalidFormat, decodeError(t, rec).Error.Code)
}

func TestFramesSupersede(t *testing.T) {
	animator := pipeline.NewAnimator(nil, nil)
	s := New(Config{Animator: animator})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	// A graph large enough that the first stream is still running when the
	// second one starts.
	snap := graph.Snapshot{}
	for i := range 200 {
		snap.Nodes = append(snap.Nodes, graph.Node{ID: fmt.Sprintf("n%d", i)})
	}
	req := LayoutRequest{
		Snapshot: snap,
		Options:  &pipeline.Options{Layout: layout.Options{Algorithm: layout.ForceDirected, MaxIterations: 100000, AlphaMin: 1e-9, AlphaDecay: 1e-4}},
	}
	data, err := json.Marshal(req)
	require.NoError(t, err)

	first, err := http.Post(ts.URL+"/v1/views/main/frames", "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer first.Body.Close()

	// Wait for the first stream to produce a frame.
	br := bufio.NewReader(first.Body)
	_, err = br.ReadString('\n')
	require.NoError(t, err)
	require.Eventually(t, func() bool { return animator.Active("main") }, 5*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	secondReq, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.URL+"/v1/views/main/frames", bytes.NewReader(data))
	require.NoError(t, err)
	second, err := http.DefaultClient.Do(secondReq)
	require.NoError(t, err)
	defer second.Body.Close()

	events := readEvents(t, br)
	require.NotEmpty(t, events)
	assert.Equal(t, EventSuperseded, events[len(events)-1].name)
	cancel()
}

func TestCancelFrames(t *testing.T) {
	s := New(Config{})
	rec := do(t, s, http.MethodDelete, "/v1/views/main/frames", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errors.ErrCodeNotFound, decodeError(t, rec).Error.Code)
}
