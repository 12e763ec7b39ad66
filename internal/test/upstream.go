package test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
)

// Call One request received by a FakeUpstream
type Call struct {
	Path          string
	Query         url.Values
	Authorization string
}

// Reply Scripted response for a path. A zero Status means 200.
type Reply struct {
	Status int
	Body   string
	Hang   bool
}

// FakeUpstream Stands in for the ML Data API. Unscripted paths answer 404.
type FakeUpstream struct {
	*httptest.Server

	mu      sync.Mutex
	calls   []Call
	replies map[string]Reply
	release chan struct{}
}

func NewFakeUpstream() *FakeUpstream {
	f := &FakeUpstream{
		replies: map[string]Reply{},
		release: make(chan struct{}),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	return f
}

func (f *FakeUpstream) Reply(path string, reply Reply) *FakeUpstream {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[path] = reply
	return f
}

func (f *FakeUpstream) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Close Unblocks any hanging handlers before shutting the server down
func (f *FakeUpstream) Close() {
	close(f.release)
	f.Server.Close()
}

func (f *FakeUpstream) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{
		Path:          r.URL.Path,
		Query:         r.URL.Query(),
		Authorization: r.Header.Get("Authorization"),
	})
	reply, ok := f.replies[r.URL.Path]
	f.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	if reply.Hang {
		select {
		case <-f.release:
		case <-r.Context().Done():
		}
		return
	}

	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(reply.Body))
}

// ClosedURL An address that refuses connections
func ClosedURL() string {
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()
	return u
}
