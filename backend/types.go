package backend

import (
	"context"
	"net/url"
)

// Backend An upstream the gateway forwards reads to. Implementations make at most one outbound call per method invocation.
type Backend interface {
	Fetch(ctx context.Context, path string, query url.Values) Result
	Probe(ctx context.Context) ProbeStatus
}

type Outcome int

const (
	Success Outcome = iota
	AuthFailed
	UpstreamError
	Unreachable
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case AuthFailed:
		return "auth_failed"
	case UpstreamError:
		return "upstream_error"
	case Unreachable:
		return "unreachable"
	}
	return "unknown"
}

// Result Outcome of one upstream call. Body is set only for Success, Status and Detail only for UpstreamError.
// Err keeps the underlying cause for server-side logs and is never shown to clients.
type Result struct {
	Outcome Outcome
	Body    []byte
	Status  int
	Detail  string
	Err     error
}

func Ok(body []byte) Result {
	return Result{Outcome: Success, Body: body}
}

func Unauthorized() Result {
	return Result{Outcome: AuthFailed}
}

func Failed(status int, detail string) Result {
	return Result{Outcome: UpstreamError, Status: status, Detail: detail}
}

func Unavailable(err error) Result {
	return Result{Outcome: Unreachable, Err: err}
}

type ProbeStatus string

const (
	NotConfigured    ProbeStatus = "not_configured"
	Connected        ProbeStatus = "connected"
	ProbeError       ProbeStatus = "error"
	ProbeUnreachable ProbeStatus = "unreachable"
)
