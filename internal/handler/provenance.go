package handler

import (
	"fmt"
	"net"
	"net/http"

	"github.com/mssola/useragent"

	"github.com/planora/backend/internal/domain"
)

// provenanceFromRequest captures where a mutating request came from for
// the audit trail. The raw User-Agent is stored verbatim; RemoteAddr has
// already been rewritten by chi's RealIP middleware when the request
// arrived through a proxy.
func provenanceFromRequest(r *http.Request) domain.Provenance {
	return domain.Provenance{
		SourceIP:    sourceIP(r),
		SourceAgent: r.UserAgent(),
	}
}

// sourceIP strips the port from RemoteAddr when one is present.
func sourceIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// agentSummary renders a raw User-Agent as a short "browser on OS" string
// for log lines. The audit trail keeps the raw value; this is operator
// convenience only.
func agentSummary(raw string) string {
	if raw == "" {
		return "unknown"
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	if name == "" {
		return raw
	}
	if os := ua.OS(); os != "" {
		return fmt.Sprintf("%s %s on %s", name, version, os)
	}
	return fmt.Sprintf("%s %s", name, version)
}
