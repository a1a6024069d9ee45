package vso

import (
	"context"
	"net/http"

	"github.com/Physolia/sunpy/pkg/logging"
)

// Mirror is one redundant service endpoint for the VSO, a URL plus the
// SOAP port name the service binds there.
type Mirror struct {
	URL  string
	Port string
}

// DefaultMirrors are the known VSO endpoints, probed in order.
var DefaultMirrors = []Mirror{
	{URL: "https://docs.virtualsolar.org/WSDL/VSOi_rpc_literal.wsdl", Port: "nsoVSOi"},
	{URL: "https://sdac.virtualsolar.org/API/VSOi_rpc_literal.wsdl", Port: "sdacVSOi"},
}

// CheckConnection reports whether the endpoint accepts a request.
func CheckConnection(ctx context.Context, client *http.Client, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

// onlineMirror probes candidates in order and returns the first live one.
// The second return is false when none responded.
func onlineMirror(ctx context.Context, client *http.Client, mirrors []Mirror) (Mirror, bool) {
	log := logging.Ctx(ctx)
	for _, mirror := range mirrors {
		if CheckConnection(ctx, client, mirror.URL) {
			log.Debug().Str("mirror", mirror.URL).Str("port", mirror.Port).Msg("Mirror is live")
			return mirror, true
		}
		log.Debug().Str("mirror", mirror.URL).Msg("Mirror did not respond")
	}
	return Mirror{}, false
}
