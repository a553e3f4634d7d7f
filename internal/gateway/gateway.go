// Package gateway forwards requests to the two remote services,
// unmodified except for host rewriting.
package gateway

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// KeyFunc returns the stored API key for the proxied service. An absent
// key is the empty string.
type KeyFunc func() (string, error)

// Proxy returns a handler that forwards the request to target. The
// matched wildcard path (the "proxyPath" parameter) is appended to the
// target path and the Host header is rewritten to the target host.
//
// When the incoming request carries no Authorization header, the stored
// API key is injected as a bearer token so that a UI does not need to
// hold the credentials itself. Request and response bodies pass through
// untouched.
func Proxy(name string, target *url.URL, key KeyFunc) gin.HandlerFunc {
	proxy := &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.Out.Host = target.Host

			path := r.In.URL.Path
			if i := strings.Index(path, "/api/"+name); i >= 0 {
				path = path[i+len("/api/"+name):]
			}
			r.Out.URL.Path = strings.TrimRight(target.Path, "/") + path

			if r.Out.Header.Get("Authorization") == "" {
				apiKey, err := key()
				if err != nil {
					log.Error().Err(err).Str("gateway", name).Msg("reading API key")
				} else if apiKey != "" {
					r.Out.Header.Set("Authorization", "Bearer "+apiKey)
				}
			}
		},
		ErrorHandler: func(w http.ResponseWriter, _ *http.Request, err error) {
			log.Error().Err(err).Str("gateway", name).Msg("upstream request failed")

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":"the remote service could not be reached"}`))
		},
	}

	return func(c *gin.Context) {
		proxy.ServeHTTP(c.Writer, c.Request)
	}
}
