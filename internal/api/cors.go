package api

import (
	"net/http"
	"strconv"
	"strings"
)

type CORSOptions struct {
	// AllowedOrigins holds exact origins ("https://bar.example.com") or a
	// single leading wildcard label ("https://*.bar.example.com") for preview
	// deployments of the public site.
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAgeSeconds  int
}

type wildcardOrigin struct {
	scheme string // "https://"
	suffix string // ".bar.example.com"
}

type originPolicy struct {
	exact     map[string]bool
	wildcards []wildcardOrigin
}

func newOriginPolicy(origins []string) originPolicy {
	p := originPolicy{exact: make(map[string]bool, len(origins))}
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if scheme, host, ok := strings.Cut(o, "://*."); ok {
			p.wildcards = append(p.wildcards, wildcardOrigin{scheme: scheme + "://", suffix: "." + host})
			continue
		}
		if o != "" {
			p.exact[o] = true
		}
	}
	return p
}

func (p originPolicy) allows(origin string) bool {
	if origin == "" {
		return false
	}
	if p.exact[origin] {
		return true
	}
	for _, wc := range p.wildcards {
		host, ok := strings.CutPrefix(origin, wc.scheme)
		if !ok || !strings.HasSuffix(host, wc.suffix) {
			continue
		}
		// Exactly one extra label: "pr-12.bar.example.com", not "a.b.bar.example.com".
		label := strings.TrimSuffix(host, wc.suffix)
		if label != "" && !strings.ContainsAny(label, "./:") {
			return true
		}
	}
	return false
}

// CORSMiddleware lets the public site and the dashboard call the API from
// the browser. Preflights from allowed origins are answered here with 204;
// preflights from anywhere else get 403 so they never reach a handler.
func CORSMiddleware(opts CORSOptions) func(http.Handler) http.Handler {
	methods := strings.Join(orDefault(opts.AllowedMethods, []string{"GET", "POST", "OPTIONS"}), ", ")
	headers := strings.Join(orDefault(opts.AllowedHeaders, []string{"Content-Type", "Authorization"}), ", ")
	maxAge := opts.MaxAgeSeconds
	if maxAge <= 0 {
		maxAge = 600
	}
	policy := newOriginPolicy(opts.AllowedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowed := policy.allows(origin)
			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""

			h := w.Header()
			h.Add("Vary", "Origin")
			if allowed {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Expose-Headers", "Retry-After, X-Request-ID, X-Cache")
			}

			if !preflight {
				next.ServeHTTP(w, r)
				return
			}
			h.Add("Vary", "Access-Control-Request-Method")
			h.Add("Vary", "Access-Control-Request-Headers")
			if !allowed {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", headers)
			h.Set("Access-Control-Max-Age", strconv.Itoa(maxAge))
			w.WriteHeader(http.StatusNoContent)
		})
	}
}

func orDefault(v, fallback []string) []string {
	if len(v) == 0 {
		return fallback
	}
	return v
}
