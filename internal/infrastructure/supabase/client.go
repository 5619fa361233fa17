// Package supabase es el binding con el backend gestionado: PostgREST para datos y
// GoTrue para autenticación. Un único Client por proceso; las sesiones de usuario
// (AuthSession) y los repositorios lo comparten.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/gncci-portal/internal/domain"
)

// Config endpoint y credenciales del backend.
type Config struct {
	URL            string
	AnonKey        string
	ServiceRoleKey string
	JWTSecret      string
	Timeout        time.Duration
}

// Client handle compartido hacia el backend.
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	jwtSecret  string
	http       *http.Client
	log        zerolog.Logger
	metrics    *clientMetrics
}

// Option configura el Client.
type Option func(*Client)

// WithHTTPClient reemplaza el cliente HTTP (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger asigna el logger del cliente.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithMetrics activa la instrumentación Prometheus de las peticiones.
func WithMetrics() Option {
	return func(c *Client) { c.metrics = initMetrics() }
}

// New construye el Client. Sin URL o sin clave pública el cliente existe pero toda
// petición devuelve domain.ErrMissingConfig (solo válido fuera de producción).
func New(cfg Config, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base != "" {
		if !strings.HasPrefix(base, "http") {
			base = "https://" + base
		}
		if _, err := url.ParseRequestURI(base); err != nil {
			return nil, fmt.Errorf("supabase: URL inválida: %w", err)
		}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		baseURL:    base,
		anonKey:    cfg.AnonKey,
		serviceKey: cfg.ServiceRoleKey,
		jwtSecret:  cfg.JWTSecret,
		http:       &http.Client{Timeout: timeout},
		log:        zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Configured indica si hay endpoint y clave pública.
func (c *Client) Configured() bool { return c.baseURL != "" && c.anonKey != "" }

// HasServiceRole indica si se pueden usar las operaciones administrativas.
func (c *Client) HasServiceRole() bool { return c.serviceKey != "" }

// request petición de bajo nivel hacia /rest/v1 o /auth/v1.
type request struct {
	method  string
	path    string // incluye el prefijo /rest/v1 o /auth/v1
	query   url.Values
	body    any
	token   string // bearer; vacío = clave pública
	apikey  string // vacío = clave pública
	headers map[string]string
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (c *Client) do(ctx context.Context, r request) (*response, error) {
	if !c.Configured() {
		return nil, domain.ErrMissingConfig
	}

	var reqBody io.Reader
	var reqSize int
	if r.body != nil {
		jsonData, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("supabase: serializar cuerpo: %w", err)
		}
		reqSize = len(jsonData)
		reqBody = bytes.NewReader(jsonData)
	}

	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("supabase: crear petición: %w", err)
	}

	apikey := r.apikey
	if apikey == "" {
		apikey = c.anonKey
	}
	token := r.token
	if token == "" {
		token = apikey
	}
	req.Header.Set("apikey", apikey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	target := targetOf(r.path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.record(target, r.method, 0, err, reqSize, 0, time.Since(start))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.log.Warn().Err(err).Str("method", r.method).Str("path", r.path).Msg("supabase: fallo de red")
		return nil, &networkError{cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.record(target, r.method, resp.StatusCode, err, reqSize, 0, time.Since(start))
		return nil, &networkError{cause: err}
	}

	var apiErr error
	if resp.StatusCode >= 400 {
		apiErr = parseError(resp.StatusCode, respBody)
	}
	c.metrics.record(target, r.method, resp.StatusCode, apiErr, reqSize, len(respBody), time.Since(start))
	c.log.Debug().
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("supabase request")

	if apiErr != nil {
		return nil, apiErr
	}
	return &response{status: resp.StatusCode, header: resp.Header, body: respBody}, nil
}

func targetOf(path string) string {
	switch {
	case strings.HasPrefix(path, "/auth/v1/admin"):
		return "auth_admin"
	case strings.HasPrefix(path, "/auth/v1"):
		return "auth"
	default:
		return "rest"
	}
}

func decode(body []byte, dest any) error {
	if dest == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("supabase: respuesta inesperada: %w", err)
	}
	return nil
}

// IsMissingConfig indica que el cliente se construyó sin endpoint o credencial.
func IsMissingConfig(err error) bool { return errors.Is(err, domain.ErrMissingConfig) }
