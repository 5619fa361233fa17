// Package errorreport envía errores no controlados a un colector externo.
package errorreport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/gncci-portal/internal/application/dto"
)

const queueSize = 64

// Reporter cola asíncrona hacia el colector. Los fallos de envío se registran y se descartan:
// reportar un error nunca debe producir otro hacia el usuario.
type Reporter struct {
	url        string
	httpClient *http.Client
	log        zerolog.Logger

	mu     sync.Mutex
	closed bool
	queue  chan dto.ClientErrorReport
	wg     sync.WaitGroup
}

// New construye el reporter y arranca su worker. Con url vacía Report no hace nada.
func New(url string, log zerolog.Logger) *Reporter {
	r := &Reporter{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
		queue:      make(chan dto.ClientErrorReport, queueSize),
	}
	if url != "" {
		r.wg.Add(1)
		go r.loop()
	}
	return r
}

// Enabled indica si hay colector configurado.
func (r *Reporter) Enabled() bool { return r != nil && r.url != "" }

// Report encola el reporte sin bloquear. Con la cola llena se descarta.
func (r *Reporter) Report(rep dto.ClientErrorReport) {
	if !r.Enabled() {
		return
	}
	if rep.Timestamp == "" {
		rep.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	select {
	case r.queue <- rep:
	default:
		r.log.Warn().Str("message", rep.Error.Message).Msg("errorreport: cola llena, reporte descartado")
	}
}

// Close espera a que se envíe lo encolado o a que venza ctx.
func (r *Reporter) Close(ctx context.Context) {
	if !r.Enabled() {
		return
	}
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

func (r *Reporter) loop() {
	defer r.wg.Done()
	for rep := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := r.send(ctx, rep); err != nil {
			r.log.Debug().Err(err).Msg("errorreport: envío fallido")
		}
		cancel()
	}
}

func (r *Reporter) send(ctx context.Context, rep dto.ClientErrorReport) error {
	body, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("serializar reporte: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("llamada al colector: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("colector respondió HTTP %d", resp.StatusCode)
	}
	return nil
}
