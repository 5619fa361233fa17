package errorreport_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gncci-portal/internal/application/dto"
	"github.com/jhoicas/gncci-portal/internal/infrastructure/errorreport"
)

func report(msg string) dto.ClientErrorReport {
	var r dto.ClientErrorReport
	r.Error.Message = msg
	r.URL = "/dashboard"
	return r
}

func TestReporter_EnviaReportesAlColector(t *testing.T) {
	var (
		mu  sync.Mutex
		got []dto.ClientErrorReport
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rep dto.ClientErrorReport
		_ = json.NewDecoder(r.Body).Decode(&rep)
		mu.Lock()
		got = append(got, rep)
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	r := errorreport.New(srv.URL, zerolog.Nop())
	r.Report(report("boom"))
	r.Report(report("otra"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r.Close(ctx)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 2)
	assert.Equal(t, "boom", got[0].Error.Message)
	assert.NotEmpty(t, got[0].Timestamp, "se completa la marca de tiempo")
}

func TestReporter_FalloDelColectorSeDescarta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := errorreport.New(srv.URL, zerolog.Nop())
	assert.NotPanics(t, func() {
		r.Report(report("boom"))
		r.Close(context.Background())
	})
}

func TestReporter_SinURLNoHaceNada(t *testing.T) {
	r := errorreport.New("", zerolog.Nop())

	assert.False(t, r.Enabled())
	r.Report(report("boom"))
	r.Close(context.Background())
	r.Close(context.Background())
}
