// Package notify entrega los avisos (toasts) que generan las operaciones del portal.
package notify

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/gncci-portal/internal/domain"
)

// Level tipo de aviso.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification aviso pendiente de mostrar.
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier destino de los avisos.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// ErrorMessage texto visible para err: genérico para fallos de red, literal del backend en el resto.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, domain.ErrNetwork) {
		return domain.ErrNetwork.Error()
	}
	return err.Error()
}

// Fail avisa del error y lo devuelve, para encadenar con return.
func Fail(n Notifier, err error) error {
	if err != nil && n != nil {
		n.Error(ErrorMessage(err))
	}
	return err
}

// DefaultFlashCapacity avisos que se conservan por sesión; al llenarse se descartan los más antiguos.
const DefaultFlashCapacity = 50

// Flash cola de avisos de una sesión del navegador.
type Flash struct {
	mu    sync.Mutex
	items []Notification
	max   int
	now   func() time.Time
}

// NewFlash crea la cola con capacidad max (DefaultFlashCapacity si max <= 0).
func NewFlash(max int) *Flash {
	if max <= 0 {
		max = DefaultFlashCapacity
	}
	return &Flash{max: max, now: time.Now}
}

func (f *Flash) Success(message string) { f.push(LevelSuccess, message) }
func (f *Flash) Error(message string)   { f.push(LevelError, message) }

func (f *Flash) push(level Level, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.items) == f.max {
		f.items = f.items[1:]
	}
	f.items = append(f.items, Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: f.now(),
	})
}

// Drain devuelve los avisos pendientes en orden y vacía la cola.
func (f *Flash) Drain() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.items
	f.items = nil
	if out == nil {
		return []Notification{}
	}
	return out
}

// Len avisos pendientes.
func (f *Flash) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// Log escribe los avisos en el log (debug).
type Log struct {
	log zerolog.Logger
}

// NewLog notifier de log.
func NewLog(l zerolog.Logger) *Log { return &Log{log: l} }

func (l *Log) Success(message string) {
	l.log.Debug().Str("level", string(LevelSuccess)).Msg(message)
}

func (l *Log) Error(message string) {
	l.log.Debug().Str("level", string(LevelError)).Msg(message)
}

type multi []Notifier

// Multi reparte cada aviso entre varios destinos.
func Multi(ns ...Notifier) Notifier { return multi(ns) }

func (m multi) Success(message string) {
	for _, n := range m {
		n.Success(message)
	}
}

func (m multi) Error(message string) {
	for _, n := range m {
		n.Error(message)
	}
}

type nop struct{}

// Nop descarta los avisos.
func Nop() Notifier { return nop{} }

func (nop) Success(string) {}
func (nop) Error(string)   {}
