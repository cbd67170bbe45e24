package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones del logger del servicio.
type Config struct {
	Env     string    // development -> consola legible; cualquier otro -> JSON
	Level   string    // trace, debug, info, warn, error
	Service string    // nombre de la app; va en cada línea como "service"
	Storage string    // driver de almacenamiento (postgres | memory); va como "storage"
	Out     io.Writer // destino; os.Stdout si es nil
}

// Logger wrapper sobre zerolog para inyección en casos de uso y handlers.
type Logger struct {
	zl zerolog.Logger
}

// New crea el logger estructurado con los campos fijos del servicio.
func New(cfg Config) *Logger {
	w := cfg.Out
	if w == nil {
		w = os.Stdout
	}
	if strings.EqualFold(cfg.Env, "development") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	ctx := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	if cfg.Storage != "" {
		ctx = ctx.Str("storage", cfg.Storage)
	}
	zl := ctx.Logger()

	// el logger global queda igual para librerías que lo usen
	log.Logger = zl

	return &Logger{zl: zl}
}

// Nop devuelve un logger que descarta todo (tests).
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || s == "" || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// With crea un sublogger con campos fijos.
func (l *Logger) With() zerolog.Context {
	return l.zl.With()
}

// Zerolog devuelve el logger interno.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}
