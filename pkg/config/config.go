package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvProduction es el valor de APP_ENV que activa las validaciones estrictas.
const EnvProduction = "production"

// ErrMissingSupabase se devuelve cuando falta la URL o la clave pública de Supabase en producción.
var ErrMissingSupabase = errors.New("config: SUPABASE_URL y SUPABASE_ANON_KEY son obligatorias en producción")

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Supabase SupabaseConfig
	DB       DBConfig
	Session  SessionConfig
	Redis    RedisConfig
	Payments PaymentsConfig
	Errors   ErrorReportConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// IsProduction indica si la app corre con APP_ENV=production.
func (c AppConfig) IsProduction() bool {
	return c.Env == EnvProduction
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host    string
	Port    int
	SiteURL string // destino de los enlaces de recuperación de contraseña
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SupabaseConfig endpoint y credenciales del backend gestionado (PostgREST + GoTrue).
type SupabaseConfig struct {
	URL            string
	AnonKey        string // credencial pública
	ServiceRoleKey string // opcional: habilita la administración de usuarios
	JWTSecret      string // opcional: verifica la firma de los tokens restaurados
	Timeout        time.Duration
}

// DBConfig conexión directa (solo lectura) a PostgreSQL para estadísticas.
// Si DatabaseURL no está vacío, se usa como connection string completo (ej. DATABASE_URL de Supabase).
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// Enabled indica si hay datos suficientes para abrir el pool directo.
func (c DBConfig) Enabled() bool {
	return c.DatabaseURL != "" || c.Host != ""
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// SessionConfig sesiones del portal (cookie del navegador + sesión persistida de Supabase).
type SessionConfig struct {
	CookieName string
	CookieKey  string // base64 de 16, 24 o 32 bytes; cifra el valor de la cookie
	StorageKey string // prefijo de la clave con la que se persiste la sesión de Supabase
	IdleTTL    time.Duration
	PersistTTL time.Duration // vigencia de la sesión persistida
}

// RedisConfig almacén opcional de sesiones persistidas.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled indica si se configuró Redis.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// PaymentsConfig configuración de la pasarela de pagos.
type PaymentsConfig struct {
	SettingsKey string // hex de 32 bytes; vacío = secretos en claro
}

// ErrorReportConfig destino de los reportes de error en producción.
type ErrorReportConfig struct {
	URL string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, SUPABASE_URL, HTTP_PORT, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "gncci-portal"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host:    getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:    getInt(v, "HTTP_PORT", 8080),
			SiteURL: getString(v, "SITE_URL", ""),
		},
		Supabase: SupabaseConfig{
			URL:            getString(v, "SUPABASE_URL", ""),
			AnonKey:        getString(v, "SUPABASE_ANON_KEY", ""),
			ServiceRoleKey: getString(v, "SUPABASE_SERVICE_ROLE_KEY", ""),
			JWTSecret:      getString(v, "SUPABASE_JWT_SECRET", ""),
			Timeout:        time.Duration(getInt(v, "SUPABASE_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", ""),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "postgres"),
			SSLMode:     getString(v, "DB_SSLMODE", "require"),
		},
		Session: SessionConfig{
			CookieName: getString(v, "SESSION_COOKIE_NAME", "gncci_session"),
			CookieKey:  getString(v, "SESSION_COOKIE_KEY", ""),
			StorageKey: getString(v, "SESSION_STORAGE_KEY", "gncci_auth"),
			IdleTTL:    time.Duration(getInt(v, "SESSION_IDLE_MINUTES", 120)) * time.Minute,
			PersistTTL: time.Duration(getInt(v, "SESSION_PERSIST_DAYS", 30)) * 24 * time.Hour,
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Payments: PaymentsConfig{
			SettingsKey: getString(v, "PAYMENT_SETTINGS_KEY", ""),
		},
		Errors: ErrorReportConfig{
			URL: getString(v, "ERROR_REPORT_URL", ""),
		},
	}
}

// Validate aplica las reglas de arranque. En producción la ausencia del endpoint
// o de la credencial pública de Supabase es un error fatal.
func (c *Config) Validate() error {
	if c.App.IsProduction() && (c.Supabase.URL == "" || c.Supabase.AnonKey == "") {
		return ErrMissingSupabase
	}
	if c.HTTP.Port <= 0 {
		return fmt.Errorf("config: HTTP_PORT inválido: %d", c.HTTP.Port)
	}
	if c.Session.IdleTTL <= 0 {
		return fmt.Errorf("config: SESSION_IDLE_MINUTES debe ser mayor que cero")
	}
	if c.Session.PersistTTL <= 0 {
		return fmt.Errorf("config: SESSION_PERSIST_DAYS debe ser mayor que cero")
	}
	if k := c.Session.CookieKey; k != "" {
		raw, err := base64.StdEncoding.DecodeString(k)
		if err != nil || (len(raw) != 16 && len(raw) != 24 && len(raw) != 32) {
			return fmt.Errorf("config: SESSION_COOKIE_KEY debe ser base64 de 16, 24 o 32 bytes")
		}
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
