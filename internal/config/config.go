package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Task     TaskConfig     `mapstructure:"task"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains authentication and token-signing settings.
//
// SessionSecret signs both access and refresh tokens; ActivationSecret
// signs activation tokens only. The two keys must never be cross-used, so
// that a token from one signing domain can never validate in the other.
type AuthConfig struct {
	SessionSecret    string `mapstructure:"session_secret"    validate:"required,min=32"`
	ActivationSecret string `mapstructure:"activation_secret" validate:"required,min=32"`

	// Token lifetimes. Access tokens are short-lived (hours), refresh
	// tokens long-lived (days), activation tokens tens of minutes.
	AccessTokenLifetimeMinutes     int `mapstructure:"access_token_lifetime_minutes"     validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes    int `mapstructure:"refresh_token_lifetime_minutes"    validate:"required,gt=0"`
	ActivationTokenLifetimeMinutes int `mapstructure:"activation_token_lifetime_minutes" validate:"required,gt=0"`

	// ActivationURL is the public endpoint embedded in welcome emails; the
	// activation token is appended as a query parameter.
	ActivationURL string `mapstructure:"activation_url" validate:"required,url"`

	// BcryptCost controls the password hashing work factor. Zero selects
	// the bcrypt default.
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"gte=0,lte=31"`
}

// SMTPConfig contains the mail relay settings for the welcome email sender.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	UseTLS   bool   `mapstructure:"use_tls"`
}

// TaskConfig contains background task runner settings.
type TaskConfig struct {
	WorkerCount                int `mapstructure:"worker_count"                  validate:"gte=0"`
	QueueSize                  int `mapstructure:"queue_size"                    validate:"gte=0"`
	StuckTaskAgeMinutes        int `mapstructure:"stuck_task_age_minutes"        validate:"gte=0"`
	StuckTaskCheckIntervalMins int `mapstructure:"stuck_task_check_interval_minutes" validate:"gte=0"`
}
