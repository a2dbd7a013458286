package config

import "time"

type AuthConfig struct {
	Secret    string `mapstructure:"secret" validate:"required,min=16"`
	ExpiryMin int    `mapstructure:"expiry_min" validate:"gte=1"`
}

type DBConfig struct {
	URL             string        `mapstructure:"url" validate:"required"`
	MaxOpenConns    int32         `mapstructure:"max_open_conns" validate:"gte=1"`
	MinIdleConns    int32         `mapstructure:"min_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	HealthTimeout   time.Duration `mapstructure:"health_timeout" validate:"gt=0"`
}

type RedisConfig struct {
	URL             string        `mapstructure:"url" validate:"required"`
	DialTimeout     time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PoolSize        int           `mapstructure:"pool_size"`
	MinIdleConns    int           `mapstructure:"min_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	StatusTTL       time.Duration `mapstructure:"status_ttl"`
	SeenTTL         time.Duration `mapstructure:"seen_ttl"`
}

type RabbitMQConfig struct {
	BrokerLink       string `mapstructure:"broker_link" validate:"required"`
	ExchangeName     string `mapstructure:"exchange_name" validate:"required"`
	ExchangeType     string `mapstructure:"exchange_type" validate:"oneof=direct topic"`
	ProbeQueue       string `mapstructure:"probe_queue" validate:"required"`
	ProbeRoutingKey  string `mapstructure:"probe_routing_key" validate:"required"`
	ResultQueue      string `mapstructure:"result_queue" validate:"required"`
	ResultRoutingKey string `mapstructure:"result_routing_key" validate:"required"`
	PublishAttempts  int    `mapstructure:"publish_attempts" validate:"gte=1"`
}

type ExecutorConfig struct {
	WorkerCount  int   `mapstructure:"worker_count" validate:"gte=1"`
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" validate:"gte=1"`
}

type RecorderConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"gte=1"`
}

type SchedulerConfig struct {
	DispatchTimeout time.Duration `mapstructure:"dispatch_timeout" validate:"gt=0"`
	StopTimeout     time.Duration `mapstructure:"stop_timeout" validate:"gt=0"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Config struct {
	Env         string          `mapstructure:"env" validate:"oneof=development production test"`
	ServiceName string          `mapstructure:"service_name" validate:"required"`
	Port        int             `mapstructure:"port" validate:"gte=1,lte=65535"`
	DB          DBConfig        `mapstructure:"db"`
	Redis       RedisConfig     `mapstructure:"redis"`
	RabbitMQ    RabbitMQConfig  `mapstructure:"rabbitmq"`
	Auth        AuthConfig      `mapstructure:"auth"`
	Executor    ExecutorConfig  `mapstructure:"executor"`
	Recorder    RecorderConfig  `mapstructure:"recorder"`
	Scheduler   SchedulerConfig `mapstructure:"scheduler"`
	Log         LogConfig       `mapstructure:"log"`
	CORS        CORSConfig      `mapstructure:"cors"`
}
