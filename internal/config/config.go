// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string `yaml:"env"`
	Store           `yaml:"store"`
	HTTPServer      `yaml:"http_server"`
	JWTToken        `yaml:"jwttoken"`
	RedisConnection `yaml:"redis_connection"`
	AMQPConnection  `yaml:"amqp_connection"`
}

// Store структура для настройки файлового хранилища записей
type Store struct {
	CertificatesPath string        `yaml:"certificates_path" env-default:"data/certificates.json"`
	UsersPath        string        `yaml:"users_path" env-default:"data/users.json"`
	LockWait         time.Duration `yaml:"lock_wait" env-default:"5s"`
	// AllowPublicList включает неаутентифицированную выборку сертификатов
	// по ?userId= — низкодоверенную, явно документированную возможность.
	// По умолчанию выключена.
	AllowPublicList bool `yaml:"allow_public_list" env-default:"false"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// JWTToken структура для работы с jwt-токеном.
// Секрет может прийти и из переменной окружения JWT_SECRET; его отсутствие
// не отключает проверку токенов, а роняет её в ошибку конфигурации.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// AMQPConnection структура для настройки подключения к rabbitmq
type AMQPConnection struct {
	AddressAMQP string        `yaml:"addressamqp"`
	Retries     int           `yaml:"retries" env-default:"3"`
	RetryDelay  time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// MustLoad функция для загрузки конфига, путь берется из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"Store:\n"+
			"  CertificatesPath: %s\n"+
			"  UsersPath: %s\n"+
			"  LockWait: %s\n"+
			"  AllowPublicList: %t\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  User: %s\n"+
			"  DB: %d\n"+
			"AMQPConnection:\n"+
			"  Addr: %s\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n",
		c.Env,
		c.CertificatesPath,
		c.UsersPath,
		c.LockWait,
		c.AllowPublicList,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.AddressRedis,
		c.User,
		c.DB,
		c.AddressAMQP,
		c.TokenTTL,
	)
}
