package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// seams for tests
var (
	loadDotEnv = func() error { return godotenv.Load() }
	lookupEnv  = os.LookupEnv
)

// parseEnv overlays environment variables onto config. A .env file in the
// working directory is loaded first if present; variables already set in the
// process environment take precedence over it. Malformed numeric or boolean
// values panic, like malformed flags.
//
// Recognised variables:
//
//	PORT                 listen port, becomes ":<PORT>"
//	DATABASE_DSN         PostgreSQL DSN (MONGO_URI is accepted as an alias)
//	JWT_SECRET           token signing secret
//	TOKEN_VALIDITY       token lifetime, e.g. "1h"
//	BCRYPT_COST          bcrypt work factor
//	PROTECT_EMPLOYEES    require auth for employee operations
//	LOG_FORMAT           json or zap
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION,
//	S3_BASE_ENDPOINT, S3_PUBLIC_URL
func parseEnv(config *Config) {
	// a missing .env is normal
	_ = loadDotEnv()

	str := func(key string, dst *string) {
		if v, ok := lookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookupEnv("PORT"); ok && v != "" {
		if !strings.HasPrefix(v, ":") {
			v = ":" + v
		}
		config.EndpointAddrHTTP = v
	}

	str("MONGO_URI", &config.DatabaseDSN)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("JWT_SECRET", &config.SecretKey)
	str("LOG_FORMAT", &config.LogFormat)
	str("S3_ROOT_USER", &config.S3RootUser)
	str("S3_ROOT_PASSWORD", &config.S3RootPassword)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	str("S3_PUBLIC_URL", &config.S3PublicURL)

	if v, ok := lookupEnv("TOKEN_VALIDITY"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.TokenValidityDuration = d
	}

	if v, ok := lookupEnv("BCRYPT_COST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.BcryptCost = n
	}

	if v, ok := lookupEnv("PROTECT_EMPLOYEES"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		config.ProtectEmployees = b
	}
}
