// Package redis provides a Redis-backed cookie store for the jar's Store
// plugin contract, wrapping the go-redis client with connection validation
// and retry logic for reliable connectivity.
//
// Each canonical cookie domain maps to one Redis hash under a configurable
// key prefix, with one field per (path, name) pair. The store implements
// every optional capability the jar can exploit: updates, bulk and batch
// removal, and full enumeration for serialization and cloning.
//
// # Configuration
//
// All configuration is handled through the Config struct with environment
// variable mapping:
//
//	type Config struct {
//		ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
//		KeyPrefix      string        `env:"REDIS_COOKIE_PREFIX" envDefault:"cookiejar"`
//		RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
//		ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
//	}
//
// # Usage Example
//
//	cfg, err := redis.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal("failed to connect to redis:", err)
//	}
//	defer client.Close()
//
//	j := jar.New(jar.WithStore(redis.New(client, redis.WithKeyPrefix(cfg.KeyPrefix))))
//	_, err = j.SetCookieString(ctx, "https://example.com/", "session=abc; Path=/")
//
// Cookie entries persist without creation indexes, so enumeration order is
// only creation-stable within a single process.
package redis
