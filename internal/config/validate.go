package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be \"postgres\" or \"sqlite\", got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}

	if c.Security.NonceSecret == "" {
		return errors.New("security.nonce_secret is required")
	}
	if c.Security.NonceTTL <= 0 {
		return errors.New("security.nonce_ttl must be positive")
	}

	if c.Events.Enabled {
		if c.Redis.Address == "" {
			return errors.New("redis.address is required when events.enabled is true")
		}
		if c.Events.Queue == "" {
			return errors.New("events.queue is required when events.enabled is true")
		}
	}

	if c.Worker.Concurrency <= 0 {
		return errors.New("worker.concurrency must be a positive integer")
	}
	for name, priority := range c.Worker.Queues {
		if name == "" {
			return errors.New("worker.queues contains an empty queue name")
		}
		if priority <= 0 {
			return fmt.Errorf("worker.queues priority for queue '%s' must be positive", name)
		}
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format)
	}

	if len(c.Listing.PerPageOptions) == 0 {
		return errors.New("listing.per_page_options must list at least one page size")
	}
	found := false
	for _, n := range c.Listing.PerPageOptions {
		if n <= 0 {
			return fmt.Errorf("listing.per_page_options contains non-positive size %d", n)
		}
		if n == c.Listing.DefaultPerPage {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("listing.default_per_page %d is not one of listing.per_page_options", c.Listing.DefaultPerPage)
	}
	return nil
}
