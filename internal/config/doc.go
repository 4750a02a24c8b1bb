// Package config manages user-level settings stored at ~/.kiosk/config.yaml.
// Keys can be overridden through KIOSK_-prefixed environment variables
// (log.level becomes KIOSK_LOG_LEVEL).
package config
