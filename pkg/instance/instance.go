package instance

import "os"

// ID names the running process in logs: SHOPFRONT_INSTANCE_ID, then the platform
// dyno name, then the hostname, then "local".
func ID() string {
	for _, key := range []string{"SHOPFRONT_INSTANCE_ID", "DYNO"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
