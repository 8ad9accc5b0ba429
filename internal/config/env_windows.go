//go:build windows

package config

// Unix-style variable names used in config files map to their Windows
// counterparts.
func mapEnvKey(key string) string {
	switch key {
	case "HOSTNAME":
		return "COMPUTERNAME"
	case "USER":
		return "USERNAME"
	}
	return key
}
