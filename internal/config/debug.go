package config

import "os"

func IsDebug() bool {
	return os.Getenv("SHELFMATE_DEBUG") == "1"
}
