package config

import "os"

func IsDebug() bool {
	return os.Getenv("BRIEF_DEBUG") == "1"
}
