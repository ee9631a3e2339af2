package env

import (
	"os"
)

// PodName example: k8ssta-pixel-relayer-6868d88fbd-bz8zv
func PodName() string {
	return os.Getenv("PODNAME")
}

// EnvName example: testnet
func EnvName() string {
	return os.Getenv("ENV_NAME")
}

// AppName example: relayer
func AppName() string {
	return os.Getenv("APP_NAME")
}

// Or returns the value of key, or fallback if it is unset or empty
func Or(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
