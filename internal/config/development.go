package config

import (
	"os"
	"strconv"
)

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	on, err := strconv.ParseBool(development)
	if err != nil {
		return development != "0"
	}
	return on
}
