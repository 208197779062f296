package cache

import (
	"log"
	"os"
)

// MakeCache picks a backend from the environment. Redis when REDIS_URL is
// set, a local file cache otherwise.
func MakeCache() (Cache, error) {
	if url, ok := os.LookupEnv("REDIS_URL"); ok {
		log.Println("Using Redis for client state")
		return NewRedisCache(url)
	}
	return NewFileCache("cache"), nil
}
