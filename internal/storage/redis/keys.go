package redis

import "fmt"

// itemKey returns the Redis key for a storage item
func itemKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return fmt.Sprintf("%s:item:%s", prefix, key)
}
