package cache

import "fmt"

const keyPrefix = "mdvrp:"

func KeyInstance(fingerprint string) string {
	return fmt.Sprintf("instance:%s", fingerprint)
}
