package statestore

import (
	"fmt"
	"strings"
)

// Keys look like <prefix>/<hostname>/<container>.
func keyFor(prefix, hostname, containerName string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(prefix, "/"), hostname, containerName)
}

func keyPrefix(prefix string) string {
	return strings.TrimRight(prefix, "/") + "/"
}

func splitKey(prefix, key string) (hostname, containerName string, err error) {
	path, ok := strings.CutPrefix(key, keyPrefix(prefix))
	if !ok {
		return "", "", fmt.Errorf("key %s is outside prefix %s", key, prefix)
	}
	hostname, containerName, ok = strings.Cut(path, "/")
	if !ok || hostname == "" || containerName == "" {
		return "", "", fmt.Errorf("key %s is not <hostname>/<container>", key)
	}
	return hostname, containerName, nil
}
