package redis

const keyPrefix = "armada:"

// RunKey is the key holding one run report, JSON encoded.
func RunKey(id string) string {
	return keyPrefix + "run:" + id
}

// RunIndexKey is the list of run IDs, newest first.
func RunIndexKey() string {
	return keyPrefix + "runs"
}
