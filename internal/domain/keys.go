package domain

// KeyPrefix is the default namespace for every Redis key the service
// writes. Deployments override it via storage.key_prefix.
const KeyPrefix = "paperdex:"
