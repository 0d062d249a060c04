package redis

const (
	// KeyPrefixSession is the prefix for admin session keys
	KeyPrefixSession = "gems:session:"
)

// SessionKey returns the Redis key for a session token
func SessionKey(token string) string {
	return KeyPrefixSession + token
}
