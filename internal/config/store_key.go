package config

// StoreKey is the single key under which signed-in credentials are kept,
// in every credential store backend.
const StoreKey = "exstem:credentials"

// Legacy key names written by older clients. Only the legacy adapter in
// authstore reads them; nothing writes them.
const (
	LegacyAccessTokenKey = "accessToken"
	LegacyTokenKey       = "token"
	LegacyUserKey        = "user"
)
