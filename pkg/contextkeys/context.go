package contextkeys

// Custom type to avoid collisions with other context keys.
type contextKey string

// DBContextKey is the key under which the *gorm.DB handle (pool or open
// transaction) travels through gin/request contexts.
const DBContextKey = contextKey("db")
