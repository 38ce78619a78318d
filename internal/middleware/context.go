package middleware

// contextKey namespaces values this package stores in request contexts.
type contextKey string
