package middleware

// Middleware wraps a handler with extra behavior.
type Middleware[H any] func(H) H

// Chain composes middlewares so the first one listed is the outermost.
func Chain[H any](middlewares ...Middleware[H]) Middleware[H] {
	return func(handler H) H {
		for i := len(middlewares) - 1; i >= 0; i-- {
			handler = middlewares[i](handler)
		}
		return handler
	}
}
