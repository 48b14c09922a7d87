package cache

import "context"

// Op is a deferred operation that can be cached.
type Op[A, T any] func(ctx context.Context, arg A) (T, error)

// Identity derives the cache entry for a call argument.
type Identity[A any] func(arg A) Entry

// Wrap returns an Op that answers from c when possible and otherwise calls op
// and stores its result. Read and write failures are logged; they never hide
// the value op produced.
func Wrap[A, T any](c *Cache, op Op[A, T], identity Identity[A]) Op[A, T] {
	return func(ctx context.Context, arg A) (T, error) {
		entry := identity(arg)

		var cached T
		hit, err := c.Get(ctx, entry.Key, entry.Kind, &cached)
		if err != nil {
			c.log.Error("[cache] %v", err)
		} else if hit {
			c.log.Debug("[cache] hit %s", entry.Key)
			return cached, nil
		}

		v, err := op(ctx, arg)
		if err != nil {
			return v, err
		}
		if err := c.Write(ctx, entry.Key, entry.Kind, v); err != nil {
			c.log.Error("[cache] %v", err)
		}
		return v, nil
	}
}

// WrapValue is Wrap for operations that return their value immediately.
func WrapValue[A, T any](c *Cache, fn func(A) T, identity Identity[A]) func(A) T {
	op := Wrap(c, func(_ context.Context, arg A) (T, error) {
		return fn(arg), nil
	}, identity)
	return func(arg A) T {
		v, _ := op(context.Background(), arg)
		return v
	}
}
