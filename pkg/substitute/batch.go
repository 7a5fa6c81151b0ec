package substitute

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// SubstituteAll substitutes independent templates concurrently against the
// same layers. Results keep the order of templates. The first failure
// cancels the remaining work and is returned with the index of the template
// that caused it.
func (e *Engine) SubstituteAll(ctx context.Context, templates []string, env, data Vars) ([]string, error) {
	results := make([]string, len(templates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, tmpl := range templates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := e.Substitute(tmpl, env, data)
			if err != nil {
				return fmt.Errorf("template %d: %w", i, err)
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
