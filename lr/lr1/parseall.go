package lr1

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/npillmayer/clr/lr"
	"github.com/npillmayer/clr/lr/scanner"
)

// ParseAll parses a number of inputs concurrently, sharing table and actions.
// Results are returned in the order of inputs. The first error cancels
// parsing of inputs which have not been started yet and is returned,
// wrapped with the index of the failing input.
func ParseAll(ctx context.Context, table *lr.Table, actions *Actions, inputs []scanner.Tokenizer) ([]interface{}, error) {
	results := make([]interface{}, len(inputs))
	group, ctx := errgroup.WithContext(ctx)
	for i, input := range inputs {
		i, input := i, input
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p := NewParser(table, actions)
			result, err := p.Parse(input)
			if err != nil {
				return fmt.Errorf("input #%d: %w", i, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
