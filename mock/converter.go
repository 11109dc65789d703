package mock

import "github.com/fwojciec/newsbrief"

var _ newsbrief.Converter = (*Converter)(nil)

// Converter is a mock implementation of newsbrief.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
