package aggregate

import "github.com/law-makers/localevents/internal/sources"

func asSources(fs ...*fakeSource) []sources.Source {
	out := make([]sources.Source, len(fs))
	for i, f := range fs {
		out[i] = f
	}
	return out
}
