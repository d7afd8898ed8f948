package commands

import (
	"context"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	GenerationFlags `embed:""`
}

func (b *BuildCmd) Run(g *Global, _ *CLI) error {
	r, err := newRunner(&b.GenerationFlags, g.logger())
	if err != nil {
		return err
	}
	_, _, err = r.gen.Run(context.Background())
	r.exportMetrics()
	return err
}
